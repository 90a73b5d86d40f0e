package enemy

// State is the enemy behaviour mode. Dead is terminal.
type State int

const (
	StateIdle State = iota
	StateChase
	StateAttack
	StateDead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// Facing is a four-way direction used to pick a sprite frame.
type Facing int

const (
	FacingSouth Facing = iota
	FacingNorth
	FacingWest
	FacingEast
)

// Vector returns the unit grid vector for the facing (y grows southwards).
func (f Facing) Vector() (float64, float64) {
	switch f {
	case FacingNorth:
		return 0, -1
	case FacingWest:
		return -1, 0
	case FacingEast:
		return 1, 0
	}
	return 0, 1
}

func (f Facing) String() string {
	switch f {
	case FacingSouth:
		return "south"
	case FacingNorth:
		return "north"
	case FacingWest:
		return "west"
	case FacingEast:
		return "east"
	}
	return "unknown"
}

// facingToward discretises a direction by its dominant axis.
func facingToward(dx, dy float64) Facing {
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return FacingEast
		}
		return FacingWest
	}
	if dy < 0 {
		return FacingNorth
	}
	return FacingSouth
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
