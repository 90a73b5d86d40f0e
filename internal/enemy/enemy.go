package enemy

import (
	"math"
	"math/rand"
	"time"

	"raydungeon/internal/collision"
	"raydungeon/internal/mathutil"
	"raydungeon/internal/world"
)

// Grid is the map view an enemy needs: sight, occupancy and pathing.
type Grid interface {
	collision.TileChecker
}

// Tick carries everything one Update call reads.
type Tick struct {
	PlayerX, PlayerY float64
	Grid             Grid
	DT               float64       // seconds since the previous update
	Now              time.Duration // session clock
	Rng              *rand.Rand
	Tuning           *Tuning
	Paths            *Pathfinder
}

// Enemy is one hostile actor. Health and state are only changed through
// Update and TakeDamage so that Dead always matches zero health.
type Enemy struct {
	ID     int
	Type   string
	Name   string
	Sprite string
	X, Y   float64
	Facing Facing

	Damage         int
	Speed          float64 // tiles per second
	DetectionRange float64
	AttackRange    float64
	AttackCooldown time.Duration

	health    int
	maxHealth int
	state     State

	patrolHeading float64
	patrolLeft    time.Duration

	path       []world.Point
	pathFailed bool
	nextRepath time.Duration

	lastAttack  time.Duration
	hasAttacked bool
}

// New creates an idle enemy at a continuous position.
func New(id int, x, y float64, s Stats) *Enemy {
	return &Enemy{
		ID:             id,
		Type:           s.Key,
		Name:           s.Name,
		Sprite:         s.Sprite,
		X:              x,
		Y:              y,
		Facing:         FacingSouth,
		Damage:         s.Damage,
		Speed:          s.Speed,
		DetectionRange: s.DetectionRange,
		AttackRange:    s.AttackRange,
		AttackCooldown: s.AttackCooldown(),
		health:         s.Health,
		maxHealth:      s.Health,
		state:          StateIdle,
	}
}

func (e *Enemy) State() State   { return e.state }
func (e *Enemy) Health() int    { return e.health }
func (e *Enemy) MaxHealth() int { return e.maxHealth }
func (e *Enemy) IsAlive() bool  { return e.state != StateDead }
func (e *Enemy) Path() []world.Point {
	out := make([]world.Point, len(e.path))
	copy(out, e.path)
	return out
}

// TakeDamage subtracts n health and reports whether this call killed the
// enemy. A hit wakes an idle enemy regardless of range.
func (e *Enemy) TakeDamage(n int) bool {
	if e.state == StateDead {
		return false
	}
	e.health = mathutil.ClampInt(e.health-n, 0, e.maxHealth)
	if e.health == 0 {
		e.state = StateDead
		e.path = nil
		return true
	}
	if e.state == StateIdle && n > 0 {
		e.state = StateChase
	}
	return false
}

// Update evaluates at most one transition, moves, and returns the damage
// dealt to the player this tick.
func (e *Enemy) Update(t Tick) int {
	dx := t.PlayerX - e.X
	dy := t.PlayerY - e.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	switch e.state {
	case StateIdle:
		if dist < e.DetectionRange && collision.HasLineOfSight(t.Grid, e.X, e.Y, t.PlayerX, t.PlayerY) {
			e.state = StateChase
			e.path = nil
			e.pathFailed = false
			e.nextRepath = t.Now
			return 0
		}
		e.Facing = facingToward(dx, dy)
		e.patrol(t)
		return 0

	case StateChase:
		if dist > e.DetectionRange*t.Tuning.LoseTargetFactor {
			e.state = StateIdle
			e.path = nil
			e.patrolLeft = 0
			return 0
		}
		if dist < e.AttackRange {
			e.state = StateAttack
			e.path = nil
			return 0
		}
		e.Facing = facingToward(dx, dy)
		if !collision.HasLineOfSight(t.Grid, e.X, e.Y, t.PlayerX, t.PlayerY) {
			return 0
		}
		e.pursue(t)
		return 0

	case StateAttack:
		if dist > e.AttackRange*t.Tuning.AttackExitFactor {
			e.state = StateChase
			e.nextRepath = t.Now
			return 0
		}
		e.Facing = facingToward(dx, dy)
		if e.hasAttacked && t.Now-e.lastAttack < e.AttackCooldown {
			return 0
		}
		e.lastAttack = t.Now
		e.hasAttacked = true
		return e.Damage

	case StateDead:
		return 0
	}
	return 0
}

// patrol walks a random heading, choosing a new one when the timer runs out
// or the next step would hit a wall.
func (e *Enemy) patrol(t Tick) {
	if e.patrolLeft <= 0 {
		e.newHeading(t)
	}
	e.patrolLeft -= time.Duration(t.DT * float64(time.Second))

	step := e.Speed * t.Tuning.PatrolSpeedFactor * t.DT
	nx := e.X + math.Cos(e.patrolHeading)*step
	ny := e.Y + math.Sin(e.patrolHeading)*step
	if collision.CanEnemyOccupy(t.Grid, nx, ny) {
		e.X, e.Y = nx, ny
		return
	}
	e.newHeading(t)
}

func (e *Enemy) newHeading(t Tick) {
	e.patrolHeading = t.Rng.Float64() * 2 * math.Pi
	span := t.Tuning.PatrolMax - t.Tuning.PatrolMin
	e.patrolLeft = t.Tuning.PatrolMin
	if span > 0 {
		e.patrolLeft += time.Duration(t.Rng.Int63n(int64(span) + 1))
	}
}

// pursue follows the cached A* path toward the player, refreshing it on the
// repath interval or as soon as it runs out. A failed search waits for the
// next interval.
func (e *Enemy) pursue(t Tick) {
	needPath := t.Now >= e.nextRepath || (len(e.path) == 0 && !e.pathFailed)
	if needPath {
		start := world.Point{X: mathutil.TileOf(e.X), Y: mathutil.TileOf(e.Y)}
		goal := world.Point{X: mathutil.TileOf(t.PlayerX), Y: mathutil.TileOf(t.PlayerY)}
		e.path = t.Paths.FindPath(t.Grid, start, goal)
		e.pathFailed = len(e.path) == 0
		e.nextRepath = t.Now + t.Tuning.RepathInterval
	}

	step := e.Speed * t.DT
	for step > 0 && len(e.path) > 0 {
		wp := e.path[0]
		tx, ty := mathutil.TileCenter(wp.X), mathutil.TileCenter(wp.Y)
		d := mathutil.Distance(e.X, e.Y, tx, ty)
		if d <= t.Tuning.WaypointTolerance {
			e.path = e.path[1:]
			continue
		}
		move := math.Min(step, d)
		nx := e.X + (tx-e.X)/d*move
		ny := e.Y + (ty-e.Y)/d*move
		if !collision.CanEnemyOccupy(t.Grid, nx, ny) {
			return
		}
		e.X, e.Y = nx, ny
		step -= move
	}
}
