package enemy

import (
	"time"

	"raydungeon/internal/mathutil"
)

// Snapshot is the serialisable form of an enemy used by session saves.
// Cached paths are not kept; a restored chaser searches again.
type Snapshot struct {
	ID               int     `json:"id"`
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	Sprite           string  `json:"sprite,omitempty"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Facing           Facing  `json:"facing"`
	Health           int     `json:"health"`
	MaxHealth        int     `json:"maxHealth"`
	Damage           int     `json:"damage"`
	Speed            float64 `json:"speed"`
	DetectionRange   float64 `json:"detectionRange"`
	AttackRange      float64 `json:"attackRange"`
	AttackCooldownMs int64   `json:"attackCooldownMs"`
	State            State   `json:"state"`
	LastAttackMs     int64   `json:"lastAttackMs"`
	HasAttacked      bool    `json:"hasAttacked"`
}

func (e *Enemy) Snapshot() Snapshot {
	return Snapshot{
		ID:               e.ID,
		Type:             e.Type,
		Name:             e.Name,
		Sprite:           e.Sprite,
		X:                e.X,
		Y:                e.Y,
		Facing:           e.Facing,
		Health:           e.health,
		MaxHealth:        e.maxHealth,
		Damage:           e.Damage,
		Speed:            e.Speed,
		DetectionRange:   e.DetectionRange,
		AttackRange:      e.AttackRange,
		AttackCooldownMs: e.AttackCooldown.Milliseconds(),
		State:            e.state,
		LastAttackMs:     e.lastAttack.Milliseconds(),
		HasAttacked:      e.hasAttacked,
	}
}

// FromSnapshot rebuilds an enemy. Health is clamped and the state forced to
// Dead exactly when health is zero.
func FromSnapshot(s Snapshot) *Enemy {
	if s.MaxHealth <= 0 {
		s.MaxHealth = 1
	}
	e := &Enemy{
		ID:             s.ID,
		Type:           s.Type,
		Name:           s.Name,
		Sprite:         s.Sprite,
		X:              s.X,
		Y:              s.Y,
		Facing:         s.Facing,
		Damage:         s.Damage,
		Speed:          s.Speed,
		DetectionRange: s.DetectionRange,
		AttackRange:    s.AttackRange,
		AttackCooldown: time.Duration(s.AttackCooldownMs) * time.Millisecond,
		health:         mathutil.ClampInt(s.Health, 0, s.MaxHealth),
		maxHealth:      s.MaxHealth,
		state:          s.State,
		lastAttack:     time.Duration(s.LastAttackMs) * time.Millisecond,
		hasAttacked:    s.HasAttacked,
	}
	switch {
	case e.health == 0:
		e.state = StateDead
	case e.state == StateDead || e.state < StateIdle || e.state > StateDead:
		e.state = StateIdle
	}
	return e
}
