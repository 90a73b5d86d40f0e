package game

import "math"

// Player is the first-person avatar.
type Player struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Gold      int     `json:"gold"`
}

// Dir is the unit facing vector.
func (p Player) Dir() (float64, float64) {
	return math.Cos(p.Angle), math.Sin(p.Angle)
}

// Heal adds n health up to MaxHealth and returns the amount applied.
func (p *Player) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.Health
	p.Health = min(p.MaxHealth, p.Health+n)
	return p.Health - before
}

// Hurt removes n health, never going below zero.
func (p *Player) Hurt(n int) {
	if n <= 0 {
		return
	}
	p.Health = max(0, p.Health-n)
}
