package game

import "time"

// EffectKind names a transient visual effect.
type EffectKind int

const (
	EffectMuzzleFlash EffectKind = iota
	EffectDamageFlash
	EffectHitMarker
	EffectScreenShake
)

func (k EffectKind) String() string {
	switch k {
	case EffectMuzzleFlash:
		return "muzzle_flash"
	case EffectDamageFlash:
		return "damage_flash"
	case EffectHitMarker:
		return "hit_marker"
	case EffectScreenShake:
		return "screen_shake"
	}
	return "unknown"
}

// Effect counts down once per tick. Payload is the effect's strength.
type Effect struct {
	Kind      EffectKind
	Remaining time.Duration
	Duration  time.Duration
	Payload   float64
}

// Strength is Payload scaled by the time left.
func (e Effect) Strength() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return e.Payload * float64(e.Remaining) / float64(e.Duration)
}

// Effects is the active effect list. At most one effect of each kind is
// kept; adding a kind again restarts it with the larger payload.
type Effects struct {
	list []Effect
}

// Add starts or restarts an effect.
func (fx *Effects) Add(kind EffectKind, d time.Duration, payload float64) {
	if d <= 0 {
		return
	}
	for i := range fx.list {
		if fx.list[i].Kind == kind {
			fx.list[i].Remaining = d
			fx.list[i].Duration = d
			fx.list[i].Payload = max(fx.list[i].Payload, payload)
			return
		}
	}
	fx.list = append(fx.list, Effect{Kind: kind, Remaining: d, Duration: d, Payload: payload})
}

// Tick decrements every effect by dt and drops the expired ones.
func (fx *Effects) Tick(dt time.Duration) {
	kept := fx.list[:0]
	for _, e := range fx.list {
		e.Remaining -= dt
		if e.Remaining > 0 {
			kept = append(kept, e)
		}
	}
	fx.list = kept
}

// Active returns the effect of the given kind, if running.
func (fx *Effects) Active(kind EffectKind) (Effect, bool) {
	for _, e := range fx.list {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

// Strength is the current strength of kind, 0 when inactive.
func (fx *Effects) Strength(kind EffectKind) float64 {
	e, ok := fx.Active(kind)
	if !ok {
		return 0
	}
	return e.Strength()
}

// All returns a copy of the active effects.
func (fx *Effects) All() []Effect {
	out := make([]Effect, len(fx.list))
	copy(out, fx.list)
	return out
}

// Clear drops every effect.
func (fx *Effects) Clear() {
	fx.list = fx.list[:0]
}
