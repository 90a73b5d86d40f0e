package game

import (
	"testing"
	"time"
)

func TestEffectsDecay(t *testing.T) {
	var fx Effects
	fx.Add(EffectMuzzleFlash, 80*time.Millisecond, 1)
	fx.Add(EffectDamageFlash, 200*time.Millisecond, 0.5)

	fx.Tick(40 * time.Millisecond)
	if got := fx.Strength(EffectMuzzleFlash); got != 0.5 {
		t.Errorf("muzzle strength = %v, want 0.5", got)
	}
	fx.Tick(40 * time.Millisecond)
	if _, ok := fx.Active(EffectMuzzleFlash); ok {
		t.Error("muzzle flash should expire at zero")
	}
	if _, ok := fx.Active(EffectDamageFlash); !ok {
		t.Error("damage flash expired early")
	}
	fx.Tick(time.Second)
	if len(fx.All()) != 0 {
		t.Errorf("effects left: %v", fx.All())
	}
}

func TestEffectsRestartKeepsOnePerKind(t *testing.T) {
	var fx Effects
	fx.Add(EffectScreenShake, 100*time.Millisecond, 0.2)
	fx.Tick(90 * time.Millisecond)
	fx.Add(EffectScreenShake, 100*time.Millisecond, 0.8)
	fx.Add(EffectScreenShake, 100*time.Millisecond, 0.1)

	all := fx.All()
	if len(all) != 1 {
		t.Fatalf("got %d effects, want 1", len(all))
	}
	if all[0].Remaining != 100*time.Millisecond || all[0].Payload != 0.8 {
		t.Errorf("restart = %+v", all[0])
	}
	fx.Add(EffectHitMarker, 0, 1)
	if _, ok := fx.Active(EffectHitMarker); ok {
		t.Error("zero duration effects are ignored")
	}
}

func TestPlayerHealClamps(t *testing.T) {
	p := Player{Health: 90, MaxHealth: 100}
	if got := p.Heal(50); got != 10 || p.Health != 100 {
		t.Errorf("heal applied %d, health %d", got, p.Health)
	}
	p.Hurt(150)
	if p.Health != 0 {
		t.Errorf("health = %d, want 0", p.Health)
	}
}
