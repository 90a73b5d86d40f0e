package keytracker

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestIsKeyJustPressedPerKey(t *testing.T) {
	down := map[ebiten.Key]bool{}
	k := NewWithSource(func(key ebiten.Key) bool { return down[key] })

	down[ebiten.KeyF3] = true
	if !k.IsKeyJustPressed(ebiten.KeyF3) {
		t.Fatal("first frame of a press should register")
	}
	if k.IsKeyJustPressed(ebiten.KeyF3) {
		t.Error("held key must not repeat")
	}

	down[ebiten.KeyE] = true
	if !k.IsKeyJustPressed(ebiten.KeyE) {
		t.Error("keys are tracked independently")
	}

	down[ebiten.KeyF3] = false
	k.IsKeyJustPressed(ebiten.KeyF3)
	down[ebiten.KeyF3] = true
	if !k.IsKeyJustPressed(ebiten.KeyF3) {
		t.Error("release then press should register again")
	}
}
