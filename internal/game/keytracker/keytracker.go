// Package keytracker turns held keys into single-frame presses.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker tracks the previous state of a set of keys. Poll it once
// per Update.
type KeyStateTracker struct {
	prev    map[ebiten.Key]bool
	pressed func(ebiten.Key) bool
}

// New tracks keys against ebiten's keyboard state.
func New() *KeyStateTracker {
	return NewWithSource(ebiten.IsKeyPressed)
}

// NewWithSource tracks keys against an arbitrary key state, for tests.
func NewWithSource(pressed func(ebiten.Key) bool) *KeyStateTracker {
	return &KeyStateTracker{prev: make(map[ebiten.Key]bool), pressed: pressed}
}

// IsKeyJustPressed returns true if the key was not pressed at the previous
// call for it but is pressed now.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	pressed := k.pressed(key)
	justPressed := pressed && !k.prev[key]
	k.prev[key] = pressed
	return justPressed
}

// IsKeyPressed reports the current state without recording it.
func (k *KeyStateTracker) IsKeyPressed(key ebiten.Key) bool {
	return k.pressed(key)
}
