package mathutil

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	x, y := Normalize(0, 0)
	if x != 0 || y != 0 {
		t.Errorf("expected zero vector, got (%v, %v)", x, y)
	}
	x, y = Normalize(3, 4)
	if math.Abs(x-0.6) > 1e-9 || math.Abs(y-0.8) > 1e-9 {
		t.Errorf("expected (0.6, 0.8), got (%v, %v)", x, y)
	}
}

func TestTileOfNegative(t *testing.T) {
	if got := TileOf(-0.25); got != -1 {
		t.Errorf("TileOf(-0.25) = %d, want -1", got)
	}
	if got := TileOf(2.99); got != 2 {
		t.Errorf("TileOf(2.99) = %d, want 2", got)
	}
}
