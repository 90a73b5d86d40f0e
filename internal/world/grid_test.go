package world

import (
	"testing"
)

func testGrid(t *testing.T) *TileGrid {
	t.Helper()
	cells := []int{
		1, 1, 1, 1,
		1, 0, 9, 1,
		1, 0, 2, 1,
		1, 1, 1, 1,
	}
	g, err := NewTileGrid(4, cells)
	if err != nil {
		t.Fatalf("NewTileGrid: %v", err)
	}
	return g
}

func TestTileGridQueries(t *testing.T) {
	g := testGrid(t)

	tests := []struct {
		name                    string
		x, y                    int
		floor, walkable, opaque bool
	}{
		{"floor", 1, 1, true, true, false},
		{"portal", 2, 1, false, true, false},
		{"wall variant", 2, 2, false, false, true},
		{"out of bounds", -1, 0, false, false, true},
		{"past edge", 4, 4, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsFloor(tt.x, tt.y); got != tt.floor {
				t.Errorf("IsFloor = %v, want %v", got, tt.floor)
			}
			if got := g.IsWalkable(tt.x, tt.y); got != tt.walkable {
				t.Errorf("IsWalkable = %v, want %v", got, tt.walkable)
			}
			if got := g.IsOpaque(tt.x, tt.y); got != tt.opaque {
				t.Errorf("IsOpaque = %v, want %v", got, tt.opaque)
			}
		})
	}
}

func TestTileGridCopiesInput(t *testing.T) {
	cells := []int{0, 0, 0, 0}
	g, err := NewTileGrid(2, cells)
	if err != nil {
		t.Fatalf("NewTileGrid: %v", err)
	}
	cells[0] = 1
	if g.At(0, 0) != TileFloor {
		t.Errorf("grid should not alias caller slice")
	}
	out := g.Cells()
	out[1] = 5
	if g.At(1, 0) != TileFloor {
		t.Errorf("Cells should return a copy")
	}
}

func TestNewTileGridRejectsBadLength(t *testing.T) {
	if _, err := NewTileGrid(3, make([]int, 4)); err == nil {
		t.Error("expected error for mismatched cell count")
	}
}

func TestFindAndCount(t *testing.T) {
	g := testGrid(t)
	p, ok := g.Find(TilePortal)
	if !ok || p != (Point{X: 2, Y: 1}) {
		t.Errorf("Find(portal) = %v, %v", p, ok)
	}
	if n := g.Count(TileFloor); n != 2 {
		t.Errorf("Count(floor) = %d, want 2", n)
	}
}

func TestRoomCenter(t *testing.T) {
	r := Room{X: 2, Y: 3, Width: 5, Height: 4}
	if c := r.Center(); c != (Point{X: 4, Y: 5}) {
		t.Errorf("Center = %v", c)
	}
	if !r.Contains(r.Center().X, r.Center().Y) {
		t.Error("room should contain its center")
	}
	if r.Contains(7, 3) {
		t.Error("right edge is exclusive")
	}
}
