package collision

import (
	"math"
	"math/rand"
	"testing"
)

// mockTileChecker implements TileChecker for testing
type mockTileChecker struct {
	size        int
	opaqueTiles map[int]map[int]bool
	portals     map[int]map[int]bool
}

func newMockTileChecker(size int) *mockTileChecker {
	return &mockTileChecker{
		size:        size,
		opaqueTiles: make(map[int]map[int]bool),
		portals:     make(map[int]map[int]bool),
	}
}

func (m *mockTileChecker) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.size && y < m.size
}

func (m *mockTileChecker) IsOpaque(tileX, tileY int) bool {
	if !m.inBounds(tileX, tileY) {
		return true
	}
	if row, ok := m.opaqueTiles[tileY]; ok {
		return row[tileX]
	}
	return false
}

func (m *mockTileChecker) isPortal(tileX, tileY int) bool {
	if row, ok := m.portals[tileY]; ok {
		return row[tileX]
	}
	return false
}

func (m *mockTileChecker) IsFloor(tileX, tileY int) bool {
	return m.inBounds(tileX, tileY) && !m.IsOpaque(tileX, tileY) && !m.isPortal(tileX, tileY)
}

func (m *mockTileChecker) IsWalkable(tileX, tileY int) bool {
	return m.inBounds(tileX, tileY) && !m.IsOpaque(tileX, tileY)
}

func (m *mockTileChecker) Size() int { return m.size }

func (m *mockTileChecker) setOpaque(tileX, tileY int, opaque bool) {
	if m.opaqueTiles[tileY] == nil {
		m.opaqueTiles[tileY] = make(map[int]bool)
	}
	m.opaqueTiles[tileY][tileX] = opaque
}

func (m *mockTileChecker) setPortal(tileX, tileY int) {
	if m.portals[tileY] == nil {
		m.portals[tileY] = make(map[int]bool)
	}
	m.portals[tileY][tileX] = true
}

func TestCastRay_HorizontalLine(t *testing.T) {
	checker := newMockTileChecker(10)

	x1, y1 := 0.5, 0.5
	x2, y2 := 5.5, 0.5

	_, hasHit := CastRay(checker, x1, y1, x2, y2)
	if hasHit {
		t.Errorf("Expected no hit for clear horizontal line")
	}

	checker.setOpaque(3, 0, true)

	hit, hasHit := CastRay(checker, x1, y1, x2, y2)
	if !hasHit {
		t.Fatalf("Expected hit for horizontal line with opaque tile")
	}
	if hit.TileX != 3 || hit.TileY != 0 {
		t.Errorf("Expected hit at tile (3, 0), got (%d, %d)", hit.TileX, hit.TileY)
	}
	if math.Abs(hit.Dist-2.5) > 1e-9 {
		t.Errorf("Expected distance 2.5 to the tile face, got %v", hit.Dist)
	}
}

func TestCastRay_VerticalLine(t *testing.T) {
	checker := newMockTileChecker(10)

	x1, y1 := 0.5, 0.5
	x2, y2 := 0.5, 5.5

	if _, hasHit := CastRay(checker, x1, y1, x2, y2); hasHit {
		t.Errorf("Expected no hit for clear vertical line")
	}

	checker.setOpaque(0, 3, true)

	hit, hasHit := CastRay(checker, x1, y1, x2, y2)
	if !hasHit {
		t.Fatalf("Expected hit for vertical line with opaque tile")
	}
	if hit.TileX != 0 || hit.TileY != 3 {
		t.Errorf("Expected hit at tile (0, 3), got (%d, %d)", hit.TileX, hit.TileY)
	}
}

func TestCastRay_StopsAtSegmentEnd(t *testing.T) {
	checker := newMockTileChecker(10)
	checker.setOpaque(6, 2, true)

	if _, hasHit := CastRay(checker, 1.5, 2.5, 4.5, 2.5); hasHit {
		t.Errorf("wall beyond the segment end must not be reported")
	}
}

func TestCastRay_DiagonalLine(t *testing.T) {
	checker := newMockTileChecker(10)

	if _, hasHit := CastRay(checker, 0.2, 0.3, 3.2, 3.4); hasHit {
		t.Errorf("Expected no hit for clear diagonal line")
	}

	checker.setOpaque(2, 2, true)
	hit, hasHit := CastRay(checker, 0.2, 0.3, 3.2, 3.4)
	if !hasHit {
		t.Fatalf("Expected hit for diagonal line through (2, 2)")
	}
	if hit.TileX != 2 || hit.TileY != 2 {
		t.Errorf("Expected hit at tile (2, 2), got (%d, %d)", hit.TileX, hit.TileY)
	}
}

func TestHasLineOfSight(t *testing.T) {
	checker := newMockTileChecker(10)
	checker.setOpaque(4, 4, true)
	checker.setPortal(8, 1)
	checker.setPortal(5, 7)

	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           bool
	}{
		{"clear row", 1.5, 1.5, 7.5, 1.5, true},
		{"through wall", 2.5, 4.5, 6.5, 4.5, false},
		{"around wall", 2.5, 5.5, 6.5, 5.5, true},
		{"onto portal", 1.5, 1.5, 8.5, 1.5, false},
		{"across portal", 3.5, 7.5, 7.5, 7.5, false},
		{"beside portal", 3.5, 6.5, 7.5, 6.5, true},
		{"out of bounds", 1.5, 1.5, -1.5, 1.5, false},
		{"same point", 3.5, 3.5, 3.5, 3.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(checker, tt.x1, tt.y1, tt.x2, tt.y2); got != tt.want {
				t.Errorf("HasLineOfSight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasLineOfSightSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	checker := newMockTileChecker(16)
	for i := 0; i < 40; i++ {
		checker.setOpaque(rng.Intn(16), rng.Intn(16), true)
	}

	for i := 0; i < 2000; i++ {
		ax, ay := rng.Float64()*16, rng.Float64()*16
		bx, by := rng.Float64()*16, rng.Float64()*16
		ab := HasLineOfSight(checker, ax, ay, bx, by)
		ba := HasLineOfSight(checker, bx, by, ax, ay)
		if ab != ba {
			t.Fatalf("asymmetric sight between (%.3f,%.3f) and (%.3f,%.3f): %v vs %v", ax, ay, bx, by, ab, ba)
		}
	}
}

func TestSlideMove(t *testing.T) {
	checker := newMockTileChecker(10)
	checker.setOpaque(3, 2, true)

	// Moving diagonally into a wall on x keeps the y component.
	x, y := SlideMove(checker, 2.8, 2.5, 0.4, 0.3)
	if x != 2.8 {
		t.Errorf("x movement into wall should be discarded, got %v", x)
	}
	if math.Abs(y-2.8) > 1e-9 {
		t.Errorf("y movement should apply, got %v", y)
	}

	// Leaving the map is rejected.
	x, y = SlideMove(checker, 0.1, 0.1, -0.2, -0.2)
	if x != 0.1 || y != 0.1 {
		t.Errorf("out-of-bounds move should be discarded, got (%v, %v)", x, y)
	}
}

func TestEnemyCannotEnterPortal(t *testing.T) {
	checker := newMockTileChecker(5)
	checker.setPortal(2, 2)
	if CanEnemyOccupy(checker, 2.5, 2.5) {
		t.Error("enemy should not stand on the portal")
	}
	if !CanOccupy(checker, 2.5, 2.5) {
		t.Error("player should be able to stand on the portal")
	}
}
