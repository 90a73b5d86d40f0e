package world

import "fmt"

// Tile codes stored in a TileGrid.
const (
	TileFloor  = 0
	TileWall   = 1 // first wall variant; 1..K are all walls
	TilePortal = 9
)

// Point is a grid cell coordinate.
type Point struct {
	X, Y int
}

// Room is a carved rectangle of floor.
type Room struct {
	X, Y, Width, Height int
}

// Center returns the cell at the middle of the room.
func (r Room) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether the cell lies inside the room rectangle.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// TileGrid is a square, row-major map of tile codes. It is never modified
// after construction; all readers share the same instance.
type TileGrid struct {
	size  int
	cells []int
}

// NewTileGrid copies cells into a grid of the given size.
func NewTileGrid(size int, cells []int) (*TileGrid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("tile grid size must be positive, got %d", size)
	}
	if len(cells) != size*size {
		return nil, fmt.Errorf("tile grid of size %d needs %d cells, got %d", size, size*size, len(cells))
	}
	g := &TileGrid{size: size, cells: make([]int, len(cells))}
	copy(g.cells, cells)
	return g, nil
}

// Size returns the side length of the grid.
func (g *TileGrid) Size() int { return g.size }

// InBounds reports whether (x, y) is a cell of the grid.
func (g *TileGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// At returns the code at (x, y). Cells outside the grid read as wall.
func (g *TileGrid) At(x, y int) int {
	if !g.InBounds(x, y) {
		return TileWall
	}
	return g.cells[y*g.size+x]
}

// IsFloor reports a plain floor cell. Enemies may only stand on these.
func (g *TileGrid) IsFloor(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y*g.size+x] == TileFloor
}

// IsWalkable reports floor or portal; the player may enter both.
func (g *TileGrid) IsWalkable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	code := g.cells[y*g.size+x]
	return code == TileFloor || code == TilePortal
}

// IsOpaque reports whether the cell blocks sight. Out-of-bounds cells do.
func (g *TileGrid) IsOpaque(x, y int) bool {
	return IsWallCode(g.At(x, y))
}

// IsWallCode reports whether a tile code is a wall variant.
func IsWallCode(code int) bool {
	return code != TileFloor && code != TilePortal
}

// Cells returns a copy of the row-major cell codes.
func (g *TileGrid) Cells() []int {
	out := make([]int, len(g.cells))
	copy(out, g.cells)
	return out
}

// Count returns how many cells hold code.
func (g *TileGrid) Count(code int) int {
	n := 0
	for _, c := range g.cells {
		if c == code {
			n++
		}
	}
	return n
}

// Find returns the first cell holding code, scanning row by row.
func (g *TileGrid) Find(code int) (Point, bool) {
	for i, c := range g.cells {
		if c == code {
			return Point{X: i % g.size, Y: i / g.size}, true
		}
	}
	return Point{}, false
}
