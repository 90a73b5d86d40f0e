package dungeon

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"raydungeon/internal/mathutil"
	"raydungeon/internal/world"
)

// ErrInvalidParams is returned when generation parameters cannot describe a
// dungeon at all. Small or unsplittable layouts are not errors.
var ErrInvalidParams = errors.New("invalid dungeon parameters")

// Params controls one call to Generate.
type Params struct {
	Size           int
	MinRoomSize    int
	MaxRoomSize    int
	RecursionDepth int
	Seed           int64 // 0 derives a seed from the clock
	WallVariants   int   // 0 means a single wall variant
}

// Result is everything a level needs from generation. The partition tree is
// not kept.
type Result struct {
	Grid        *world.TileGrid
	Size        int
	Seed        int64
	Rooms       []world.Room
	PlayerStart world.Point
	Exit        world.Point
	NPCSpawn    world.Point
}

type generator struct {
	params Params
	rng    *rand.Rand
	cells  []int
}

func (p Params) validate() error {
	switch {
	case p.MinRoomSize <= 0:
		return fmt.Errorf("%w: min room size %d", ErrInvalidParams, p.MinRoomSize)
	case p.MaxRoomSize < p.MinRoomSize:
		return fmt.Errorf("%w: max room size %d below min %d", ErrInvalidParams, p.MaxRoomSize, p.MinRoomSize)
	case p.Size < p.MinRoomSize+2:
		return fmt.Errorf("%w: size %d smaller than min room size + 2", ErrInvalidParams, p.Size)
	case p.Size < 3:
		return fmt.Errorf("%w: size %d", ErrInvalidParams, p.Size)
	case p.RecursionDepth < 0:
		return fmt.Errorf("%w: recursion depth %d", ErrInvalidParams, p.RecursionDepth)
	case p.WallVariants < 0 || p.WallVariants >= world.TilePortal:
		return fmt.Errorf("%w: wall variants %d", ErrInvalidParams, p.WallVariants)
	}
	return nil
}

// Generate builds a dungeon from a binary space partition of a Size x Size
// square. The same Params (including a non-zero Seed) always produce the same
// Result.
func Generate(p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}
	if p.WallVariants == 0 {
		p.WallVariants = 1
	}

	g := &generator{
		params: p,
		rng:    rand.New(rand.NewSource(p.Seed)),
		cells:  make([]int, p.Size*p.Size),
	}
	for i := range g.cells {
		g.cells[i] = world.TileWall
	}

	root := &bspNode{X: 0, Y: 0, Width: p.Size, Height: p.Size}
	g.partition(root)
	rooms := g.placeRooms(root, nil)
	g.connect(root)
	g.paintWalls(rooms)

	start := rooms[0].Center()
	npc := rooms[len(rooms)/2].Center()
	exit := g.placeExit(rooms, start)
	g.cells[exit.Y*p.Size+exit.X] = world.TilePortal

	grid, err := world.NewTileGrid(p.Size, g.cells)
	if err != nil {
		return nil, err
	}

	return &Result{
		Grid:        grid,
		Size:        p.Size,
		Seed:        p.Seed,
		Rooms:       rooms,
		PlayerStart: start,
		Exit:        exit,
		NPCSpawn:    npc,
	}, nil
}

// placeExit returns the portal cell: the center of the last room. A lone
// room would put it under the player, so it moves to the room's far corner.
// A 1x1 room first grows by one interior cell, which takes the portal. Only
// a grid with a single interior cell leaves the portal on the start.
func (g *generator) placeExit(rooms []world.Room, start world.Point) world.Point {
	last := &rooms[len(rooms)-1]
	if len(rooms) > 1 {
		return last.Center()
	}
	if last.Width == 1 && last.Height == 1 {
		if p, ok := g.growRoom(last); ok {
			return p
		}
		return start
	}
	return world.Point{X: last.X + last.Width - 1, Y: last.Y + last.Height - 1}
}

// growRoom carves the first interior neighbour of a 1x1 room into it and
// returns that cell.
func (g *generator) growRoom(r *world.Room) (world.Point, bool) {
	limit := g.params.Size - 2
	for _, d := range [4]world.Point{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}} {
		n := world.Point{X: r.X + d.X, Y: r.Y + d.Y}
		if n.X < 1 || n.Y < 1 || n.X > limit || n.Y > limit {
			continue
		}
		g.set(n.X, n.Y, world.TileFloor)
		*r = world.Room{
			X:      min(r.X, n.X),
			Y:      min(r.Y, n.Y),
			Width:  1 + mathutil.IntAbs(d.X),
			Height: 1 + mathutil.IntAbs(d.Y),
		}
		return n, true
	}
	return world.Point{}, false
}

func (g *generator) set(x, y, code int) {
	if x < 0 || y < 0 || x >= g.params.Size || y >= g.params.Size {
		return
	}
	g.cells[y*g.params.Size+x] = code
}

func (g *generator) carveRect(r world.Room) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			g.set(x, y, world.TileFloor)
		}
	}
}

// carveCorridor digs an L-shaped floor path between two cells.
func (g *generator) carveCorridor(a, b world.Point) {
	if g.rng.Intn(2) == 0 {
		g.carveHorizontal(a.X, b.X, a.Y)
		g.carveVertical(a.Y, b.Y, b.X)
	} else {
		g.carveVertical(a.Y, b.Y, a.X)
		g.carveHorizontal(a.X, b.X, b.Y)
	}
}

func (g *generator) carveHorizontal(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		g.set(x, y, world.TileFloor)
	}
}

func (g *generator) carveVertical(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		g.set(x, y, world.TileFloor)
	}
}

// paintWalls assigns each wall cell the variant of its nearest room, so a
// room's walls share one texture.
func (g *generator) paintWalls(rooms []world.Room) {
	if g.params.WallVariants <= 1 {
		return
	}
	variants := make([]int, len(rooms))
	for i := range rooms {
		variants[i] = world.TileWall + g.rng.Intn(g.params.WallVariants)
	}

	size := g.params.Size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if g.cells[y*size+x] == world.TileFloor {
				continue
			}
			best, bestDist := 0, -1
			for i, r := range rooms {
				c := r.Center()
				d := mathutil.IntAbs(c.X-x) + mathutil.IntAbs(c.Y-y)
				if bestDist < 0 || d < bestDist {
					best, bestDist = i, d
				}
			}
			g.cells[y*size+x] = variants[best]
		}
	}
}
