package dungeon

import (
	"math/rand"

	"raydungeon/internal/world"
)

// bspNode is one rectangle of the partition tree. Only leaves own a room.
type bspNode struct {
	X, Y, Width, Height int
	Left, Right         *bspNode
	Room                *world.Room
}

func (n *bspNode) isLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// minHalf is the smallest side a partition may have. Three cells leave room
// for a one-cell room inside a one-cell margin.
func minHalf(minRoomSize int) int {
	if minRoomSize < 3 {
		return 3
	}
	return minRoomSize
}

// split divides a leaf in two along a randomly chosen axis. It returns false
// and leaves the node untouched when that axis cannot hold two halves.
func (g *generator) split(node *bspNode) bool {
	half := minHalf(g.params.MinRoomSize)
	horizontal := g.rng.Intn(2) == 0

	extent := node.Width
	if horizontal {
		extent = node.Height
	}
	if extent < 2*half {
		return false
	}

	// Offset in [half, extent-half] so both children keep at least half cells.
	offset := half + g.rng.Intn(extent-2*half+1)

	if horizontal {
		node.Left = &bspNode{X: node.X, Y: node.Y, Width: node.Width, Height: offset}
		node.Right = &bspNode{X: node.X, Y: node.Y + offset, Width: node.Width, Height: node.Height - offset}
	} else {
		node.Left = &bspNode{X: node.X, Y: node.Y, Width: offset, Height: node.Height}
		node.Right = &bspNode{X: node.X + offset, Y: node.Y, Width: node.Width - offset, Height: node.Height}
	}
	return true
}

// partition runs RecursionDepth rounds over the current leaf frontier.
func (g *generator) partition(root *bspNode) {
	frontier := []*bspNode{root}
	for round := 0; round < g.params.RecursionDepth; round++ {
		next := make([]*bspNode, 0, len(frontier)*2)
		for _, leaf := range frontier {
			if g.split(leaf) {
				next = append(next, leaf.Left, leaf.Right)
			} else {
				next = append(next, leaf)
			}
		}
		frontier = next
	}
}

// placeRooms gives every leaf exactly one room, visiting leaves left to
// right, and returns them in that order.
func (g *generator) placeRooms(node *bspNode, rooms []world.Room) []world.Room {
	if !node.isLeaf() {
		rooms = g.placeRooms(node.Left, rooms)
		return g.placeRooms(node.Right, rooms)
	}

	innerW := node.Width - 2
	innerH := node.Height - 2
	w := randRange(g.rng, g.params.MinRoomSize, g.params.MaxRoomSize)
	h := randRange(g.rng, g.params.MinRoomSize, g.params.MaxRoomSize)
	if w > innerW {
		w = innerW
	}
	if h > innerH {
		h = innerH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	room := world.Room{
		X:      node.X + 1 + g.rng.Intn(innerW-w+1),
		Y:      node.Y + 1 + g.rng.Intn(innerH-h+1),
		Width:  w,
		Height: h,
	}
	node.Room = &room
	g.carveRect(room)
	return append(rooms, room)
}

// connect walks the tree post-order and joins one room from each side of
// every internal node.
func (g *generator) connect(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}
	g.connect(node.Left)
	g.connect(node.Right)

	a := g.pickRoom(node.Left)
	b := g.pickRoom(node.Right)
	if a == nil || b == nil {
		return
	}
	g.carveCorridor(a.Center(), b.Center())
}

// pickRoom descends to a leaf, choosing a random child at each level.
func (g *generator) pickRoom(node *bspNode) *world.Room {
	for node != nil && !node.isLeaf() {
		switch {
		case node.Left == nil:
			node = node.Right
		case node.Right == nil:
			node = node.Left
		case g.rng.Intn(2) == 0:
			node = node.Left
		default:
			node = node.Right
		}
	}
	if node == nil {
		return nil
	}
	return node.Room
}

func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
