package enemy

import (
	"math"

	"raydungeon/internal/mathutil"
	"raydungeon/internal/world"
)

// PassableChecker reports cells an enemy may path through.
type PassableChecker interface {
	IsFloor(tileX, tileY int) bool
	Size() int
}

type gridNode struct {
	idx int
	f   float64
	g   float64
	h   float64
}

// less orders by f, then by the smaller heuristic so the search prefers
// nodes closer to the goal.
func (n gridNode) less(o gridNode) bool {
	if n.f != o.f {
		return n.f < o.f
	}
	return n.h < o.h
}

type nodeHeap struct {
	nodes []gridNode
}

func (h *nodeHeap) reset() {
	h.nodes = h.nodes[:0]
}

func (h *nodeHeap) push(n gridNode) {
	h.nodes = append(h.nodes, n)
	i := len(h.nodes) - 1
	for i > 0 {
		p := (i - 1) / 2
		if !n.less(h.nodes[p]) {
			break
		}
		h.nodes[i] = h.nodes[p]
		i = p
	}
	h.nodes[i] = n
}

func (h *nodeHeap) pop() (gridNode, bool) {
	if len(h.nodes) == 0 {
		return gridNode{}, false
	}
	min := h.nodes[0]
	last := h.nodes[len(h.nodes)-1]
	h.nodes = h.nodes[:len(h.nodes)-1]
	if len(h.nodes) == 0 {
		return min, true
	}
	i := 0
	for {
		left := 2*i + 1
		right := left + 1
		if left >= len(h.nodes) {
			break
		}
		smallest := left
		if right < len(h.nodes) && h.nodes[right].less(h.nodes[left]) {
			smallest = right
		}
		if !h.nodes[smallest].less(last) {
			break
		}
		h.nodes[i] = h.nodes[smallest]
		i = smallest
	}
	h.nodes[i] = last
	return min, true
}

// Pathfinder runs grid A* and reuses its buffers between searches. It is not
// safe for concurrent use.
type Pathfinder struct {
	gScore   []float64
	cameFrom []int
	closed   []bool
	size     int
	heap     nodeHeap
	budget   int
	searches uint64
}

// NewPathfinder returns a pathfinder that gives up after budget expansions.
func NewPathfinder(budget int) *Pathfinder {
	if budget <= 0 {
		budget = 200
	}
	return &Pathfinder{budget: budget}
}

// Searches counts FindPath calls since the pathfinder was created.
func (pf *Pathfinder) Searches() uint64 { return pf.searches }

func (pf *Pathfinder) prepare(size int) {
	n := size * size
	if cap(pf.gScore) < n {
		pf.gScore = make([]float64, n)
		pf.cameFrom = make([]int, n)
		pf.closed = make([]bool, n)
	} else {
		pf.gScore = pf.gScore[:n]
		pf.cameFrom = pf.cameFrom[:n]
		pf.closed = pf.closed[:n]
	}
	for i := 0; i < n; i++ {
		pf.gScore[i] = math.Inf(1)
		pf.cameFrom[i] = -1
		pf.closed[i] = false
	}
	pf.size = size
	pf.heap.reset()
}

// FindPath returns the 4-connected floor cells leading from start to goal.
// The start cell is omitted and the goal is the last element. A start equal
// to goal yields just that cell. No route within the budget yields nil.
func (pf *Pathfinder) FindPath(grid PassableChecker, start, goal world.Point) []world.Point {
	pf.searches++
	size := grid.Size()
	inside := func(p world.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < size && p.Y < size
	}
	if !inside(start) || !inside(goal) || !grid.IsFloor(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []world.Point{goal}
	}

	pf.prepare(size)
	heuristic := func(x, y int) float64 {
		return float64(mathutil.IntAbs(goal.X-x) + mathutil.IntAbs(goal.Y-y))
	}

	startIdx := start.Y*size + start.X
	goalIdx := goal.Y*size + goal.X
	pf.gScore[startIdx] = 0
	h0 := heuristic(start.X, start.Y)
	pf.heap.push(gridNode{idx: startIdx, g: 0, h: h0, f: h0})

	expanded := 0
	for len(pf.heap.nodes) > 0 && expanded < pf.budget {
		current, _ := pf.heap.pop()
		if pf.closed[current.idx] || current.g > pf.gScore[current.idx] {
			continue
		}
		if current.idx == goalIdx {
			return pf.reconstruct(current.idx, startIdx)
		}
		pf.closed[current.idx] = true
		expanded++

		cx, cy := current.idx%size, current.idx/size
		for _, dir := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+dir[0], cy+dir[1]
			if nx < 0 || ny < 0 || nx >= size || ny >= size {
				continue
			}
			nidx := ny*size + nx
			if pf.closed[nidx] || !grid.IsFloor(nx, ny) {
				continue
			}
			tentativeG := current.g + 1
			if tentativeG < pf.gScore[nidx] {
				pf.cameFrom[nidx] = current.idx
				pf.gScore[nidx] = tentativeG
				h := heuristic(nx, ny)
				pf.heap.push(gridNode{idx: nidx, g: tentativeG, h: h, f: tentativeG + h})
			}
		}
	}
	return nil
}

func (pf *Pathfinder) reconstruct(endIdx, startIdx int) []world.Point {
	path := make([]world.Point, 0, 16)
	for current := endIdx; current >= 0 && current != startIdx; current = pf.cameFrom[current] {
		path = append(path, world.Point{X: current % pf.size, Y: current / pf.size})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath is a one-off search with the default budget.
func FindPath(grid PassableChecker, start, goal world.Point) []world.Point {
	return NewPathfinder(0).FindPath(grid, start, goal)
}
