package enemy

import (
	"testing"

	"raydungeon/internal/mathutil"
	"raydungeon/internal/world"
)

func assertAdjacentPath(t *testing.T, start world.Point, path []world.Point) {
	t.Helper()
	prev := start
	for i, p := range path {
		if mathutil.IntAbs(p.X-prev.X)+mathutil.IntAbs(p.Y-prev.Y) != 1 {
			t.Fatalf("step %d: %v is not 4-adjacent to %v", i, p, prev)
		}
		prev = p
	}
}

func TestFindPathOpenRoom(t *testing.T) {
	grid := openGrid(t, 10)
	start := world.Point{X: 1, Y: 1}
	goal := world.Point{X: 8, Y: 6}

	path := FindPath(grid, start, goal)
	if len(path) == 0 {
		t.Fatal("expected a path")
	}
	if path[len(path)-1] != goal {
		t.Errorf("path should end at goal, ends at %v", path[len(path)-1])
	}
	if len(path) != 12 {
		t.Errorf("expected shortest path of 12 steps, got %d", len(path))
	}
	assertAdjacentPath(t, start, path)
}

func TestFindPathAroundWall(t *testing.T) {
	grid := gridFromRows(t,
		"########",
		"#......#",
		"#.####.#",
		"#.#..#.#",
		"#.#..#.#",
		"#.##.#.#",
		"#......#",
		"########",
	)
	start := world.Point{X: 3, Y: 3}
	goal := world.Point{X: 1, Y: 1}
	path := FindPath(grid, start, goal)
	if len(path) == 0 {
		t.Fatal("expected a path out of the pocket")
	}
	assertAdjacentPath(t, start, path)
	for _, p := range path {
		if !grid.IsFloor(p.X, p.Y) {
			t.Fatalf("path crosses non-floor cell %v", p)
		}
	}
}

func TestFindPathDisconnected(t *testing.T) {
	grid := gridFromRows(t,
		"#######",
		"#..#..#",
		"#..#..#",
		"#..#..#",
		"#######",
		"#######",
		"#######",
	)
	path := FindPath(grid, world.Point{X: 1, Y: 1}, world.Point{X: 5, Y: 3})
	if len(path) != 0 {
		t.Errorf("expected no path between sealed rooms, got %v", path)
	}
}

func TestFindPathBudgetExceeded(t *testing.T) {
	grid := openGrid(t, 40)
	pf := NewPathfinder(20)
	if path := pf.FindPath(grid, world.Point{X: 1, Y: 1}, world.Point{X: 38, Y: 38}); path != nil {
		t.Errorf("expected nil once the budget is spent, got %d steps", len(path))
	}
}

func TestFindPathEdgeCases(t *testing.T) {
	grid := gridFromRows(t,
		"#####",
		"#...#",
		"#.#>#",
		"#...#",
		"#####",
	)
	if path := FindPath(grid, world.Point{X: 1, Y: 1}, world.Point{X: 1, Y: 1}); len(path) != 1 {
		t.Errorf("start == goal should yield one cell, got %v", path)
	}
	if path := FindPath(grid, world.Point{X: 1, Y: 1}, world.Point{X: 2, Y: 2}); path != nil {
		t.Errorf("wall goal should yield nil, got %v", path)
	}
	if path := FindPath(grid, world.Point{X: 1, Y: 1}, world.Point{X: 3, Y: 2}); path != nil {
		t.Errorf("enemies do not path onto the portal, got %v", path)
	}
	if path := FindPath(grid, world.Point{X: 1, Y: 1}, world.Point{X: 9, Y: 9}); path != nil {
		t.Errorf("out-of-bounds goal should yield nil, got %v", path)
	}
}

func TestNodeHeapOrdering(t *testing.T) {
	var h nodeHeap
	for _, n := range []gridNode{
		{idx: 1, f: 5, h: 3},
		{idx: 2, f: 3, h: 2},
		{idx: 3, f: 5, h: 1},
		{idx: 4, f: 1, h: 1},
		{idx: 5, f: 3, h: 0},
	} {
		h.push(n)
	}
	want := []int{4, 5, 2, 3, 1}
	for i, idx := range want {
		n, ok := h.pop()
		if !ok {
			t.Fatalf("heap empty at %d", i)
		}
		if n.idx != idx {
			t.Errorf("pop %d = node %d, want %d", i, n.idx, idx)
		}
	}
	if _, ok := h.pop(); ok {
		t.Error("heap should be empty")
	}
}

func TestPathfinderReuse(t *testing.T) {
	small := openGrid(t, 6)
	large := openGrid(t, 12)
	pf := NewPathfinder(200)
	if p := pf.FindPath(large, world.Point{X: 1, Y: 1}, world.Point{X: 10, Y: 10}); len(p) != 18 {
		t.Fatalf("large grid path length = %d, want 18", len(p))
	}
	if p := pf.FindPath(small, world.Point{X: 1, Y: 1}, world.Point{X: 4, Y: 4}); len(p) != 6 {
		t.Errorf("small grid path length = %d, want 6", len(p))
	}
	if pf.Searches() != 2 {
		t.Errorf("searches = %d, want 2", pf.Searches())
	}
}
