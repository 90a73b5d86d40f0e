package dungeon

import (
	"errors"
	"math/rand"
	"testing"

	"raydungeon/internal/world"
)

func defaultParams(seed int64) Params {
	return Params{
		Size:           24,
		MinRoomSize:    4,
		MaxRoomSize:    8,
		RecursionDepth: 4,
		Seed:           seed,
		WallVariants:   3,
	}
}

func TestGenerateScenario(t *testing.T) {
	res, err := Generate(defaultParams(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Rooms) == 0 {
		t.Fatal("expected at least one room")
	}
	if res.Seed != 42 {
		t.Errorf("seed = %d, want 42", res.Seed)
	}
	if !res.Grid.IsFloor(res.PlayerStart.X, res.PlayerStart.Y) {
		t.Errorf("player start %v is not floor (code %d)", res.PlayerStart, res.Grid.At(res.PlayerStart.X, res.PlayerStart.Y))
	}
	reach := ReachableFrom(res.Grid, res.PlayerStart)
	if !reach[res.Exit] {
		t.Errorf("exit %v not reachable from start %v", res.Exit, res.PlayerStart)
	}
}

func TestEveryFloorReachable(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		res, err := Generate(defaultParams(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		reach := ReachableFrom(res.Grid, res.PlayerStart)
		size := res.Grid.Size()
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if res.Grid.IsWalkable(x, y) && !reach[world.Point{X: x, Y: y}] {
					t.Fatalf("seed %d: walkable cell (%d,%d) unreachable", seed, x, y)
				}
			}
		}
	}
}

func TestSinglePortalInsideExitRoom(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		res, err := Generate(defaultParams(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if n := res.Grid.Count(world.TilePortal); n != 1 {
			t.Fatalf("seed %d: expected one portal, got %d", seed, n)
		}
		p, _ := res.Grid.Find(world.TilePortal)
		if p != res.Exit {
			t.Errorf("seed %d: portal at %v, exit reported %v", seed, p, res.Exit)
		}
		if !res.ExitRoom().Contains(p.X, p.Y) {
			t.Errorf("seed %d: portal %v outside exit room %+v", seed, p, res.ExitRoom())
		}
	}
}

func TestBorderStaysWall(t *testing.T) {
	res, err := Generate(defaultParams(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	size := res.Grid.Size()
	for i := 0; i < size; i++ {
		for _, p := range []world.Point{{X: i, Y: 0}, {X: i, Y: size - 1}, {X: 0, Y: i}, {X: size - 1, Y: i}} {
			if !world.IsWallCode(res.Grid.At(p.X, p.Y)) {
				t.Fatalf("border cell %v is not wall", p)
			}
		}
	}
}

func TestWallVariantsInRange(t *testing.T) {
	res, err := Generate(defaultParams(11))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, code := range res.Grid.Cells() {
		if code == world.TileFloor || code == world.TilePortal {
			continue
		}
		if code < 1 || code > 3 {
			t.Fatalf("wall code %d outside 1..3", code)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(defaultParams(99))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(defaultParams(99))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	ac, bc := a.Grid.Cells(), b.Grid.Cells()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("grids differ at %d", i)
		}
	}
	if len(a.Rooms) != len(b.Rooms) {
		t.Errorf("room counts differ: %d vs %d", len(a.Rooms), len(b.Rooms))
	}
}

func TestGenerateDegenerate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"no rounds", Params{Size: 10, MinRoomSize: 4, MaxRoomSize: 6, RecursionDepth: 0, Seed: 3}},
		{"too small to split", Params{Size: 6, MinRoomSize: 4, MaxRoomSize: 4, RecursionDepth: 6, Seed: 3}},
		{"deep recursion", Params{Size: 32, MinRoomSize: 3, MaxRoomSize: 5, RecursionDepth: 12, Seed: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(tt.p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(res.Rooms) == 0 {
				t.Fatal("expected at least one room")
			}
			if max := 1 << tt.p.RecursionDepth; tt.p.RecursionDepth < 20 && len(res.Rooms) > max {
				t.Errorf("%d rooms exceeds 2^depth = %d", len(res.Rooms), max)
			}
			if res.Grid.Count(world.TilePortal) != 1 {
				t.Error("expected exactly one portal")
			}
		})
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"min above max", Params{Size: 24, MinRoomSize: 8, MaxRoomSize: 4, RecursionDepth: 2}},
		{"zero min", Params{Size: 24, MinRoomSize: 0, MaxRoomSize: 4, RecursionDepth: 2}},
		{"size too small", Params{Size: 5, MinRoomSize: 4, MaxRoomSize: 4, RecursionDepth: 2}},
		{"negative depth", Params{Size: 24, MinRoomSize: 4, MaxRoomSize: 8, RecursionDepth: -1}},
		{"variants collide with portal", Params{Size: 24, MinRoomSize: 4, MaxRoomSize: 8, WallVariants: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.p)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestEnemySpawnPointsSkipStartAndExitRooms(t *testing.T) {
	res, err := Generate(defaultParams(5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Rooms) < 3 {
		t.Skipf("seed produced only %d rooms", len(res.Rooms))
	}
	rng := rand.New(rand.NewSource(1))
	points := res.EnemySpawnPoints(8, rng)
	if len(points) == 0 {
		t.Fatal("expected spawn points")
	}
	first, last := res.Rooms[0], res.ExitRoom()
	seen := map[world.Point]bool{}
	for _, p := range points {
		if !res.Grid.IsFloor(p.X, p.Y) {
			t.Errorf("spawn %v is not floor", p)
		}
		inMiddle := false
		for _, r := range res.Rooms[1 : len(res.Rooms)-1] {
			if r.Contains(p.X, p.Y) {
				inMiddle = true
			}
		}
		if !inMiddle {
			t.Errorf("spawn %v not inside a middle room (first %+v, last %+v)", p, first, last)
		}
		if seen[p] {
			t.Errorf("duplicate spawn %v", p)
		}
		seen[p] = true
	}
}

func TestEnemySpawnPointsFallback(t *testing.T) {
	res, err := Generate(Params{Size: 10, MinRoomSize: 4, MaxRoomSize: 6, RecursionDepth: 0, Seed: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	points := res.EnemySpawnPoints(3, rand.New(rand.NewSource(2)))
	for _, p := range points {
		if p == res.PlayerStart || p == res.Exit {
			t.Errorf("spawn %v collides with start or exit", p)
		}
	}
}

func TestLoneRoomExit(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		onStart bool
	}{
		{"large room uses far corner", Params{Size: 12, MinRoomSize: 4, MaxRoomSize: 8}, false},
		{"1x1 room grows for the portal", Params{Size: 5, MinRoomSize: 1, MaxRoomSize: 1}, false},
		{"single interior cell", Params{Size: 3, MinRoomSize: 1, MaxRoomSize: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				p := tt.params
				p.Seed = seed
				res, err := Generate(p)
				if err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				if len(res.Rooms) != 1 {
					t.Fatalf("seed %d: %d rooms, want 1", seed, len(res.Rooms))
				}
				if got := res.Exit == res.PlayerStart; got != tt.onStart {
					t.Errorf("seed %d: exit %v on start = %v, want %v", seed, res.Exit, got, tt.onStart)
				}
				if res.Grid.At(res.Exit.X, res.Exit.Y) != world.TilePortal {
					t.Errorf("seed %d: exit %v is not a portal", seed, res.Exit)
				}
				if !res.ExitRoom().Contains(res.Exit.X, res.Exit.Y) || !res.ExitRoom().Contains(res.PlayerStart.X, res.PlayerStart.Y) {
					t.Errorf("seed %d: room %+v must hold start %v and exit %v", seed, res.ExitRoom(), res.PlayerStart, res.Exit)
				}
				if !tt.onStart && !ReachableFrom(res.Grid, res.PlayerStart)[res.Exit] {
					t.Errorf("seed %d: exit unreachable", seed)
				}
			}
		})
	}
}
