package enemy

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"raydungeon/internal/world"
)

// gridFromRows builds a grid from '#' walls, '.' floor and '>' portal.
func gridFromRows(t *testing.T, rows ...string) *world.TileGrid {
	t.Helper()
	size := len(rows)
	cells := make([]int, 0, size*size)
	for _, row := range rows {
		if len(row) != size {
			t.Fatalf("row %q has length %d, want %d", row, len(row), size)
		}
		for _, c := range row {
			switch c {
			case '#':
				cells = append(cells, world.TileWall)
			case '>':
				cells = append(cells, world.TilePortal)
			default:
				cells = append(cells, world.TileFloor)
			}
		}
	}
	g, err := world.NewTileGrid(size, cells)
	if err != nil {
		t.Fatalf("NewTileGrid: %v", err)
	}
	return g
}

func openGrid(t *testing.T, size int) *world.TileGrid {
	t.Helper()
	rows := make([]string, size)
	for y := 0; y < size; y++ {
		row := make([]byte, size)
		for x := 0; x < size; x++ {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				row[x] = '#'
			} else {
				row[x] = '.'
			}
		}
		rows[y] = string(row)
	}
	return gridFromRows(t, rows...)
}

func testStats() Stats {
	return Stats{
		Key:              "skeleton",
		Name:             "Skeleton",
		Health:           50,
		Damage:           10,
		Speed:            2,
		DetectionRange:   8,
		AttackRange:      1.2,
		AttackCooldownMs: 1000,
	}
}

func newTick(grid *world.TileGrid, px, py float64, now time.Duration) Tick {
	tuning := DefaultTuning()
	return Tick{
		PlayerX: px,
		PlayerY: py,
		Grid:    grid,
		DT:      0.1,
		Now:     now,
		Rng:     rand.New(rand.NewSource(1)),
		Tuning:  &tuning,
		Paths:   NewPathfinder(tuning.PathNodeBudget),
	}
}

func TestIdleDetectsPlayerInRange(t *testing.T) {
	grid := openGrid(t, 12)
	e := New(1, 1.5, 5.5, testStats())

	e.Update(newTick(grid, 6.5, 5.5, 0))

	if e.State() != StateChase {
		t.Fatalf("expected chase after detecting player at distance 5, got %v", e.State())
	}
}

func TestIdleIgnoresPlayerBehindWall(t *testing.T) {
	grid := gridFromRows(t,
		"##########",
		"#........#",
		"#...#....#",
		"#...#....#",
		"#...#....#",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"##########",
	)
	e := New(1, 2.5, 3.5, testStats())
	e.Update(newTick(grid, 6.5, 3.5, 0))
	if e.State() != StateIdle {
		t.Errorf("wall should block detection, got %v", e.State())
	}
}

func TestChaseTransitions(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		want   State
	}{
		{"lost target beyond hysteresis", 14.5, 1.5, StateIdle},
		{"stays chasing inside hysteresis", 10.5, 1.5, StateChase},
		{"enters attack range", 2.3, 1.5, StateAttack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := openGrid(t, 16)
			e := New(1, 1.5, 1.5, testStats())
			e.state = StateChase
			e.Update(newTick(grid, tt.px, tt.py, 0))
			if e.State() != tt.want {
				t.Errorf("state = %v, want %v", e.State(), tt.want)
			}
		})
	}
}

func TestChaseHoldsWhenSightLost(t *testing.T) {
	grid := gridFromRows(t,
		"##########",
		"#........#",
		"#...#....#",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"##########",
	)
	e := New(1, 2.5, 2.5, testStats())
	e.state = StateChase

	e.Update(newTick(grid, 6.5, 2.5, 0))

	if e.State() != StateChase {
		t.Errorf("expected to stay in chase, got %v", e.State())
	}
	if e.X != 2.5 || e.Y != 2.5 {
		t.Errorf("expected to hold position, moved to (%v, %v)", e.X, e.Y)
	}
}

func TestChaseMovesAlongPath(t *testing.T) {
	grid := openGrid(t, 12)
	e := New(1, 2.5, 2.5, testStats())
	e.state = StateChase

	e.Update(newTick(grid, 7.5, 2.5, 0))

	if e.X <= 2.5 {
		t.Errorf("expected to advance toward player, x = %v", e.X)
	}
	if math.Abs(e.Y-2.5) > 1e-9 {
		t.Errorf("expected to stay on the row, y = %v", e.Y)
	}
	if e.Facing != FacingEast {
		t.Errorf("expected to face east, got %v", e.Facing)
	}
}

func TestAttackCooldown(t *testing.T) {
	grid := openGrid(t, 8)
	e := New(1, 2.5, 2.5, testStats())
	e.state = StateAttack

	if dmg := e.Update(newTick(grid, 3.3, 2.5, 0)); dmg != 10 {
		t.Fatalf("first attack should land, got %d", dmg)
	}
	if dmg := e.Update(newTick(grid, 3.3, 2.5, 500*time.Millisecond)); dmg != 0 {
		t.Errorf("attack during cooldown should deal 0, got %d", dmg)
	}
	if dmg := e.Update(newTick(grid, 3.3, 2.5, time.Second)); dmg != 10 {
		t.Errorf("attack after cooldown should land, got %d", dmg)
	}
}

func TestAttackReturnsToChase(t *testing.T) {
	grid := openGrid(t, 8)
	e := New(1, 2.5, 2.5, testStats())
	e.state = StateAttack

	// 1.2 * 1.2 = 1.44; 1.3 stays in attack, 1.6 leaves.
	e.Update(newTick(grid, 3.8, 2.5, 0))
	if e.State() != StateAttack {
		t.Errorf("inside exit hysteresis should stay attacking, got %v", e.State())
	}
	e.Update(newTick(grid, 4.1, 2.5, 0))
	if e.State() != StateChase {
		t.Errorf("beyond exit hysteresis should chase, got %v", e.State())
	}
}

func TestDeathIsTerminal(t *testing.T) {
	for _, start := range []State{StateIdle, StateChase, StateAttack} {
		t.Run(start.String(), func(t *testing.T) {
			grid := openGrid(t, 8)
			e := New(1, 2.5, 2.5, testStats())
			e.state = start

			if !e.TakeDamage(e.MaxHealth()) {
				t.Fatal("lethal damage should report a kill")
			}
			if e.State() != StateDead || e.Health() != 0 {
				t.Fatalf("expected dead with 0 health, got %v/%d", e.State(), e.Health())
			}
			if e.TakeDamage(10) {
				t.Error("a dead enemy cannot be killed twice")
			}
			if dmg := e.Update(newTick(grid, 3.0, 2.5, time.Hour)); dmg != 0 {
				t.Errorf("dead enemy dealt %d damage", dmg)
			}
			if e.State() != StateDead || e.X != 2.5 || e.Y != 2.5 {
				t.Errorf("dead enemy changed: %v at (%v, %v)", e.State(), e.X, e.Y)
			}
		})
	}
}

func TestOverkillClampsHealth(t *testing.T) {
	e := New(1, 1.5, 1.5, testStats())
	e.TakeDamage(500)
	if e.Health() != 0 {
		t.Errorf("health = %d, want 0", e.Health())
	}
}

func TestAggroOnHit(t *testing.T) {
	e := New(1, 1.5, 1.5, testStats())
	if e.TakeDamage(5) {
		t.Fatal("non-lethal hit reported kill")
	}
	if e.State() != StateChase {
		t.Errorf("hit should wake idle enemy, got %v", e.State())
	}
}

func TestPatrolStaysOnFloor(t *testing.T) {
	grid := gridFromRows(t,
		"######",
		"#....#",
		"#.#..#",
		"#....#",
		"#....#",
		"######",
	)
	tuning := DefaultTuning()
	tick := Tick{
		PlayerX: 100, PlayerY: 100,
		Grid:   grid,
		DT:     0.25,
		Rng:    rand.New(rand.NewSource(9)),
		Tuning: &tuning,
		Paths:  NewPathfinder(tuning.PathNodeBudget),
	}
	e := New(1, 1.5, 1.5, testStats())
	moved := false
	for i := 0; i < 400; i++ {
		tick.Now = time.Duration(i) * 250 * time.Millisecond
		e.Update(tick)
		if !grid.IsFloor(int(math.Floor(e.X)), int(math.Floor(e.Y))) {
			t.Fatalf("patrol left the floor at (%v, %v)", e.X, e.Y)
		}
		if e.X != 1.5 || e.Y != 1.5 {
			moved = true
		}
	}
	if !moved {
		t.Error("patrolling enemy never moved")
	}
	if e.State() != StateIdle {
		t.Errorf("far player should keep enemy idle, got %v", e.State())
	}
}

func TestFacingTowardDominantAxis(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   Facing
	}{
		{1, 0.2, FacingEast},
		{-2, 1, FacingWest},
		{0.1, 3, FacingSouth},
		{0.5, -3, FacingNorth},
	}
	for _, tt := range tests {
		if got := facingToward(tt.dx, tt.dy); got != tt.want {
			t.Errorf("facingToward(%v, %v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestFromSnapshotKeepsDeadInvariant(t *testing.T) {
	s := New(3, 1.5, 1.5, testStats()).Snapshot()
	s.Health = 0
	s.State = StateChase
	if e := FromSnapshot(s); e.State() != StateDead {
		t.Errorf("zero health must restore as dead, got %v", e.State())
	}

	s.Health = 20
	s.State = StateDead
	if e := FromSnapshot(s); e.State() != StateIdle || e.Health() != 20 {
		t.Errorf("living enemy restored as %v/%d", e.State(), e.Health())
	}
}
