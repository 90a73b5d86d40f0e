package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"raydungeon/internal/config"
)

func TestGlyphsMarkStartAndPortal(t *testing.T) {
	v := newViewer(config.Default(), 5)
	if v.err != nil {
		t.Fatalf("generate: %v", v.err)
	}
	rows := v.glyphs()
	if len(rows) != v.result.Size {
		t.Fatalf("got %d rows, want %d", len(rows), v.result.Size)
	}
	start := v.result.PlayerStart
	if rows[start.Y][start.X] != '@' {
		t.Errorf("start marked %q", rows[start.Y][start.X])
	}
	exit := v.result.Exit
	if rows[exit.Y][exit.X] != '>' {
		t.Errorf("portal marked %q", rows[exit.Y][exit.X])
	}
	spawns := 0
	for _, row := range rows {
		for _, r := range row {
			if r == 'e' {
				spawns++
			}
		}
	}
	if spawns != len(v.spawns) {
		t.Errorf("drew %d spawns, want %d", spawns, len(v.spawns))
	}
}

func TestHandleKeyRegenerates(t *testing.T) {
	v := newViewer(config.Default(), 5)
	first := v.result.Grid.Cells()

	if v.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)) {
		t.Fatal("seed change should not quit")
	}
	if v.seed != 6 {
		t.Errorf("seed = %d, want 6", v.seed)
	}
	if v.result.Seed != 6 {
		t.Errorf("layout seed = %d, want 6", v.result.Seed)
	}

	v.handleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if v.level != 2 || v.result.Size != v.cfg.LevelSize(2) {
		t.Errorf("level %d size %d", v.level, v.result.Size)
	}
	v.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	v.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if v.level != 1 {
		t.Errorf("level should stop at 1, got %d", v.level)
	}

	v.handleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	same := v.result.Grid.Cells()
	for i := range first {
		if first[i] != same[i] {
			t.Fatal("same seed and level must give the same layout")
		}
	}

	v.handleKey(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	if v.showSpawns {
		t.Error("s should hide spawns")
	}
	if !v.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
}
