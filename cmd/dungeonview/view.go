package main

import (
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"

	"raydungeon/internal/config"
	"raydungeon/internal/dungeon"
	"raydungeon/internal/world"
)

const sidebarWidth = 28

// viewer holds one generated layout and the parameters that produced it.
type viewer struct {
	cfg        *config.Config
	tiles      *world.TileManager
	seed       int64
	level      int
	showSpawns bool

	result *dungeon.Result
	spawns []world.Point
	err    error
}

func newViewer(cfg *config.Config, seed int64) *viewer {
	v := &viewer{cfg: cfg, tiles: world.NewTileManager(cfg.Tiles), seed: seed, level: 1, showSpawns: true}
	v.regenerate()
	return v
}

func (v *viewer) params() dungeon.Params {
	return dungeon.Params{
		Size:           v.cfg.LevelSize(v.level),
		MinRoomSize:    v.cfg.Dungeon.MinRoomSize,
		MaxRoomSize:    v.cfg.Dungeon.MaxRoomSize,
		RecursionDepth: v.cfg.Dungeon.RecursionDepth,
		Seed:           v.seed + int64(v.level-1),
		WallVariants:   v.cfg.Dungeon.WallVariants,
	}
}

func (v *viewer) regenerate() {
	v.result, v.err = dungeon.Generate(v.params())
	v.spawns = nil
	if v.err != nil {
		return
	}
	rng := rand.New(rand.NewSource(v.result.Seed))
	v.spawns = v.result.EnemySpawnPoints(v.cfg.SpawnCount(v.level), rng)
}

// handleKey applies one key press and reports whether the viewer should exit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRight:
		v.seed++
	case tcell.KeyLeft:
		v.seed--
	case tcell.KeyUp:
		v.level++
	case tcell.KeyDown:
		if v.level > 1 {
			v.level--
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'r':
			v.seed = rand.Int63()
		case 's':
			v.showSpawns = !v.showSpawns
			return false
		default:
			return false
		}
	default:
		return false
	}
	v.regenerate()
	return false
}

// glyphs lays the level out as text rows with markers for the player start,
// the shopkeeper and enemy spawns.
func (v *viewer) glyphs() [][]rune {
	if v.result == nil {
		return nil
	}
	g := v.result.Grid
	rows := make([][]rune, g.Size())
	for y := range rows {
		rows[y] = make([]rune, g.Size())
		for x := range rows[y] {
			rows[y][x] = v.tiles.Letter(g.At(x, y))
		}
	}
	if v.showSpawns {
		for _, p := range v.spawns {
			rows[p.Y][p.X] = 'e'
		}
	}
	rows[v.result.NPCSpawn.Y][v.result.NPCSpawn.X] = 'N'
	rows[v.result.PlayerStart.Y][v.result.PlayerStart.X] = '@'
	return rows
}

func (v *viewer) style(r rune, code int) tcell.Style {
	base := tcell.StyleDefault
	switch r {
	case '@':
		return base.Foreground(tcell.ColorYellow).Bold(true)
	case 'N':
		return base.Foreground(tcell.ColorGreen).Bold(true)
	case 'e':
		return base.Foreground(tcell.ColorRed)
	case '>':
		return base.Foreground(tcell.ColorPurple).Bold(true)
	case '.':
		return base.Foreground(tcell.ColorGray)
	}
	c := v.tiles.GetWallColor(code)
	return base.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func (v *viewer) info() []string {
	lines := []string{
		"Dungeon preview",
		"",
		fmt.Sprintf("seed   %d", v.seed),
		fmt.Sprintf("level  %d", v.level),
	}
	if v.err != nil {
		return append(lines, "", "error:", v.err.Error())
	}
	r := v.result
	lines = append(lines,
		fmt.Sprintf("size   %d", r.Size),
		fmt.Sprintf("rooms  %d", len(r.Rooms)),
		fmt.Sprintf("floor  %d", r.Grid.Count(world.TileFloor)),
		fmt.Sprintf("spawns %d", len(v.spawns)),
		"",
		"@ start  > portal",
		"N shop   e enemy",
		"",
		"<- ->  seed",
		"up dn  level",
		"r      random seed",
		"s      spawns",
		"q      quit",
	)
	return lines
}

func (v *viewer) draw(screen tcell.Screen) {
	screen.Clear()
	rows := v.glyphs()
	for y, row := range rows {
		for x, r := range row {
			code := v.result.Grid.At(x, y)
			// Two columns per cell keeps the map roughly square.
			screen.SetContent(2*x, y, r, nil, v.style(r, code))
			screen.SetContent(2*x+1, y, ' ', nil, tcell.StyleDefault)
		}
	}
	left := 2*len(rows) + 2
	for i, line := range v.info() {
		for j, r := range []rune(line) {
			if j >= sidebarWidth {
				break
			}
			screen.SetContent(left+j, i, r, nil, tcell.StyleDefault)
		}
	}
	screen.Show()
}
