package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"raydungeon/internal/combat"
	"raydungeon/internal/config"
	"raydungeon/internal/dungeon"
	"raydungeon/internal/enemy"
	"raydungeon/internal/world"
)

// ErrInvalidSave is returned when a saved state cannot describe a session.
var ErrInvalidSave = errors.New("invalid saved session")

// SavedState is the serialisable form of a session. The grid is stored
// whole so a save does not depend on the generator staying stable.
type SavedState struct {
	SessionID   uuid.UUID        `json:"sessionId"`
	Level       int              `json:"level"`
	BaseSeed    int64            `json:"baseSeed"`
	DungeonSeed int64            `json:"dungeonSeed"`
	Phase       Phase            `json:"phase"`
	GridSize    int              `json:"gridSize"`
	Cells       []int            `json:"cells"`
	Rooms       []world.Room     `json:"rooms"`
	PlayerStart world.Point      `json:"playerStart"`
	Exit        world.Point      `json:"exit"`
	NPCSpawn    world.Point      `json:"npcSpawn"`
	Player      Player           `json:"player"`
	NPC         NPC              `json:"npc"`
	Enemies     []enemy.Snapshot `json:"enemies"`
	Combat      combat.State     `json:"combat"`
	ClockMs     int64            `json:"clockMs"`
	LevelMs     int64            `json:"levelStartMs"`
	KillsAtLvl  int              `json:"killsAtLevelStart"`
	GoldAtLvl   int              `json:"goldAtLevelStart"`
}

// SaveState captures the session.
func (s *Session) SaveState() SavedState {
	res := s.dungeon
	all := s.enemies.All()
	snaps := make([]enemy.Snapshot, 0, len(all))
	for _, e := range all {
		if e.IsAlive() {
			snaps = append(snaps, e.Snapshot())
		}
	}
	rooms := make([]world.Room, len(res.Rooms))
	copy(rooms, res.Rooms)
	return SavedState{
		SessionID:   s.id,
		Level:       s.level,
		BaseSeed:    s.baseSeed,
		DungeonSeed: res.Seed,
		Phase:       s.phase,
		GridSize:    res.Size,
		Cells:       res.Grid.Cells(),
		Rooms:       rooms,
		PlayerStart: res.PlayerStart,
		Exit:        res.Exit,
		NPCSpawn:    res.NPCSpawn,
		Player:      s.player,
		NPC:         s.npc,
		Enemies:     snaps,
		Combat:      s.combat.State(),
		ClockMs:     s.clock.Milliseconds(),
		LevelMs:     s.levelStart.Milliseconds(),
		KillsAtLvl:  s.killsAtStart,
		GoldAtLvl:   s.goldAtStart,
	}
}

// RestoreSession rebuilds a session from a save. A save taken in the intro
// or shop resumes in play; an ended level stays ended without firing its
// hook again.
func RestoreSession(cfg *config.Config, st SavedState, opts Options) (*Session, error) {
	if st.Level < 1 {
		return nil, fmt.Errorf("%w: level %d", ErrInvalidSave, st.Level)
	}
	grid, err := world.NewTileGrid(st.GridSize, st.Cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if st.Player.MaxHealth <= 0 || st.Player.Health < 0 || st.Player.Health > st.Player.MaxHealth {
		return nil, fmt.Errorf("%w: player health %d/%d", ErrInvalidSave, st.Player.Health, st.Player.MaxHealth)
	}

	opts.Seed = st.BaseSeed
	s, err := newSession(cfg, opts)
	if err != nil {
		return nil, err
	}
	if st.SessionID != uuid.Nil {
		s.id = st.SessionID
	}
	if err := s.combat.Restore(st.Combat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}

	s.level = st.Level
	s.dungeon = &dungeon.Result{
		Grid:        grid,
		Size:        st.GridSize,
		Seed:        st.DungeonSeed,
		Rooms:       st.Rooms,
		PlayerStart: st.PlayerStart,
		Exit:        st.Exit,
		NPCSpawn:    st.NPCSpawn,
	}
	s.rng = rand.New(rand.NewSource(st.DungeonSeed ^ st.ClockMs))
	s.enemies = enemy.NewManager(s.rng, s.tuning, s.log)
	for _, snap := range st.Enemies {
		s.enemies.Add(enemy.FromSnapshot(snap))
	}

	s.player = st.Player
	s.npc = st.NPC
	s.clock = time.Duration(st.ClockMs) * time.Millisecond
	s.levelStart = time.Duration(st.LevelMs) * time.Millisecond
	s.killsAtStart = st.KillsAtLvl
	s.goldAtStart = st.GoldAtLvl

	switch st.Phase {
	case PhaseLevelComplete, PhaseGameOver:
		s.phase = st.Phase
		s.terminalFired = true
	default:
		s.phase = PhasePlaying
	}

	s.log.WithFields(logrus.Fields{
		"session": s.id,
		"level":   s.level,
		"enemies": s.enemies.AliveCount(),
		"phase":   s.phase,
	}).Info("Session restored")
	return s, nil
}
