package game

import (
	"time"

	"raydungeon/internal/storage"
)

// Phase is the session state machine:
// Intro -> Playing <-> ShopOpen -> LevelComplete | GameOver.
type Phase int

const (
	PhaseIntro Phase = iota
	PhasePlaying
	PhaseShopOpen
	PhaseLevelComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhaseShopOpen:
		return "shop"
	case PhaseLevelComplete:
		return "level_complete"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// Paused reports whether the simulation clock is stopped in this phase.
func (p Phase) Paused() bool {
	return p != PhasePlaying
}

// Terminal reports whether the level has ended.
func (p Phase) Terminal() bool {
	return p == PhaseLevelComplete || p == PhaseGameOver
}

// Input is one tick of player intent. Move and Strafe are in [-1, 1]
// (forward and right positive); Turn is in [-1, 1] and scaled by the
// rotation speed; MouseTurn is an absolute angle in radians.
type Input struct {
	Move      float64
	Strafe    float64
	Turn      float64
	MouseTurn float64
	Fire      bool
}

// Snapshot is the throttled player state sent to the UI host.
type Snapshot struct {
	X, Y         float64
	Health       int
	EnemiesAlive int
	Kills        int
	Gold         int
	Level        int
	Weapon       string
}

// LevelStats is reported once when a level ends.
type LevelStats struct {
	Level           int
	Completed       bool
	Kills           int
	Gold            int
	TimeElapsed     time.Duration
	HealthRemaining int
	DungeonSeed     int64
}

// Record converts the stats into a persistence record.
func (ls LevelStats) Record() storage.LevelRecord {
	return storage.LevelRecord{
		Level:           ls.Level,
		Completed:       ls.Completed,
		Kills:           ls.Kills,
		Gold:            ls.Gold,
		TimeElapsed:     ls.TimeElapsed.Seconds(),
		HealthRemaining: ls.HealthRemaining,
		DungeonSeed:     ls.DungeonSeed,
	}
}

// Hooks are the callbacks into the UI host. Any of them may be nil.
type Hooks struct {
	OnPlayerState   func(Snapshot)
	OnLevelComplete func(LevelStats)
	OnGameOver      func(LevelStats)
}
