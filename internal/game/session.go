package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"raydungeon/internal/collision"
	"raydungeon/internal/combat"
	"raydungeon/internal/config"
	"raydungeon/internal/content"
	"raydungeon/internal/dungeon"
	"raydungeon/internal/enemy"
	"raydungeon/internal/logger"
	"raydungeon/internal/mathutil"
	"raydungeon/internal/threading/monitoring"
	"raydungeon/internal/world"
)

var (
	// ErrWrongPhase is returned by actions that are not valid in the
	// current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	// ErrNotNearShop is returned when the shop is opened out of reach.
	ErrNotNearShop = errors.New("not near the shopkeeper")
	// ErrInsufficientGold is returned when a purchase costs more than the
	// player carries.
	ErrInsufficientGold = errors.New("not enough gold")
)

// Options carries the optional collaborators of a session.
type Options struct {
	Types   *enemy.TypeTable // nil uses the pack's enemies, then the built-in table
	Pack    *content.Pack    // nil uses content.Default
	Hooks   Hooks
	Log     logrus.FieldLogger
	Monitor *monitoring.PerformanceMonitor
	Seed    int64 // non-zero overrides the pack and config seeds
}

// NPC is the level's shopkeeper.
type NPC struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Greeting string  `json:"greeting"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Session drives one play-through: the current level, its enemies, the
// player and the phase machine. It is not safe for concurrent use; the host
// calls Tick and Render from its update loop.
type Session struct {
	id      uuid.UUID
	cfg     *config.Config
	log     logrus.FieldLogger
	hooks   Hooks
	monitor *monitoring.PerformanceMonitor

	types  *enemy.TypeTable
	pack   *content.Pack
	tuning enemy.Tuning

	level    int
	baseSeed int64
	dungeon  *dungeon.Result
	enemies  *enemy.Manager
	combat   *combat.Manager
	rng      *rand.Rand

	player  Player
	npc     NPC
	effects Effects
	phase   Phase
	aim     combat.Hit
	lastHit int // enemy id of the last damaging shot

	clock        time.Duration
	levelStart   time.Duration
	killsAtStart int
	goldAtStart  int

	lastSnapshot  time.Duration
	snapshotSent  bool
	terminalFired bool
}

// NewSession generates level 1 and leaves the session in the intro phase.
func NewSession(cfg *config.Config, opts Options) (*Session, error) {
	s, err := newSession(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.player.Health = s.player.MaxHealth
	if err := s.startLevel(1); err != nil {
		return nil, err
	}
	s.phase = PhaseIntro
	return s, nil
}

func newSession(cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	pack := opts.Pack
	if pack == nil {
		pack = content.Default()
	}
	types := opts.Types
	if types == nil {
		if t, ok := pack.EnemyTypes(); ok {
			types = t
		} else {
			types = enemy.DefaultTypeTable()
		}
	}

	weapons := combat.WeaponsFromConfig(cfg.Combat)
	if base, ok := weapons[cfg.Combat.DefaultWeapon]; ok {
		for _, w := range pack.Weapons(base) {
			if _, exists := weapons[w.Key]; !exists {
				weapons[w.Key] = w
			}
		}
	}
	resolver := combat.Resolver{ConeDot: cfg.Combat.AimConeDot, Tolerance: cfg.Combat.AimTolerance}
	cm, err := combat.NewManager(weapons, cfg.Combat.DefaultWeapon, resolver, opts.Log)
	if err != nil {
		return nil, fmt.Errorf("create combat manager: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = pack.Dungeon.Seed
	}
	if seed == 0 {
		seed = cfg.Dungeon.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Session{
		id:       uuid.New(),
		cfg:      cfg,
		log:      logger.Component(opts.Log, "session"),
		hooks:    opts.Hooks,
		monitor:  opts.Monitor,
		types:    types,
		pack:     pack,
		tuning:   enemy.TuningFromConfig(cfg.EnemyAI),
		baseSeed: seed,
		combat:   cm,
		player:   Player{MaxHealth: cfg.Session.PlayerMaxHealth},
	}, nil
}

// levelSize is the configured size, with the pack's size replacing the base
// size when it is set.
func (s *Session) levelSize(level int) int {
	size := s.cfg.LevelSize(level)
	if s.pack.Dungeon.Size > 0 {
		size += s.pack.Dungeon.Size - s.cfg.Dungeon.Size
		if limit := s.cfg.Dungeon.MaxSize; limit > 0 && size > limit {
			size = limit
		}
	}
	return size
}

func (s *Session) startLevel(level int) error {
	seed := s.baseSeed + int64(level-1)
	res, err := dungeon.Generate(dungeon.Params{
		Size:           s.levelSize(level),
		MinRoomSize:    s.cfg.Dungeon.MinRoomSize,
		MaxRoomSize:    s.cfg.Dungeon.MaxRoomSize,
		RecursionDepth: s.cfg.Dungeon.RecursionDepth,
		Seed:           seed,
		WallVariants:   s.cfg.Dungeon.WallVariants,
	})
	if err != nil {
		return fmt.Errorf("generate level %d: %w", level, err)
	}

	s.level = level
	s.dungeon = res
	s.rng = rand.New(rand.NewSource(seed))
	s.enemies = enemy.NewManager(s.rng, s.tuning, s.log)
	points := res.EnemySpawnPoints(s.cfg.SpawnCount(level), s.rng)
	s.enemies.SpawnEnemies(points, s.types.List())

	s.player.X = mathutil.TileCenter(res.PlayerStart.X)
	s.player.Y = mathutil.TileCenter(res.PlayerStart.Y)
	s.player.Angle = s.openHeading(res.PlayerStart)
	s.placeNPC(res.NPCSpawn)

	s.levelStart = s.clock
	s.killsAtStart = s.combat.Kills()
	s.goldAtStart = s.player.Gold
	s.snapshotSent = false
	s.terminalFired = false
	s.aim = combat.Hit{}
	s.lastHit = 0
	s.effects.Clear()

	s.log.WithFields(logrus.Fields{
		"level":   level,
		"seed":    seed,
		"size":    res.Size,
		"rooms":   len(res.Rooms),
		"enemies": s.enemies.AliveCount(),
	}).Info("Level generated")
	return nil
}

// openHeading picks the first axis direction with floor next to p.
func (s *Session) openHeading(p world.Point) float64 {
	g := s.dungeon.Grid
	dirs := []struct {
		dx, dy int
		angle  float64
	}{
		{1, 0, 0},
		{0, 1, math.Pi / 2},
		{-1, 0, math.Pi},
		{0, -1, -math.Pi / 2},
	}
	for _, d := range dirs {
		if g.IsWalkable(p.X+d.dx, p.Y+d.dy) {
			return d.angle
		}
	}
	return 0
}

func (s *Session) placeNPC(p world.Point) {
	npc := NPC{ID: "shopkeeper", Name: "Merchant", Greeting: "Welcome, traveller."}
	if d, ok := s.pack.Shopkeeper(); ok {
		npc.ID, npc.Name, npc.Greeting = d.ID, d.Name, d.Greeting
	}
	npc.X = mathutil.TileCenter(p.X)
	npc.Y = mathutil.TileCenter(p.Y)
	s.npc = npc
}

// Start leaves the intro screen.
func (s *Session) Start() error {
	if s.phase != PhaseIntro {
		return ErrWrongPhase
	}
	s.phase = PhasePlaying
	s.log.WithField("level", s.level).Info("Session started")
	return nil
}

// Tick advances the simulation by dt. dt is clamped to the configured max
// step; nothing advances while the phase is paused.
func (s *Session) Tick(in Input, dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if limit := s.cfg.MaxStep(); limit > 0 && dt > limit {
		dt = limit
	}
	if s.phase.Paused() {
		return
	}
	s.clock += dt
	secs := dt.Seconds()

	s.player.Angle += mathutil.Clamp(in.Turn, -1, 1)*s.cfg.Movement.RotationSpeed*secs + in.MouseTurn
	s.move(in, secs)

	if s.onPortal() {
		s.endLevel(true)
		return
	}

	var damage int
	s.profile(monitoring.StageEnemies, func() {
		damage = s.enemies.Update(s.player.X, s.player.Y, s.dungeon.Grid, secs, s.clock)
	})
	if s.monitor != nil {
		s.monitor.AddPathSearches(s.enemies.DrainPathSearches())
	}
	if damage > 0 {
		s.hurt(damage)
		if s.player.Health == 0 {
			s.endLevel(false)
			return
		}
	}

	dirX, dirY := s.player.Dir()
	s.profile(monitoring.StageCombat, func() {
		if in.Fire {
			s.fire(dirX, dirY)
		}
		s.aim = s.combat.Aim(s.player.X, s.player.Y, dirX, dirY, s.enemies.Alive(), s.dungeon.Grid)
	})

	s.effects.Tick(dt)
	s.emitSnapshot()
}

func (s *Session) move(in Input, secs float64) {
	fwd := mathutil.Clamp(in.Move, -1, 1)
	side := mathutil.Clamp(in.Strafe, -1, 1)
	if fwd == 0 && side == 0 {
		return
	}
	dirX, dirY := s.player.Dir()
	// With y growing south, right of (dx, dy) is (-dy, dx).
	rightX, rightY := -dirY, dirX
	step := s.cfg.Movement.MoveSpeed * secs
	dx := (dirX*fwd + rightX*side) * step
	dy := (dirY*fwd + rightY*side) * step
	s.player.X, s.player.Y = collision.SlideMove(s.dungeon.Grid, s.player.X, s.player.Y, dx, dy)
}

func (s *Session) onPortal() bool {
	tx, ty := mathutil.TileOf(s.player.X), mathutil.TileOf(s.player.Y)
	return s.dungeon.Grid.At(tx, ty) == world.TilePortal
}

func (s *Session) fire(dirX, dirY float64) {
	res := s.combat.Shoot(s.clock, s.player.X, s.player.Y, dirX, dirY, s.enemies.Alive(), s.dungeon.Grid)
	if !res.Fired {
		return
	}
	s.effects.Add(EffectMuzzleFlash, ms(s.cfg.Session.MuzzleFlashMs), 1)
	if !res.Hit {
		return
	}
	s.lastHit = res.Enemy.ID
	s.effects.Add(EffectHitMarker, ms(s.cfg.Session.HitMarkerMs), 1)
	if res.Killed {
		s.player.Gold += s.cfg.Combat.GoldPerKill
	}
}

func (s *Session) hurt(damage int) {
	s.player.Hurt(damage)
	strength := math.Min(1, float64(damage)/20)
	s.effects.Add(EffectDamageFlash, ms(s.cfg.Session.DamageFlashMs), strength)
	s.effects.Add(EffectScreenShake, ms(s.cfg.Session.ShakeMs), strength)
	s.log.WithFields(logrus.Fields{"damage": damage, "health": s.player.Health}).Debug("Player hit")
}

// endLevel pauses the session and fires the matching hook once per level.
func (s *Session) endLevel(completed bool) {
	if completed {
		s.phase = PhaseLevelComplete
	} else {
		s.phase = PhaseGameOver
	}
	s.effects.Clear()
	s.emitSnapshotNow()
	if s.terminalFired {
		return
	}
	s.terminalFired = true

	stats := s.Stats()
	s.log.WithFields(logrus.Fields{
		"level":     stats.Level,
		"completed": completed,
		"kills":     stats.Kills,
		"gold":      stats.Gold,
		"elapsed":   stats.TimeElapsed.Round(time.Millisecond),
	}).Info("Level ended")

	hook := s.hooks.OnGameOver
	if completed {
		hook = s.hooks.OnLevelComplete
	}
	if hook != nil {
		hook(stats)
	}
}

func (s *Session) emitSnapshot() {
	if s.snapshotSent && s.clock-s.lastSnapshot < s.cfg.SnapshotInterval() {
		return
	}
	s.emitSnapshotNow()
}

func (s *Session) emitSnapshotNow() {
	s.lastSnapshot = s.clock
	s.snapshotSent = true
	if s.hooks.OnPlayerState != nil {
		s.hooks.OnPlayerState(s.Snapshot())
	}
}

func (s *Session) profile(stage string, fn func()) {
	if s.monitor == nil {
		fn()
		return
	}
	s.monitor.ProfiledFunction(stage, fn)
}

// NextLevel generates the following level after a completed one, carrying
// over health, gold and the equipped weapon.
func (s *Session) NextLevel() error {
	if s.phase != PhaseLevelComplete {
		return ErrWrongPhase
	}
	if err := s.startLevel(s.level + 1); err != nil {
		return err
	}
	s.phase = PhasePlaying
	return nil
}

// ID identifies the session across saves.
func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Phase() Phase             { return s.phase }
func (s *Session) Level() int               { return s.level }
func (s *Session) Player() Player           { return s.player }
func (s *Session) NPC() NPC                 { return s.npc }
func (s *Session) Dungeon() *dungeon.Result { return s.dungeon }
func (s *Session) Enemies() *enemy.Manager  { return s.enemies }
func (s *Session) Combat() *combat.Manager  { return s.combat }
func (s *Session) Aim() combat.Hit          { return s.aim }
func (s *Session) Effects() *Effects        { return &s.effects }
func (s *Session) Clock() time.Duration     { return s.clock }
func (s *Session) Pack() *content.Pack      { return s.pack }
func (s *Session) Config() *config.Config   { return s.cfg }

// Snapshot is the current player-facing state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		X:            s.player.X,
		Y:            s.player.Y,
		Health:       s.player.Health,
		EnemiesAlive: s.enemies.AliveCount(),
		Kills:        s.combat.Kills(),
		Gold:         s.player.Gold,
		Level:        s.level,
		Weapon:       s.combat.Weapon().Name,
	}
}

// Stats reports the current level's totals.
func (s *Session) Stats() LevelStats {
	return LevelStats{
		Level:           s.level,
		Completed:       s.phase == PhaseLevelComplete,
		Kills:           s.combat.Kills() - s.killsAtStart,
		Gold:            s.player.Gold - s.goldAtStart,
		TimeElapsed:     s.clock - s.levelStart,
		HealthRemaining: s.player.Health,
		DungeonSeed:     s.dungeon.Seed,
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
