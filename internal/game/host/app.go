// Package host runs a game.Session inside an ebiten window: it maps the
// keyboard and mouse to session input, blits the software-rendered frame and
// draws the HUD and phase screens on top.
package host

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"raydungeon/internal/config"
	"raydungeon/internal/content"
	"raydungeon/internal/enemy"
	"raydungeon/internal/game"
	"raydungeon/internal/game/keytracker"
	"raydungeon/internal/graphics"
	"raydungeon/internal/logger"
	"raydungeon/internal/raycast"
	"raydungeon/internal/storage"
	"raydungeon/internal/threading"
)

const messageDuration = 3 * time.Second

// Options wires the host to the rest of the program.
type Options struct {
	Config    *config.Config
	Pack      *content.Pack
	Types     *enemy.TypeTable
	Assets    *graphics.AssetStore
	Textures  *graphics.WorldTextures
	Threading *threading.ThreadingComponents
	Store     *storage.Store // nil disables saves and level records
	Seed      int64
	Log       logrus.FieldLogger
}

// App implements ebiten.Game.
type App struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	opts     Options
	session  *game.Session
	renderer *raycast.Renderer
	frame    *ebiten.Image
	keys     *keytracker.KeyStateTracker
	started  time.Time

	snapshot     game.Snapshot
	message      string
	messageUntil time.Time
	shopIndex    int

	mouseX       int
	mouseCapture bool

	perfOverlay bool
	perf        perfWatch
}

// New creates the first session and the renderer.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	a := &App{
		cfg:     opts.Config,
		log:     logger.Component(opts.Log, "host"),
		opts:    opts,
		keys:    keytracker.New(),
		started: time.Now(),
	}
	s, err := game.NewSession(a.cfg, a.sessionOptions())
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	a.setSession(s)

	ro := raycast.OptionsFromConfig(a.cfg)
	a.renderer = raycast.NewRenderer(ro, opts.Threading.ParallelRenderer, opts.Threading.PerformanceMonitor)
	a.frame = ebiten.NewImage(ro.Width, ro.Height)
	return a, nil
}

func (a *App) sessionOptions() game.Options {
	return game.Options{
		Types:   a.opts.Types,
		Pack:    a.opts.Pack,
		Log:     a.opts.Log,
		Monitor: a.opts.Threading.PerformanceMonitor,
		Seed:    a.opts.Seed,
		Hooks: game.Hooks{
			OnPlayerState:   func(s game.Snapshot) { a.snapshot = s },
			OnLevelComplete: func(ls game.LevelStats) { a.levelEnded(ls, "Level complete") },
			OnGameOver:      func(ls game.LevelStats) { a.levelEnded(ls, "You died") },
		},
	}
}

func (a *App) setSession(s *game.Session) {
	a.session = s
	a.snapshot = s.Snapshot()
	a.shopIndex = 0
}

// Session exposes the running session.
func (a *App) Session() *game.Session { return a.session }

// Update handles input and advances the session by one tick.
func (a *App) Update() error {
	ft := a.opts.Threading.PerformanceMonitor.StartFrame()
	defer ft.EndFrame()

	a.handleGlobalKeys()

	switch a.session.Phase() {
	case game.PhaseIntro:
		if a.confirmPressed() {
			_ = a.session.Start()
		}
	case game.PhasePlaying:
		if a.keys.IsKeyJustPressed(ebiten.KeyE) {
			if err := a.session.OpenShop(); err != nil {
				a.notify("Nobody to trade with here")
			}
			break
		}
		a.session.Tick(a.readInput(), a.tickDuration())
	case game.PhaseShopOpen:
		a.updateShop()
	case game.PhaseLevelComplete:
		if a.confirmPressed() {
			if err := a.session.NextLevel(); err != nil {
				a.log.WithError(err).Error("Failed to generate next level")
				return err
			}
			a.notify(fmt.Sprintf("Level %d", a.session.Level()))
		}
	case game.PhaseGameOver:
		if a.confirmPressed() {
			a.restart()
		}
	}

	tc := a.opts.Threading
	tc.PerformanceMonitor.SetWorkerJobs(tc.ParallelRenderer.CompletedJobs())
	a.perf.observe(a.log, tc.PerformanceMonitor, a.perfOverlay)
	return nil
}

func (a *App) tickDuration() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}

func (a *App) confirmPressed() bool {
	return a.keys.IsKeyJustPressed(ebiten.KeyEnter) || a.keys.IsKeyJustPressed(ebiten.KeySpace)
}

func (a *App) handleGlobalKeys() {
	if a.keys.IsKeyJustPressed(ebiten.KeyF3) {
		a.perfOverlay = !a.perfOverlay
		a.opts.Threading.PerformanceMonitor.EnableDetailedLogging(a.perfOverlay)
	}
	if a.keys.IsKeyJustPressed(ebiten.KeyF5) {
		a.save()
	}
	if a.keys.IsKeyJustPressed(ebiten.KeyF9) {
		a.load()
	}
	if a.keys.IsKeyJustPressed(ebiten.KeyTab) {
		a.toggleMouseCapture()
	}
}

func (a *App) restart() {
	s, err := game.NewSession(a.cfg, a.sessionOptions())
	if err != nil {
		a.log.WithError(err).Error("Failed to restart session")
		a.notify("Restart failed")
		return
	}
	a.setSession(s)
	_ = s.Start()
}

func (a *App) levelEnded(stats game.LevelStats, msg string) {
	a.notify(msg)
	if a.opts.Store == nil {
		return
	}
	if _, err := a.opts.Store.AppendRecord(a.cfg.Storage.PlayerID, stats.Record()); err != nil {
		a.log.WithError(err).Warn("Failed to store level record")
	}
}

func (a *App) save() {
	if a.opts.Store == nil {
		a.notify("Saving is disabled")
		return
	}
	s := a.session
	if _, err := a.opts.Store.SaveSession(s.ID(), a.cfg.Storage.PlayerID, s.Level(), s.SaveState()); err != nil {
		a.log.WithError(err).Error("Failed to save session")
		a.notify("Save failed")
		return
	}
	a.notify("Game saved")
}

func (a *App) load() {
	if a.opts.Store == nil {
		a.notify("Saving is disabled")
		return
	}
	meta, err := a.opts.Store.LatestSession(a.cfg.Storage.PlayerID)
	if errors.Is(err, storage.ErrNotFound) {
		a.notify("No saved game")
		return
	}
	if err != nil {
		a.log.WithError(err).Error("Failed to list saves")
		a.notify("Load failed")
		return
	}
	var st game.SavedState
	if _, err := a.opts.Store.LoadSession(meta.ID, &st); err != nil {
		a.log.WithError(err).Error("Failed to read save")
		a.notify("Load failed")
		return
	}
	s, err := game.RestoreSession(a.cfg, st, a.sessionOptions())
	if err != nil {
		a.log.WithError(err).Error("Failed to restore session")
		a.notify("Save is corrupt")
		return
	}
	a.setSession(s)
	a.notify(fmt.Sprintf("Loaded level %d", s.Level()))
}

func (a *App) notify(msg string) {
	a.message = msg
	a.messageUntil = time.Now().Add(messageDuration)
}

// Draw renders the world into the low-resolution frame, scales it to the
// window and draws the overlays.
func (a *App) Draw(screen *ebiten.Image) {
	img := a.session.Render(a.renderer, a.opts.Textures, a.opts.Assets, time.Since(a.started))
	a.frame.WritePixels(img.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := a.frame.Bounds().Dx(), a.frame.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	op.GeoM.Scale(float64(sw)/float64(fw), float64(sh)/float64(fh))
	dx, dy := shakeOffset(a.session.Effects().Strength(game.EffectScreenShake), a.session.Clock(), sw)
	op.GeoM.Translate(dx, dy)
	screen.DrawImage(a.frame, op)

	a.drawHUD(screen)
	a.drawPhase(screen)
	if a.perfOverlay {
		a.drawPerf(screen)
	}
}

// Layout returns the screen dimensions
func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return a.cfg.GetScreenWidth(), a.cfg.GetScreenHeight()
}

// FrameSize is the internal render resolution.
func (a *App) FrameSize() image.Point {
	return a.frame.Bounds().Size()
}
