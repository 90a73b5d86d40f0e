package main

import (
	"context"
	"flag"
	"image/color"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"raydungeon/internal/config"
	"raydungeon/internal/content"
	"raydungeon/internal/enemy"
	"raydungeon/internal/game/host"
	"raydungeon/internal/graphics"
	"raydungeon/internal/logger"
	"raydungeon/internal/storage"
	"raydungeon/internal/threading"
	"raydungeon/internal/world"
)

const assetLoadTimeout = 30 * time.Second

func rgb(c [3]int) color.RGBA {
	return color.RGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), 255}
}

func main() {
	configFile := flag.String("config", "config.yaml", "configuration file")
	seed := flag.Int64("seed", 0, "dungeon seed, overrides the config and content pack")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configFile)
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	pack, found, err := content.Load(cfg.Assets.ContentFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load content pack")
	}
	if !found {
		log.WithField("file", cfg.Assets.ContentFile).Info("No content pack, using defaults")
	}

	// Pack enemies win over the YAML table.
	types, ok := pack.EnemyTypes()
	if !ok {
		types, err = enemy.LoadTypeTable(cfg.Assets.EnemiesFile)
		if err != nil {
			log.WithError(err).Warn("Failed to load enemy types, using built-in table")
			types = enemy.DefaultTypeTable()
		}
	}

	assets := graphics.NewAssetStore(cfg.Assets.TextureSize, filepath.Dir(cfg.Assets.ContentFile), pack.GraphicsTheme(), log)
	ctx, cancel := context.WithTimeout(context.Background(), assetLoadTimeout)
	if err := assets.LoadAll(ctx, pack.AssetRefs()); err != nil {
		log.WithError(err).Warn("Asset loading cut short, placeholders fill the gaps")
	}
	cancel()
	textures := graphics.NewWorldTextures(assets, world.NewTileManager(cfg.Tiles), rgb(cfg.Render.FloorColor), rgb(cfg.Render.CeilingColor))

	store, err := storage.New(storage.DefaultDir(cfg.Storage.Dir), log)
	if err != nil {
		log.WithError(err).Warn("Saves disabled")
		store = nil
	}

	tc := threading.NewThreadingComponents(cfg.Render.Workers)
	defer tc.Shutdown()

	app, err := host.New(host.Options{
		Config:    cfg,
		Pack:      pack,
		Types:     types,
		Assets:    assets,
		Textures:  textures,
		Threading: tc,
		Store:     store,
		Seed:      *seed,
		Log:       log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to start game")
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.Display.TPS)

	if err := ebiten.RunGame(app); err != nil {
		log.WithError(err).Fatal("Game exited with error")
	}
}
