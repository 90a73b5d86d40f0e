// Command dungeonview previews generated dungeons in the terminal, for
// tuning the generator settings in config.yaml.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"raydungeon/internal/config"
	"raydungeon/internal/logger"
)

func main() {
	configFile := flag.String("config", "config.yaml", "configuration file")
	seed := flag.Int64("seed", 0, "dungeon seed, 0 uses the configured seed or the clock")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		cfg = config.Default()
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.WithError(err).Warn("Using default configuration")
	}

	if *seed == 0 {
		*seed = cfg.Dungeon.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.WithError(err).Fatal("Failed to create terminal screen")
	}
	if err := screen.Init(); err != nil {
		log.WithError(err).Fatal("Failed to initialise terminal screen")
	}

	v := newViewer(cfg, *seed)
	run(screen, v)
	screen.Fini()

	if v.err != nil {
		fmt.Fprintf(os.Stderr, "last layout failed: %v\n", v.err)
	}
	log.WithField("seed", v.seed).Info("Preview closed")
}

func run(screen tcell.Screen, v *viewer) {
	v.draw(screen)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		case *tcell.EventResize:
			screen.Sync()
		}
		v.draw(screen)
	}
}
