package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
	"github.com/pthm-cable/evergreen/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	restore := flag.String("restore", "", "Resume from a snapshot file (requires the same seed)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	formed := flag.Bool("formed", false, "Start in the formed state")
	toggleEvery := flag.Float64("toggle-every", 0, "Headless: toggle the state every N seconds (0 = never)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	state := components.Scattered
	if *formed {
		state = components.Formed
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		State:          state,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
	}

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to build scene", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	g.MountAll()
	if *restore != "" {
		snapshot, err := telemetry.LoadSnapshot(*restore)
		if err == nil {
			err = g.Restore(snapshot)
		}
		if err != nil {
			slog.Error("failed to restore snapshot", "path", *restore, "error", err)
			os.Exit(1)
		}
	}

	if *headless {
		runHeadless(g, *maxTicks, *toggleEvery)
		if *snapshotDir != "" {
			if path, err := g.SaveSnapshot(*snapshotDir); err != nil {
				slog.Error("failed to save snapshot", "error", err)
			} else {
				slog.Info("final snapshot saved", "path", path)
			}
		}
		if *logStats {
			game.SetLogWriter(os.Stderr)
			g.LogSceneState()
			g.LogPerfStats()
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := newViewer(g)
	for !rl.WindowShouldClose() {
		v.update()
		v.draw()

		if *maxTicks > 0 && int(g.Ticks()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the scene at a fixed delta with no window.
func runHeadless(g *game.Game, maxTicks int, toggleEvery float64) {
	toggleTicks := int32(toggleEvery / game.DT)

	slog.Info("starting headless run",
		"seed", g.Seed(),
		"max_ticks", maxTicks,
		"toggle_every", toggleEvery,
	)

	elapsed := g.Elapsed()
	for {
		elapsed += game.DT
		g.Tick(elapsed, game.DT)

		if toggleTicks > 0 && g.Ticks()%toggleTicks == 0 {
			g.Toggle()
		}
		if maxTicks > 0 && int(g.Ticks()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Ticks())
			return
		}
	}
}
