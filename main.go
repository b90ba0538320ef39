package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/joho/godotenv"

	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/debug"
	"github.com/pthm-cable/scroller/game"
	"github.com/pthm-cable/scroller/level"
	"github.com/pthm-cable/scroller/scores"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = $SCROLLER_CONFIG or defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the autopilot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	levelPath := flag.String("level", "", "Level file (msgpack) to play (empty = generated level)")
	scoresPath := flag.String("scores", "", "SQLite high-score database (empty = not recorded)")
	player := flag.String("player", "", "Player name recorded with the score (default $USER)")
	debugAddr := flag.String("debug-addr", "", "Debug server address, e.g. :6060 (overrides config)")
	seed := flag.Int64("seed", 0, "Autopilot RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(config.ResolvePath(*configPath)); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *debugAddr != "" {
		cfg.Debug.Addr = *debugAddr
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	name := *player
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "player"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runOptions{
		game: game.Options{
			Seed:      rngSeed,
			Headless:  *headless,
			LogStats:  *logStats,
			OutputDir: *outputDir,
			Player:    name,
		},
		levelPath:  *levelPath,
		scoresPath: *scoresPath,
		maxTicks:   *maxTicks,
	}); err != nil {
		slog.Error("scroller failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	game       game.Options
	levelPath  string
	scoresPath string
	maxTicks   int
}

func run(ctx context.Context, cfg *config.Config, ro runOptions) error {
	opts := ro.game

	if ro.levelPath != "" {
		l, err := level.LoadFile(ro.levelPath)
		if err != nil {
			return err
		}
		opts.Layout = l
	}

	srv, err := debug.Start(ctx, cfg.Debug)
	if err != nil {
		return err
	}
	opts.Debug = srv

	var store *scores.Store
	if ro.scoresPath != "" {
		if store, err = scores.Open(ctx, ro.scoresPath); err != nil {
			return err
		}
		defer store.Close()
	}

	if !opts.Headless {
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Scroller")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
		// Escape is handled by the game so the run ends cleanly.
		rl.SetExitKey(rl.KeyNull)
	}

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	done := func() bool {
		if g.Finished() || ctx.Err() != nil {
			return true
		}
		if ro.maxTicks > 0 && int(g.Tick()) >= ro.maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return true
		}
		return false
	}

	if opts.Headless {
		slog.Info("starting headless run",
			"seed", opts.Seed,
			"max_ticks", ro.maxTicks,
		)
		pilot := game.NewAutopilot(opts.Seed)
		for !done() {
			g.Step(pilot.Next(g.Player()))
		}
	} else {
		for !rl.WindowShouldClose() && !done() {
			g.Update()
			g.Draw()
		}
	}

	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}

	if store != nil {
		// Record even after an interrupt.
		ctx := context.WithoutCancel(ctx)
		res := g.Result()
		id, err := store.Record(ctx, res)
		if err != nil {
			return err
		}
		best, _, err := store.Best(ctx, res.Player)
		if err != nil {
			return err
		}
		slog.Info("score recorded", "id", id, "player", res.Player, "score", res.Score, "best", best.Score)
	}
	return nil
}
