// Package game drives the frame loop: it owns the level entities, their
// spatial indexes, the player and the camera.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scroller/camera"
	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/debug"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/inspector"
	"github.com/pthm-cable/scroller/level"
	"github.com/pthm-cable/scroller/renderer"
	"github.com/pthm-cable/scroller/scores"
	"github.com/pthm-cable/scroller/spatial"
	"github.com/pthm-cable/scroller/systems"
	"github.com/pthm-cable/scroller/telemetry"
	"github.com/pthm-cable/scroller/ui"
)

// index is a named finder with a reusable query buffer.
type index struct {
	name string
	*spatial.Finder[ecs.Entity]
	buf []ecs.Entity
}

func newIndex(name string, cfg *config.Config) (*index, error) {
	f, err := spatial.NewFinder[ecs.Entity](cfg.World.Size, cfg.World.CellSize)
	if err != nil {
		return nil, fmt.Errorf("%s finder: %w", name, err)
	}
	return &index{name: name, Finder: f}, nil
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	world *ecs.World

	// Component mappers
	platformMap   *ecs.Map1[components.Platform]
	blockMap      *ecs.Map1[components.Block]
	posMap        *ecs.Map1[components.Position]
	enemyMap      *ecs.Map1[components.Enemy]
	enemyMapper   *ecs.Map4[components.Position, components.Velocity, components.Extent, components.Enemy]
	pickupMapper  *ecs.Map3[components.Position, components.Extent, components.Collectible]
	powerUpMapper *ecs.Map3[components.Position, components.Extent, components.PowerUp]
	enemyFilter   *ecs.Filter1[components.Enemy]
	pickupFilter  *ecs.Filter1[components.Collectible]
	powerUpFilter *ecs.Filter1[components.PowerUp]

	// One spatial index per category
	platforms    *index
	blocks       *index
	enemies      *index
	collectibles *index
	powerups     *index

	enemySystem *systems.EnemySystem

	player   systems.Player
	effects  *systems.Effects
	camera   *camera.Camera
	start     geom.Pt
	home      geom.Pt // camera centre at load
	levelName string
	floorBuf  []geom.Rect

	// Parameters derived from config
	playerParams systems.PlayerParams
	bobParams    systems.BobParams
	blockParams  systems.BlockParams

	// State
	tick       int32
	score      int
	lives      int
	collected  int
	paused     bool
	pauseHeld  bool // P was down last frame
	finished   bool
	seed       int64
	playerName string

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	events        *telemetry.EventLog
	outputManager *telemetry.OutputManager
	logStats      bool
	debug         *debug.Server
	onStats       StatsCallback

	// Rendering state (graphics mode only)
	headless  bool
	showGrid  bool
	hud       *ui.HUD
	particles *renderer.Particles
	inspector *inspector.Inspector
}

// New creates a game for cfg with the level in opts, or the generated one.
func New(cfg *config.Config, opts Options) (*Game, error) {
	w := ecs.NewWorld()
	g := &Game{
		cfg:           cfg,
		world:         w,
		platformMap:   ecs.NewMap1[components.Platform](w),
		blockMap:      ecs.NewMap1[components.Block](w),
		posMap:        ecs.NewMap1[components.Position](w),
		enemyMap:      ecs.NewMap1[components.Enemy](w),
		enemyMapper:   ecs.NewMap4[components.Position, components.Velocity, components.Extent, components.Enemy](w),
		pickupMapper:  ecs.NewMap3[components.Position, components.Extent, components.Collectible](w),
		powerUpMapper: ecs.NewMap3[components.Position, components.Extent, components.PowerUp](w),
		enemyFilter:   ecs.NewFilter1[components.Enemy](w),
		pickupFilter:  ecs.NewFilter1[components.Collectible](w),
		powerUpFilter: ecs.NewFilter1[components.PowerUp](w),
		enemySystem: systems.NewEnemySystem(w, systems.EnemyParams{
			Speed:             cfg.Enemy.Speed,
			Gravity:           cfg.Enemy.Gravity,
			TurnDropThreshold: cfg.Enemy.TurnDropThreshold,
			FallKillY:         cfg.Enemy.FallKillY,
			StompDivisor:      cfg.Enemy.StompDivisor,
		}),
		effects: systems.NewEffects([len(components.PowerUpTypes)]int{
			components.Star:     cfg.PowerUps.StarFrames,
			components.Mushroom: cfg.PowerUps.MushroomFrames,
			components.Feather:  cfg.PowerUps.FeatherFrames,
		}),
		camera: camera.New(cfg.Screen.Width, cfg.Screen.Height, cfg.Camera.DeadZoneFraction),
		playerParams: systems.PlayerParams{
			WalkSpeed:    cfg.Player.WalkSpeed,
			JumpSpeed:    cfg.Player.JumpSpeed,
			Gravity:      cfg.Player.Gravity,
			MaxFallSpeed: cfg.Player.MaxFallSpeed,
			SpeedFactor:  cfg.PowerUps.SpeedFactor,
			JumpFactor:   cfg.PowerUps.JumpFactor,
		},
		bobParams: systems.BobParams{Amplitude: cfg.Collectible.Amplitude, Speed: cfg.Collectible.Speed},
		blockParams: systems.BlockParams{
			HitSlack:   cfg.Blocks.HitSlack,
			BumpOffset: cfg.Blocks.BumpOffset,
			SpawnAbove: cfg.PowerUps.SpawnAbove,
		},
		lives:      cfg.Player.Lives,
		seed:       opts.Seed,
		playerName: opts.Player,
		collector:  telemetry.NewCollector(cfg.Telemetry.StatsWindowTicks),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindowTicks),
		events:     telemetry.NewEventLog(slog.Default(), cfg.Telemetry.EventRate, cfg.Telemetry.EventBurst),
		logStats:   opts.LogStats,
		debug:      opts.Debug,
		onStats:    opts.OnStats,
		headless:   opts.Headless,
	}

	var err error
	for _, ix := range []struct {
		dst  **index
		name string
	}{
		{&g.platforms, "platforms"},
		{&g.blocks, "blocks"},
		{&g.enemies, "enemies"},
		{&g.collectibles, "collectibles"},
		{&g.powerups, "powerups"},
	} {
		if *ix.dst, err = newIndex(ix.name, cfg); err != nil {
			return nil, err
		}
	}

	layout := opts.Layout
	if layout == nil {
		layout = level.Generate(cfg.Level, geom.Pt{X: cfg.Derived.StartX, Y: cfg.Player.StartY})
	}
	if err := g.load(layout); err != nil {
		return nil, err
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !g.headless {
		g.hud = ui.NewHUD()
		g.particles = renderer.NewParticles(opts.Seed)
		g.inspector = inspector.New()
	}

	slog.Info("level loaded",
		"name", layout.Name,
		"platforms", g.platforms.Len(),
		"blocks", g.blocks.Len(),
		"enemies", g.enemies.Len(),
		"collectibles", g.collectibles.Len(),
		"seed", g.seed,
	)
	return g, nil
}

// Tick returns the number of simulated frames.
func (g *Game) Tick() int32 { return g.tick }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Lives returns the lives left.
func (g *Game) Lives() int { return g.lives }

// Collected returns the number of collectibles picked up.
func (g *Game) Collected() int { return g.collected }

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// Finished reports whether the game is over.
func (g *Game) Finished() bool { return g.finished }

// Player returns a copy of the player state.
func (g *Game) Player() systems.Player { return g.player }

// Camera returns the camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Effects returns the active power-up effects.
func (g *Game) Effects() *systems.Effects { return g.effects }

// Result returns the run as a score entry.
func (g *Game) Result() scores.Entry {
	return scores.Entry{
		Player:    g.playerName,
		Score:     g.score,
		Collected: g.collected,
		Ticks:     g.tick,
		Seed:      g.seed,
	}
}

// Close flushes telemetry output and logs the final finder report.
func (g *Game) Close() error {
	if err := g.checkIndexes(); err != nil {
		slog.Error("spatial index out of sync", "error", err)
	}
	g.FinderReport()
	slog.Info("game over",
		"tick", g.tick,
		"score", g.score,
		"lives", g.lives,
		"collected", g.collected,
		"events", g.events.Total(),
		"events_dropped", g.events.Dropped(),
	)
	return g.outputManager.Close()
}
