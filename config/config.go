// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvConfigPath names the environment variable consulted when no config path is given.
const EnvConfigPath = "SCROLLER_CONFIG"

// Config holds all game configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Camera      CameraConfig      `yaml:"camera"`
	Player      PlayerConfig      `yaml:"player"`
	Enemy       EnemyConfig       `yaml:"enemy"`
	Collectible CollectibleConfig `yaml:"collectible"`
	PowerUps    PowerUpsConfig    `yaml:"powerups"`
	Blocks      BlocksConfig      `yaml:"blocks"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Level       LevelConfig       `yaml:"level"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Debug       DebugConfig       `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the geometry of the spatial index.
// Size must be a multiple of CellSize.
type WorldConfig struct {
	Size     int `yaml:"size"`
	CellSize int `yaml:"cell_size"`
}

// CameraConfig holds viewport follow and query margin settings.
type CameraConfig struct {
	PhysicsMargin    int     `yaml:"physics_margin"`     // Extra border around the view for player physics and pickups
	EnemyMargin      int     `yaml:"enemy_margin"`       // Extra border around the view for enemy updates
	DeadZoneFraction float64 `yaml:"dead_zone_fraction"` // Player may move this fraction of the viewport from centre before the camera follows
}

// PlayerConfig holds player movement parameters. Units are pixels and frames.
type PlayerConfig struct {
	StartX           int `yaml:"start_x"` // 0 = half the screen width
	StartY           int `yaml:"start_y"`
	WalkSpeed        int `yaml:"walk_speed"`
	JumpSpeed        int `yaml:"jump_speed"`
	Gravity          int `yaml:"gravity"`
	MaxFallSpeed     int `yaml:"max_fall_speed"`
	Lives            int `yaml:"lives"`
	HurtInvulnFrames int `yaml:"hurt_invuln_frames"` // Frames of immunity after losing a life
	StompBounce      int `yaml:"stomp_bounce"`       // Upward speed after stomping an enemy
	FallDeathY       int `yaml:"fall_death_y"`       // Falling below this costs a life and respawns
}

// EnemyConfig holds enemy walking parameters.
type EnemyConfig struct {
	Speed             int `yaml:"speed"`
	Gravity           int `yaml:"gravity"`
	TurnDropThreshold int `yaml:"turn_drop_threshold"` // Reverse when falling more than this in one frame
	HalfSize          int `yaml:"half_size"`
	StompDivisor      int `yaml:"stomp_divisor"` // Stomp when player is above enemy centre by size/divisor
	FallKillY         int `yaml:"fall_kill_y"`
}

// CollectibleConfig holds floating pickup parameters.
type CollectibleConfig struct {
	Amplitude    float64 `yaml:"amplitude"`
	Speed        float64 `yaml:"speed"`
	HalfSize     int     `yaml:"half_size"`
	PickupRadius int     `yaml:"pickup_radius"`
}

// PowerUpsConfig holds effect durations and strengths.
type PowerUpsConfig struct {
	StarFrames     int     `yaml:"star_frames"`
	MushroomFrames int     `yaml:"mushroom_frames"`
	FeatherFrames  int     `yaml:"feather_frames"`
	SpeedFactor    float64 `yaml:"speed_factor"` // Walk speed multiplier while MUSHROOM is active
	JumpFactor     float64 `yaml:"jump_factor"`  // Jump speed multiplier while FEATHER is active
	HalfSize       int     `yaml:"half_size"`
	PickupRadius   int     `yaml:"pickup_radius"`
	SpawnAbove     int     `yaml:"spawn_above"` // Distance above a block's top where its power-up appears
}

// BlocksConfig holds special block interaction parameters.
type BlocksConfig struct {
	HitSlack   int `yaml:"hit_slack"`   // Horizontal tolerance for hits from below
	BumpOffset int `yaml:"bump_offset"` // Bump animation height in pixels
}

// ScoringConfig holds points awarded per event.
type ScoringConfig struct {
	Stomp        int `yaml:"stomp"`
	PowerUp      int `yaml:"powerup"`
	BlockPowerUp int `yaml:"block_powerup"`
	Brick        int `yaml:"brick"`
	Collectible  int `yaml:"collectible"`
}

// LevelConfig holds parameters of the generated level.
type LevelConfig struct {
	Platforms    int `yaml:"platforms"`    // Staircase platforms after the three starting ones
	Enemies      int `yaml:"enemies"`      // Enemies are placed for indices 2..Enemies-1
	Bricks       int `yaml:"bricks"`       // Bricks are placed for indices 5..Bricks-1
	Collectibles int `yaml:"collectibles"` // Distributed collectibles for indices 1..Collectibles-1
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindowTicks int     `yaml:"stats_window_ticks"`
	PerfWindowTicks  int     `yaml:"perf_window_ticks"`
	EventRate        float64 `yaml:"event_rate"`  // Logged game events per second
	EventBurst       int     `yaml:"event_burst"` // Burst allowance for the event log
}

// DebugConfig holds the optional debug HTTP server settings.
type DebugConfig struct {
	Addr        string   `yaml:"addr"` // Empty disables the server
	CORSOrigins []string `yaml:"cors_origins"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GridDim   int     // World.Size / World.CellSize
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	StartX    int     // Player.StartX with the screen default applied
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// ResolvePath returns path, or the SCROLLER_CONFIG environment value when path is empty.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(EnvConfigPath)
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.World.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("world.cell_size must be positive, got %d", c.World.CellSize))
	} else if c.World.Size < c.World.CellSize || c.World.Size%c.World.CellSize != 0 {
		errs = append(errs, fmt.Errorf("world.size %d must be a positive multiple of cell_size %d", c.World.Size, c.World.CellSize))
	}
	if c.Camera.PhysicsMargin < 0 || c.Camera.EnemyMargin < 0 {
		errs = append(errs, errors.New("camera margins must not be negative"))
	}
	if c.Camera.DeadZoneFraction < 0 || c.Camera.DeadZoneFraction >= 0.5 {
		errs = append(errs, fmt.Errorf("camera.dead_zone_fraction must be in [0, 0.5), got %g", c.Camera.DeadZoneFraction))
	}
	if c.Player.Lives <= 0 {
		errs = append(errs, fmt.Errorf("player.lives must be positive, got %d", c.Player.Lives))
	}
	if c.Enemy.StompDivisor <= 0 {
		errs = append(errs, fmt.Errorf("enemy.stomp_divisor must be positive, got %d", c.Enemy.StompDivisor))
	}
	if c.Telemetry.StatsWindowTicks <= 0 || c.Telemetry.PerfWindowTicks <= 0 {
		errs = append(errs, errors.New("telemetry windows must be positive"))
	}
	return errors.Join(errs...)
}

// Refresh re-validates c and recomputes derived values after fields were
// changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.GridDim = c.World.Size / c.World.CellSize
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.StartX = c.Player.StartX
	if c.Derived.StartX == 0 {
		c.Derived.StartX = c.Screen.Width / 2
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
