package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20000, cfg.World.Size)
	assert.Equal(t, 1000, cfg.World.CellSize)
	assert.Equal(t, 20, cfg.Derived.GridDim)
	assert.Equal(t, 200, cfg.Camera.PhysicsMargin)
	assert.Equal(t, 300, cfg.Camera.EnemyMargin)
	assert.Equal(t, 300, cfg.PowerUps.StarFrames)
	assert.Equal(t, 240, cfg.PowerUps.MushroomFrames)
	assert.Equal(t, 360, cfg.PowerUps.FeatherFrames)
	assert.Equal(t, cfg.Screen.Width/2, cfg.Derived.StartX)
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  size: 8000\n  cell_size: 500\nplayer:\n  lives: 5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.World.Size)
	assert.Equal(t, 16, cfg.Derived.GridDim)
	assert.Equal(t, 5, cfg.Player.Lives)
	// Untouched sections keep their defaults.
	assert.Equal(t, 2, cfg.Enemy.Speed)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"indivisible world", "world:\n  size: 20000\n  cell_size: 3000\n"},
		{"zero cell", "world:\n  cell_size: 0\n"},
		{"no lives", "player:\n  lives: 0\n"},
		{"wide dead zone", "camera:\n  dead_zone_fraction: 0.6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Stomp = 999

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 999, loaded.Scoring.Stomp)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/scroller.yaml")
	assert.Equal(t, "given.yaml", ResolvePath("given.yaml"))
	assert.Equal(t, "/etc/scroller.yaml", ResolvePath(""))
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	assert.Panics(t, func() { Cfg() })
	require.NoError(t, Init(""))
	assert.NotNil(t, Cfg())
}

func TestRefreshRecomputesDerived(t *testing.T) {
	cfg := Default()
	cfg.World.CellSize = 500
	require.NoError(t, cfg.Refresh())
	assert.Equal(t, 40, cfg.Derived.GridDim)

	cfg.World.CellSize = 300
	assert.Error(t, cfg.Refresh())
}
