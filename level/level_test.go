package level

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/geom"
)

var defaultLevel = config.LevelConfig{Platforms: 200, Enemies: 50, Bricks: 30, Collectibles: 100}

func TestGenerateCounts(t *testing.T) {
	l := Generate(defaultLevel, geom.Pt{X: 240, Y: 150})

	assert.Len(t, l.Platforms, 3+199)
	assert.Len(t, l.Enemies, 48)
	assert.Len(t, l.Blocks, 3+25)
	assert.Len(t, l.Collectibles, 3+99+33)
	require.NoError(t, l.Validate())

	assert.Equal(t, geom.Rect{Left: 100, Top: 200, Right: 300, Bottom: 211}, l.Platforms[0])
	assert.Equal(t, geom.Rect{Left: 500, Top: 450, Right: 650, Bottom: 461}, l.Platforms[3])
	assert.Equal(t, geom.Pt{X: 1100, Y: 450}, l.Enemies[0].Pos)
	assert.Equal(t, components.Star, l.Blocks[0].Contains)
	assert.Equal(t, components.Brick, l.Blocks[3].Type)
}

func TestGenerateFitsDefaultWorld(t *testing.T) {
	l := Generate(defaultLevel, geom.Pt{X: 240, Y: 150})
	b := l.Bounds()
	assert.GreaterOrEqual(t, b.Left, 0)
	assert.GreaterOrEqual(t, b.Top, 0)
	// The staircase runs past the default world; the index clamps it into the edge column.
	assert.Greater(t, b.Right, 20000)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	l := &Layout{
		Platforms: []geom.Rect{{Left: 10, Top: 0, Right: 0, Bottom: 10}},
		Enemies:   []EnemySpec{{Kind: 9}},
		Blocks:    []BlockSpec{{Rect: geom.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}, Type: 7}},
	}

	err := l.Validate()
	require.ErrorIs(t, err, ErrInvalidLayout)
	assert.Contains(t, err.Error(), "platform 0")
	assert.Contains(t, err.Error(), "enemy 0")
	assert.Contains(t, err.Error(), "block 0")
}

func TestEncodeDecode(t *testing.T) {
	l := Generate(config.LevelConfig{Platforms: 5, Enemies: 4, Bricks: 7, Collectibles: 4}, geom.Pt{X: 1, Y: 2})

	var buf bytes.Buffer
	require.NoError(t, l.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	bad := &Layout{Platforms: []geom.Rect{{Left: 5, Top: 5, Right: 0, Bottom: 0}}}
	var buf bytes.Buffer
	require.NoError(t, bad.Encode(&buf))

	_, err := Decode(&buf)
	require.ErrorIs(t, err, ErrInvalidLayout)

	_, err = Decode(bytes.NewReader([]byte{0xc1}))
	require.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.msgpack")
	l := Generate(defaultLevel, geom.Pt{X: 240, Y: 150})

	require.NoError(t, l.SaveFile(path))
	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, l.Platforms, got.Platforms)
	assert.Equal(t, l.Blocks, got.Blocks)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.msgpack"))
	require.Error(t, err)
}
