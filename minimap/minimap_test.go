package minimap

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/level"
)

func rgbaAt(t *testing.T, c color.Color) color.RGBA {
	t.Helper()
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func smallLayout() *level.Layout {
	return &level.Layout{
		PlayerStart: geom.Pt{X: 90, Y: 10},
		Platforms:   []geom.Rect{{Left: 10, Top: 10, Right: 30, Bottom: 30}},
	}
}

func TestRenderDrawsObjectsAtScale(t *testing.T) {
	l := smallLayout()
	img := Render(l, nil, Options{Width: 100, Height: 100, Bounds: geom.Rect{Right: 100, Bottom: 100}})

	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 100, img.Bounds().Dy())
	assert.Equal(t, rgba(components.PlatformColor, 255), rgbaAt(t, img.At(20, 20)))
	assert.Equal(t, rgba(components.SkyColor, 255), rgbaAt(t, img.At(80, 80)))
	assert.Equal(t, rgba(components.SkyColor, 255), rgbaAt(t, img.At(5, 5)))
}

func TestRenderShadesOccupiedCells(t *testing.T) {
	l := smallLayout()
	f, err := Index(l, 100, 50, 6, 5)
	require.NoError(t, err)
	require.Equal(t, 1, f.Len())
	require.Equal(t, 1, f.CellLen(0, 0))

	img := Render(l, f, Options{Width: 100, Height: 100, Bounds: geom.Rect{Right: 100, Bottom: 100}})

	sky := rgba(components.SkyColor, 255)
	assert.NotEqual(t, sky, rgbaAt(t, img.At(5, 5)), "occupied cell is shaded")
	assert.Equal(t, sky, rgbaAt(t, img.At(80, 80)), "empty cell is not")
	assert.Equal(t, rgba(components.PlatformColor, 255), rgbaAt(t, img.At(20, 20)), "objects draw over shading")
}

func TestIndexGeneratedLevel(t *testing.T) {
	cfg := config.Default()
	l := level.Generate(cfg.Level, geom.Pt{X: 240, Y: 150})

	f, err := Index(l, cfg.World.Size, cfg.World.CellSize, 6, 5)
	require.NoError(t, err)
	total := len(l.Platforms) + len(l.Blocks) + len(l.Enemies) + len(l.Collectibles)
	assert.Equal(t, total, f.Len())

	_, err = Index(l, 0, 0, 6, 5)
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	cfg := config.Default()
	l := level.Generate(cfg.Level, geom.Pt{X: 240, Y: 150})
	f, err := Index(l, cfg.World.Size, cfg.World.CellSize, 6, 5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "level.png")
	require.NoError(t, SavePNG(path, Render(l, f, DefaultOptions())))
	assert.FileExists(t, path)
}
