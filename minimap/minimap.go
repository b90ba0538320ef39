// Package minimap renders an overview image of a level and the occupancy
// of the spatial index holding it.
package minimap

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/level"
	"github.com/pthm-cable/scroller/spatial"
)

// Occupancy reports how many identities each grid cell holds.
// *spatial.Finder satisfies it.
type Occupancy interface {
	Dims() (dim, cellSize int)
	CellLen(cx, cy int) int
}

// Options control the output image.
type Options struct {
	Width, Height int
	// Bounds is the world region drawn. Zero means the layout bounds plus a margin.
	Bounds geom.Rect
	// Extents of point objects, in world units.
	EnemyHalf, PickupHalf int
}

// DefaultOptions suits the generated level, which is long and shallow.
func DefaultOptions() Options {
	return Options{Width: 2000, Height: 250, EnemyHalf: 6, PickupHalf: 5}
}

const boundsMargin = 100

// Index registers every object of l in a new finder keyed by a running
// number, so the minimap can show the load a level puts on a grid.
func Index(l *level.Layout, worldSize, cellSize int, enemyHalf, pickupHalf int) (*spatial.Finder[int], error) {
	f, err := spatial.NewFinder[int](worldSize, cellSize)
	if err != nil {
		return nil, err
	}
	id := 0
	add := func(r geom.Rect) {
		f.Add(id, r)
		id++
	}
	for _, r := range l.Platforms {
		add(r)
	}
	for _, b := range l.Blocks {
		add(b.Rect)
	}
	for _, e := range l.Enemies {
		add(geom.RectAround(e.Pos, enemyHalf, enemyHalf))
	}
	for _, c := range l.Collectibles {
		add(geom.RectAround(c, pickupHalf, pickupHalf))
	}
	return f, nil
}

func rgba(c uint32, a uint8) color.RGBA {
	r, g, b := components.RGB(c)
	return color.RGBA{r, g, b, a}
}

// Render draws l over the occupancy of occ, which may be nil.
func Render(l *level.Layout, occ Occupancy, opts Options) image.Image {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	b := opts.Bounds
	if b == (geom.Rect{}) {
		b = l.Bounds().Expand(boundsMargin)
	}
	sx := float64(opts.Width) / float64(max(b.Width(), 1))
	sy := float64(opts.Height) / float64(max(b.Height(), 1))

	// World rect to image rect.
	box := func(r geom.Rect) (x, y, w, h float64) {
		x = float64(r.Left-b.Left) * sx
		y = float64(r.Top-b.Top) * sy
		w = max(float64(r.Width())*sx, 1)
		h = max(float64(r.Height())*sy, 1)
		return
	}
	fill := func(dc *gg.Context, r geom.Rect, c color.Color) {
		dc.SetColor(c)
		dc.DrawRectangle(box(r))
		dc.Fill()
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(rgba(components.SkyColor, 255))
	dc.Clear()

	if occ != nil {
		drawOccupancy(dc, occ, b, fill)
	}

	for _, r := range l.Platforms {
		fill(dc, r, rgba(components.PlatformColor, 255))
	}
	for _, bl := range l.Blocks {
		fill(dc, bl.Rect, rgba(bl.Type.Color(), 255))
	}
	for _, e := range l.Enemies {
		fill(dc, geom.RectAround(e.Pos, opts.EnemyHalf, opts.EnemyHalf), rgba(e.Kind.Color(), 255))
	}
	for _, c := range l.Collectibles {
		fill(dc, geom.RectAround(c, opts.PickupHalf, opts.PickupHalf), rgba(components.CollectibleColor, 255))
	}

	// Player start marker.
	dc.SetColor(rgba(components.PlayerColor, 255))
	x, y, _, _ := box(geom.Rect{Left: l.PlayerStart.X, Top: l.PlayerStart.Y})
	dc.DrawCircle(x, y, 3)
	dc.Fill()

	return dc.Image()
}

// drawOccupancy shades each non-empty cell by its share of the fullest cell.
func drawOccupancy(dc *gg.Context, occ Occupancy, b geom.Rect, fill func(*gg.Context, geom.Rect, color.Color)) {
	dim, cellSize := occ.Dims()
	peak := 0
	for cy := 0; cy < dim; cy++ {
		for cx := 0; cx < dim; cx++ {
			peak = max(peak, occ.CellLen(cx, cy))
		}
	}

	for cy := 0; cy < dim; cy++ {
		for cx := 0; cx < dim; cx++ {
			cell := geom.Rect{
				Left: cx * cellSize, Top: cy * cellSize,
				Right: (cx + 1) * cellSize, Bottom: (cy + 1) * cellSize,
			}
			if !cell.Overlaps(b) {
				continue
			}
			if n := occ.CellLen(cx, cy); n > 0 {
				a := uint8(40 + 160*n/peak)
				fill(dc, cell, color.NRGBA{0, 0, 80, a})
			}
		}
	}
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}
