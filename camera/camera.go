// Package camera provides the 2D follow camera that defines the visible
// region of the level.
package camera

import (
	"math"

	"github.com/pthm-cable/scroller/geom"
)

// Camera controls the viewport into the level.
// World coordinates are integers with Y growing downward.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y int

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH int

	// Fraction of the viewport the target may stray from centre before the
	// camera moves.
	DeadZone float64

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera whose view starts at the world origin with 1:1 zoom.
func New(viewportW, viewportH int, deadZone float64) *Camera {
	return &Camera{
		X:         viewportW / 2,
		Y:         viewportH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		DeadZone:  deadZone,
		MinZoom:   0.25,
		MaxZoom:   4.0,
	}
}

// Center returns the camera position.
func (c *Camera) Center() geom.Pt {
	return geom.Pt{X: c.X, Y: c.Y}
}

// halfExtent returns half the visible area in world units.
func (c *Camera) halfExtent() (int, int) {
	return int(float32(c.ViewportW) / (2 * c.Zoom)), int(float32(c.ViewportH) / (2 * c.Zoom))
}

// Rect returns the visible world rectangle.
func (c *Camera) Rect() geom.Rect {
	halfW, halfH := c.halfExtent()
	return geom.Rect{
		Left:   c.X - halfW,
		Top:    c.Y - halfH,
		Right:  c.X + halfW,
		Bottom: c.Y + halfH,
	}
}

// Expanded returns the visible rectangle grown by margin on every side.
func (c *Camera) Expanded(margin int) geom.Rect {
	return c.Rect().Expand(margin)
}

// Move shifts the camera by a world-space delta.
func (c *Camera) Move(dx, dy int) {
	c.X += dx
	c.Y += dy
}

// Follow moves the camera just enough to keep target inside the dead zone
// and returns the applied delta.
func (c *Camera) Follow(target geom.Pt) (dx, dy int) {
	halfW, halfH := c.halfExtent()
	zoneW := int(float64(2*halfW) * c.DeadZone)
	zoneH := int(float64(2*halfH) * c.DeadZone)

	left, right := c.X-zoneW, c.X+zoneW
	top, bottom := c.Y-zoneH, c.Y+zoneH

	if target.X > right {
		dx = target.X - right
	} else if target.X < left {
		dx = target.X - left
	}
	if target.Y < top {
		dy = target.Y - top
	} else if target.Y > bottom {
		dy = target.Y - bottom
	}

	c.Move(dx, dy)
	return dx, dy
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy float32) {
	sx = float32(c.ViewportW)/2 + float32(wx-c.X)*c.Zoom
	sy = float32(c.ViewportH)/2 + float32(wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy int) {
	dx := (sx - float32(c.ViewportW)/2) / c.Zoom
	dy := (sy - float32(c.ViewportH)/2) / c.Zoom
	wx = c.X + int(math.Round(float64(dx)))
	wy = c.Y + int(math.Round(float64(dy)))
	return wx, wy
}

// IsVisible returns true if a rectangle overlaps the visible area.
func (c *Camera) IsVisible(r geom.Rect) bool {
	return c.Rect().Overlaps(r)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH int) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centres the camera on p with 1:1 zoom.
func (c *Camera) Reset(p geom.Pt) {
	c.X, c.Y = p.X, p.Y
	c.Zoom = 1.0
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
