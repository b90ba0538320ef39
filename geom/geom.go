// Package geom provides the integer point and rectangle types shared by the
// spatial index, the camera and every entity in the level.
package geom

// Pt is a point in world coordinates. Y grows downward.
type Pt struct {
	X, Y int
}

// Add returns p translated by o.
func (p Pt) Add(o Pt) Pt {
	return Pt{X: p.X + o.X, Y: p.Y + o.Y}
}

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectAround returns the rectangle centered on c extending halfW and halfH
// in each direction.
func RectAround(c Pt, halfW, halfH int) Rect {
	return Rect{
		Left:   c.X - halfW,
		Top:    c.Y - halfH,
		Right:  c.X + halfW,
		Bottom: c.Y + halfH,
	}
}

// Overlaps reports whether r and o share at least one point.
// Touching edges count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.Right < o.Left || r.Left > o.Right ||
		r.Bottom < o.Top || r.Top > o.Bottom)
}

// Contains reports whether p lies inside r, bounds included.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Expand grows r by margin on every side. A negative margin shrinks it.
func (r Rect) Expand(margin int) Rect {
	return Rect{
		Left:   r.Left - margin,
		Top:    r.Top - margin,
		Right:  r.Right + margin,
		Bottom: r.Bottom + margin,
	}
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Width is the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height is the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Center returns the midpoint of r, rounded toward the top-left.
func (r Rect) Center() Pt {
	return Pt{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Valid reports whether r has non-negative extent on both axes.
func (r Rect) Valid() bool {
	return r.Left <= r.Right && r.Top <= r.Bottom
}
