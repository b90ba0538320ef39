// Package systems contains per-frame entity behaviour.
package systems

import "github.com/pthm-cable/scroller/geom"

// Player collision box relative to the feet position.
const (
	PlayerHalfWidth = 6
	PlayerHeight    = 15
	PlayerFootDepth = 1
)

// PlayerRect returns the collision box of a player standing at feet.
func PlayerRect(feet geom.Pt) geom.Rect {
	return geom.Rect{
		Left:   feet.X - PlayerHalfWidth,
		Top:    feet.Y - PlayerHeight,
		Right:  feet.X + PlayerHalfWidth,
		Bottom: feet.Y + PlayerFootDepth,
	}
}

// PlayerHead returns the top-centre point of a player standing at feet.
func PlayerHead(feet geom.Pt) geom.Pt {
	return geom.Pt{X: feet.X, Y: feet.Y - PlayerHeight}
}

// CrossedFloorDownwards reports whether a point moving from last to cur
// passed through the top edge of floor while inside its horizontal extent.
func CrossedFloorDownwards(floor geom.Rect, last, cur geom.Pt) bool {
	return last.Y <= floor.Top && cur.Y > floor.Top &&
		cur.X >= floor.Left && cur.X <= floor.Right
}

// land snaps cur onto the highest floor crossed between last and cur.
func land(floors []geom.Rect, last geom.Pt, cur *geom.Pt) bool {
	top, grounded := 0, false
	for _, f := range floors {
		if CrossedFloorDownwards(f, last, *cur) && (!grounded || f.Top < top) {
			top, grounded = f.Top, true
		}
	}
	if grounded {
		cur.Y = top
	}
	return grounded
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// WithinPickup reports whether a pickup at item is close enough to the
// player's feet to be collected.
func WithinPickup(item, feet geom.Pt, radius int) bool {
	return abs(item.X-feet.X) < radius && abs(item.Y-feet.Y) < radius
}
