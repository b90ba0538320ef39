package systems

import (
	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
)

// BlockParams holds special block tuning.
type BlockParams struct {
	HitSlack   int
	BumpOffset int
	SpawnAbove int
}

// BlockOutcome is what hitting a block produced.
type BlockOutcome uint8

const (
	BlockNothing  BlockOutcome = iota
	BlockReleased              // A power-up appeared above the block
	BlockBroken                // The block is gone
)

// StepBlock recovers the bump animation by one pixel per frame.
func StepBlock(b *components.Block) {
	if b.Offset < 0 {
		b.Offset++
	}
}

// HeadCrossed reports whether a head moving from last to cur passed upward
// through the underside of r, within slack of its horizontal extent.
func HeadCrossed(r geom.Rect, last, cur geom.Pt, slack int) bool {
	return last.Y >= r.Bottom && cur.Y < r.Bottom &&
		cur.X >= r.Left-slack && cur.X <= r.Right+slack
}

// HitFromBelow reports whether a head moving from last to cur struck the
// underside of b, and starts the bump animation if so. Used question
// blocks no longer react.
func HitFromBelow(b *components.Block, last, cur geom.Pt, prm BlockParams) bool {
	if b.Activated && b.Type == components.Question {
		return false
	}
	if !HeadCrossed(b.Rect, last, cur, prm.HitSlack) {
		return false
	}
	b.Offset = -prm.BumpOffset
	return true
}

// ActivateBlock applies a hit to b. For BlockReleased the returned point is
// where the power-up spawns.
func ActivateBlock(b *components.Block, prm BlockParams) (BlockOutcome, geom.Pt) {
	if b.Activated {
		return BlockNothing, geom.Pt{}
	}

	switch b.Type {
	case components.Question:
		b.Activated = true
		if b.HasPowerUp {
			return BlockReleased, geom.Pt{
				X: (b.Rect.Left + b.Rect.Right) / 2,
				Y: b.Rect.Top - prm.SpawnAbove,
			}
		}
	case components.Brick:
		b.Activated = true
		return BlockBroken, geom.Pt{}
	}
	return BlockNothing, geom.Pt{}
}
