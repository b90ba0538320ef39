package systems

import (
	"math"

	"github.com/pthm-cable/scroller/components"
)

// BobParams holds the floating animation of pickups.
type BobParams struct {
	Amplitude float64
	Speed     float64
}

// StepCollectible advances the bobbing animation of an uncollected pickup.
func StepCollectible(pos *components.Position, c *components.Collectible, prm BobParams) {
	if c.Collected {
		return
	}
	c.Frame++
	offset := math.Sin(float64(c.Frame)*prm.Speed) * prm.Amplitude
	pos.X = c.Origin.X
	pos.Y = c.Origin.Y + int(offset)
}

// StepPowerUp advances a spawned power-up's animation frame.
func StepPowerUp(p *components.PowerUp) {
	if p.Collected {
		return
	}
	p.Frame++
}
