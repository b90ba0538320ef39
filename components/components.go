// Package components defines ECS components for level entities.
package components

import "github.com/pthm-cable/scroller/geom"

// Position represents an entity's world position (sprite centre).
type Position struct {
	X, Y int
}

// Pt returns the position as a point.
func (p Position) Pt() geom.Pt {
	return geom.Pt{X: p.X, Y: p.Y}
}

// Velocity represents an entity's per-frame displacement.
type Velocity struct {
	X, Y int
}

// Extent is the half-size of an entity's bounding box around its Position.
type Extent struct {
	HalfW, HalfH int
}

// Bounds returns the bounding rectangle of an entity at pos with extent ext.
func Bounds(pos Position, ext Extent) geom.Rect {
	return geom.RectAround(pos.Pt(), ext.HalfW, ext.HalfH)
}

// Platform is a static floor. Its rectangle never changes after creation.
type Platform struct {
	Rect geom.Rect
}

// EnemyKind selects enemy appearance.
type EnemyKind uint8

const (
	Goomba EnemyKind = iota
	Koopa
)

func (k EnemyKind) String() string {
	switch k {
	case Goomba:
		return "goomba"
	case Koopa:
		return "koopa"
	default:
		return "unknown"
	}
}

// Enemy holds walking enemy state.
type Enemy struct {
	Kind       EnemyKind
	Alive      bool
	MovingLeft bool
	Grounded   bool // Landed on a floor during the last update
	Frame      int
}

// Collectible holds a floating pickup. Origin is the rest position the
// pickup bobs around.
type Collectible struct {
	Origin    geom.Pt
	Frame     int
	Collected bool `inspect:"skip"`
}

// PowerUpType identifies a timed effect.
type PowerUpType uint8

const (
	Star     PowerUpType = iota // Invincibility
	Mushroom                    // Walk speed
	Feather                     // Jump height
)

// PowerUpTypes lists every power-up type in display order.
var PowerUpTypes = [...]PowerUpType{Star, Mushroom, Feather}

func (t PowerUpType) String() string {
	switch t {
	case Star:
		return "star"
	case Mushroom:
		return "mushroom"
	case Feather:
		return "feather"
	default:
		return "unknown"
	}
}

// PowerUp holds a spawned power-up waiting to be picked up.
type PowerUp struct {
	Type      PowerUpType
	Frame     int
	Collected bool `inspect:"skip"`
}

// BlockType selects special block behaviour.
type BlockType uint8

const (
	Question BlockType = iota // Releases its power-up once
	Brick                     // Breaks when hit
	Solid                     // Never reacts
)

func (t BlockType) String() string {
	switch t {
	case Question:
		return "question"
	case Brick:
		return "brick"
	case Solid:
		return "solid"
	default:
		return "unknown"
	}
}

// Block holds a special block. Blocks also act as floors.
type Block struct {
	Rect       geom.Rect
	Type       BlockType
	Activated  bool
	Offset     int // Bump animation, negative while recovering from a hit
	HasPowerUp bool
	Contains   PowerUpType
}
