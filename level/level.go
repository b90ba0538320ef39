// Package level describes level content: where platforms, enemies, blocks
// and pickups start. Layouts are generated procedurally or read from
// msgpack level files.
package level

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/geom"
)

// ErrInvalidLayout is returned for layouts that cannot be played.
var ErrInvalidLayout = errors.New("level: invalid layout")

// EnemySpec places one enemy.
type EnemySpec struct {
	Pos  geom.Pt              `msgpack:"pos"`
	Kind components.EnemyKind `msgpack:"kind"`
}

// BlockSpec places one special block.
type BlockSpec struct {
	Rect       geom.Rect              `msgpack:"rect"`
	Type       components.BlockType   `msgpack:"type"`
	HasPowerUp bool                   `msgpack:"has_powerup"`
	Contains   components.PowerUpType `msgpack:"contains"`
}

// Layout is the initial content of a level.
type Layout struct {
	Name         string      `msgpack:"name"`
	PlayerStart  geom.Pt     `msgpack:"player_start"`
	Platforms    []geom.Rect `msgpack:"platforms"`
	Enemies      []EnemySpec `msgpack:"enemies"`
	Blocks       []BlockSpec `msgpack:"blocks"`
	Collectibles []geom.Pt   `msgpack:"collectibles"`
}

func platform(left, right, top, bottom int) geom.Rect {
	return geom.Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Generate builds the standard level: three starting platforms followed by
// a long staircase of platforms with enemies, blocks and pickups spread
// along it.
func Generate(lc config.LevelConfig, start geom.Pt) *Layout {
	l := &Layout{Name: "generated", PlayerStart: start}

	l.Platforms = append(l.Platforms,
		platform(100, 300, 200, 211),
		platform(0, 200, 250, 261),
		platform(250, 400, 150, 161),
	)
	for i := 1; i < lc.Platforms; i++ {
		x := 250 + i*250
		y := 400 + (i%10)*50
		l.Platforms = append(l.Platforms, platform(x, x+150, y, y+11))
	}

	for i := 2; i < lc.Enemies; i++ {
		l.Enemies = append(l.Enemies, EnemySpec{
			Pos:  geom.Pt{X: 300 + i*400, Y: 350 + (i%10)*50},
			Kind: components.Goomba,
		})
	}

	l.Blocks = append(l.Blocks,
		BlockSpec{Rect: platform(400, 440, 300, 340), Type: components.Question, HasPowerUp: true, Contains: components.Star},
		BlockSpec{Rect: platform(600, 640, 280, 320), Type: components.Question, HasPowerUp: true, Contains: components.Mushroom},
		BlockSpec{Rect: platform(800, 840, 260, 300), Type: components.Question, HasPowerUp: true, Contains: components.Feather},
	)
	for i := 5; i < lc.Bricks; i++ {
		x := 200 + i*350
		y := 250 + (i%5)*60
		l.Blocks = append(l.Blocks, BlockSpec{Rect: platform(x, x+40, y, y+40), Type: components.Brick})
	}

	l.Collectibles = append(l.Collectibles,
		geom.Pt{X: 150, Y: 180},
		geom.Pt{X: 200, Y: 240},
		geom.Pt{X: 100, Y: 360},
	)
	for i := 1; i < lc.Collectibles; i++ {
		l.Collectibles = append(l.Collectibles, geom.Pt{X: 300 + i*300, Y: 350 + (i%10)*50})
		if i%3 == 0 {
			l.Collectibles = append(l.Collectibles, geom.Pt{X: 350 + i*300, Y: 300 + (i%8)*50})
		}
	}

	return l
}

// Validate checks that every rectangle is well formed and every enum is known.
func (l *Layout) Validate() error {
	var errs []error
	for i, r := range l.Platforms {
		if !r.Valid() {
			errs = append(errs, fmt.Errorf("platform %d: inverted rect %+v", i, r))
		}
	}
	for i, e := range l.Enemies {
		if e.Kind > components.Koopa {
			errs = append(errs, fmt.Errorf("enemy %d: unknown kind %d", i, e.Kind))
		}
	}
	for i, b := range l.Blocks {
		if !b.Rect.Valid() {
			errs = append(errs, fmt.Errorf("block %d: inverted rect %+v", i, b.Rect))
		}
		if b.Type > components.Solid {
			errs = append(errs, fmt.Errorf("block %d: unknown type %d", i, b.Type))
		}
		if b.HasPowerUp && b.Contains > components.Feather {
			errs = append(errs, fmt.Errorf("block %d: unknown power-up %d", i, b.Contains))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidLayout, errors.Join(errs...))
}

// Bounds returns the smallest rectangle enclosing every platform and block.
func (l *Layout) Bounds() geom.Rect {
	b := geom.Rect{Left: l.PlayerStart.X, Top: l.PlayerStart.Y, Right: l.PlayerStart.X, Bottom: l.PlayerStart.Y}
	grow := func(r geom.Rect) {
		b.Left = min(b.Left, r.Left)
		b.Top = min(b.Top, r.Top)
		b.Right = max(b.Right, r.Right)
		b.Bottom = max(b.Bottom, r.Bottom)
	}
	for _, r := range l.Platforms {
		grow(r)
	}
	for _, bl := range l.Blocks {
		grow(bl.Rect)
	}
	return b
}

// Encode writes l as msgpack.
func (l *Layout) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(l); err != nil {
		return fmt.Errorf("encoding level: %w", err)
	}
	return nil
}

// Decode reads and validates a msgpack layout.
func Decode(r io.Reader) (*Layout, error) {
	var l Layout
	if err := msgpack.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveFile writes l to path.
func (l *Layout) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating level file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := l.Encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing level file: %w", err)
	}
	return f.Close()
}

// LoadFile reads a level from path.
func LoadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening level file: %w", err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
