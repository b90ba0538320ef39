package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/spatial"
)

var testPlayerParams = PlayerParams{
	WalkSpeed:    4,
	JumpSpeed:    18,
	Gravity:      1,
	MaxFallSpeed: 20,
	SpeedFactor:  2,
	JumpFactor:   1.5,
}

var testEnemyParams = EnemyParams{
	Speed:             2,
	Gravity:           1,
	TurnDropThreshold: 20,
	FallKillY:         1200,
	StompDivisor:      4,
}

func settle(t *testing.T, p *Player, floors []geom.Rect) {
	t.Helper()
	for i := 0; i < 30 && !p.Grounded; i++ {
		p.Step(Controls{}, testPlayerParams, nil, floors)
	}
	require.True(t, p.Grounded, "player never landed")
}

func TestPlayerLandsAndStays(t *testing.T) {
	floors := []geom.Rect{{Left: 0, Top: 200, Right: 300, Bottom: 211}}
	p := NewPlayer(geom.Pt{X: 100, Y: 150})

	settle(t, &p, floors)
	assert.Equal(t, 200, p.Pos.Y)

	for i := 0; i < 10; i++ {
		p.Step(Controls{}, testPlayerParams, nil, floors)
		assert.True(t, p.Grounded)
		assert.Equal(t, 200, p.Pos.Y)
	}
}

func TestPlayerJumpAndWalk(t *testing.T) {
	floors := []geom.Rect{{Left: 0, Top: 200, Right: 300, Bottom: 211}}
	p := NewPlayer(geom.Pt{X: 100, Y: 190})
	settle(t, &p, floors)

	p.Step(Controls{Jump: true, Right: true}, testPlayerParams, nil, floors)
	assert.False(t, p.Grounded)
	assert.Equal(t, 183, p.Pos.Y)
	assert.Equal(t, 104, p.Pos.X)
	assert.Equal(t, geom.Pt{X: 100, Y: 200}, p.Last)

	// No double jump while airborne.
	vy := p.Vel.Y
	p.Step(Controls{Jump: true, Left: true}, testPlayerParams, nil, floors)
	assert.Equal(t, vy+1, p.Vel.Y)
	assert.True(t, p.FacingLeft)
}

func TestPlayerPowerUpMultipliers(t *testing.T) {
	floors := []geom.Rect{{Left: 0, Top: 200, Right: 1000, Bottom: 211}}
	fx := NewEffects([3]int{300, 240, 360})
	fx.Apply(components.Mushroom)
	fx.Apply(components.Feather)

	p := NewPlayer(geom.Pt{X: 100, Y: 190})
	settle(t, &p, floors)

	p.Step(Controls{Right: true, Jump: true}, testPlayerParams, fx, floors)
	assert.Equal(t, 108, p.Pos.X)
	assert.Equal(t, -26, p.Vel.Y) // -27 jump then gravity
}

func TestPlayerFallsOffEdge(t *testing.T) {
	floors := []geom.Rect{{Left: 0, Top: 200, Right: 100, Bottom: 211}}
	p := NewPlayer(geom.Pt{X: 98, Y: 190})
	settle(t, &p, floors)

	p.Step(Controls{Right: true}, testPlayerParams, nil, floors)
	assert.False(t, p.Grounded)
	assert.Greater(t, p.Pos.Y, 200)
}

func TestPlayerBonkAndBounce(t *testing.T) {
	p := NewPlayer(geom.Pt{X: 0, Y: 350})
	p.Vel.Y = -10
	p.Bonk(340)
	assert.Zero(t, p.Vel.Y)
	assert.Equal(t, 356, p.Pos.Y)

	p.Bounce(10)
	assert.Equal(t, -10, p.Vel.Y)

	p.Respawn(geom.Pt{X: 1, Y: 2}, 60)
	assert.Equal(t, geom.Pt{X: 1, Y: 2}, p.Pos)
	assert.Equal(t, 60, p.Invuln)
}

func TestEnemyLandsAndWalks(t *testing.T) {
	floors := []geom.Rect{{Left: 0, Top: 300, Right: 500, Bottom: 311}}
	pos := components.Position{X: 250, Y: 290}
	vel, en := NewEnemy(components.Goomba, 2)

	for i := 0; i < 20 && !en.Grounded; i++ {
		StepEnemy(&pos, &vel, &en, testEnemyParams, floors)
	}
	require.True(t, en.Grounded)
	assert.Equal(t, 300, pos.Y)

	x := pos.X
	StepEnemy(&pos, &vel, &en, testEnemyParams, floors)
	assert.Equal(t, x-2, pos.X)
	assert.Equal(t, 300, pos.Y)
	assert.True(t, en.MovingLeft)
}

func TestEnemyTurnsAtEdge(t *testing.T) {
	floors := []geom.Rect{{Left: 0, Top: 300, Right: 500, Bottom: 311}}
	pos := components.Position{X: 1, Y: 300}
	vel, en := NewEnemy(components.Goomba, 2)
	en.Grounded = true

	StepEnemy(&pos, &vel, &en, testEnemyParams, floors)
	assert.Equal(t, components.Position{X: 1, Y: 300}, pos)
	assert.False(t, en.MovingLeft)
	assert.Equal(t, 2, vel.X)

	StepEnemy(&pos, &vel, &en, testEnemyParams, floors)
	assert.Equal(t, 3, pos.X)
	assert.True(t, en.Grounded)
}

func TestEnemyDropThresholdTurns(t *testing.T) {
	pos := components.Position{X: 100, Y: 100}
	vel, en := NewEnemy(components.Goomba, 2)
	vel.Y = 25

	StepEnemy(&pos, &vel, &en, testEnemyParams, nil)
	assert.Equal(t, 100, pos.X)
	assert.Equal(t, 126, pos.Y)
	assert.False(t, en.MovingLeft)
}

func TestEnemyFallsOutOfWorld(t *testing.T) {
	pos := components.Position{X: 100, Y: 1195}
	vel, en := NewEnemy(components.Goomba, 2)
	vel.Y = 10

	StepEnemy(&pos, &vel, &en, testEnemyParams, nil)
	assert.False(t, en.Alive)

	// Dead enemies no longer move.
	frozen := pos
	StepEnemy(&pos, &vel, &en, testEnemyParams, nil)
	assert.Equal(t, frozen, pos)
}

func TestEnemyContact(t *testing.T) {
	pos := components.Position{X: 100, Y: 100}
	ext := components.Extent{HalfW: 6, HalfH: 6}

	tests := []struct {
		name        string
		feet        geom.Pt
		wantHit     bool
		wantStomped bool
	}{
		{"from above", geom.Pt{X: 100, Y: 96}, true, true},
		{"side on", geom.Pt{X: 110, Y: 105}, true, false},
		{"just below stomp line", geom.Pt{X: 100, Y: 97}, true, false},
		{"apart", geom.Pt{X: 200, Y: 100}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, stomped := EnemyContact(pos, ext, tt.feet, 4)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantStomped, stomped)
		})
	}
}

func TestEnemySystemUpdatesFinder(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap4[components.Position, components.Velocity, components.Extent, components.Enemy](w)
	finder := spatial.NewDefaultFinder[ecs.Entity]()
	ext := components.Extent{HalfW: 6, HalfH: 6}

	spawn := func(x, y int, alive bool) ecs.Entity {
		pos := components.Position{X: x, Y: y}
		vel, en := NewEnemy(components.Goomba, 2)
		en.Alive = alive
		e := mapper.NewEntity(&pos, &vel, &ext, &en)
		finder.Add(e, components.Bounds(pos, ext))
		return e
	}

	walker := spawn(250, 300, true)
	corpse := spawn(400, 300, false)

	sys := NewEnemySystem(w, testEnemyParams)
	floors := []geom.Rect{{Left: 0, Top: 300, Right: 500, Bottom: 311}}
	dead := sys.Update([]ecs.Entity{walker, corpse}, floors, finder)

	assert.Equal(t, []ecs.Entity{corpse}, dead)
	r, ok := finder.Rect(walker)
	require.True(t, ok)
	assert.Equal(t, geom.RectAround(geom.Pt{X: 248, Y: 300}, 6, 6), r)
}

func TestCollectibleBobs(t *testing.T) {
	origin := geom.Pt{X: 150, Y: 180}
	pos := components.Position{X: origin.X, Y: origin.Y}
	c := components.Collectible{Origin: origin}
	prm := BobParams{Amplitude: 8, Speed: 0.08}

	lo, hi := origin.Y, origin.Y
	for i := 0; i < 200; i++ {
		StepCollectible(&pos, &c, prm)
		lo, hi = min(lo, pos.Y), max(hi, pos.Y)
	}
	assert.Equal(t, origin.X, pos.X)
	assert.GreaterOrEqual(t, lo, origin.Y-8)
	assert.LessOrEqual(t, hi, origin.Y+8)
	assert.Greater(t, hi-lo, 10, "pickup should visibly bob")

	c.Collected = true
	frozen := pos
	StepCollectible(&pos, &c, prm)
	assert.Equal(t, frozen, pos)
	assert.Equal(t, 200, c.Frame)
}

func TestWithinPickup(t *testing.T) {
	item := geom.Pt{X: 100, Y: 100}
	assert.True(t, WithinPickup(item, geom.Pt{X: 114, Y: 86}, 15))
	assert.False(t, WithinPickup(item, geom.Pt{X: 115, Y: 100}, 15))
	assert.False(t, WithinPickup(item, geom.Pt{X: 100, Y: 115}, 15))
}

func TestEffectsLifecycle(t *testing.T) {
	fx := NewEffects([3]int{3, 2, 5})

	assert.Equal(t, 3, fx.Apply(components.Star))
	assert.True(t, fx.Active(components.Star))
	assert.False(t, fx.Active(components.Feather))

	assert.Empty(t, fx.Tick())
	assert.Equal(t, 2, fx.Remaining(components.Star))

	// Re-applying refreshes to the full duration.
	assert.Equal(t, 3, fx.Apply(components.Star))

	fx.Apply(components.Mushroom)
	assert.Empty(t, fx.Tick())
	assert.Equal(t, []components.PowerUpType{components.Mushroom}, fx.Tick())
	assert.Equal(t, []components.PowerUpType{components.Star}, fx.Tick())
	assert.False(t, fx.Active(components.Star))

	fx.Apply(components.Feather)
	fx.Clear()
	assert.False(t, fx.Active(components.Feather))
	assert.Equal(t, 5, fx.Duration(components.Feather))
}

func TestBlocks(t *testing.T) {
	prm := BlockParams{HitSlack: 10, BumpOffset: 5, SpawnAbove: 15}
	rect := geom.Rect{Left: 400, Top: 300, Right: 440, Bottom: 340}
	last, cur := geom.Pt{X: 420, Y: 345}, geom.Pt{X: 420, Y: 335}

	t.Run("question releases once", func(t *testing.T) {
		b := components.Block{Rect: rect, Type: components.Question, HasPowerUp: true, Contains: components.Star}
		require.True(t, HitFromBelow(&b, last, cur, prm))
		assert.Equal(t, -5, b.Offset)

		out, at := ActivateBlock(&b, prm)
		assert.Equal(t, BlockReleased, out)
		assert.Equal(t, geom.Pt{X: 420, Y: 285}, at)

		assert.False(t, HitFromBelow(&b, last, cur, prm))
		out, _ = ActivateBlock(&b, prm)
		assert.Equal(t, BlockNothing, out)

		for i := 0; i < 10; i++ {
			StepBlock(&b)
		}
		assert.Zero(t, b.Offset)
	})

	t.Run("brick breaks", func(t *testing.T) {
		b := components.Block{Rect: rect, Type: components.Brick}
		require.True(t, HitFromBelow(&b, last, cur, prm))
		out, _ := ActivateBlock(&b, prm)
		assert.Equal(t, BlockBroken, out)
	})

	t.Run("solid only bumps", func(t *testing.T) {
		b := components.Block{Rect: rect, Type: components.Solid}
		require.True(t, HitFromBelow(&b, last, cur, prm))
		out, _ := ActivateBlock(&b, prm)
		assert.Equal(t, BlockNothing, out)
		assert.False(t, b.Activated)
	})

	t.Run("misses", func(t *testing.T) {
		b := components.Block{Rect: rect, Type: components.Brick}
		assert.False(t, HitFromBelow(&b, geom.Pt{X: 420, Y: 339}, geom.Pt{X: 420, Y: 330}, prm), "already above bottom")
		assert.False(t, HitFromBelow(&b, geom.Pt{X: 460, Y: 345}, geom.Pt{X: 460, Y: 335}, prm), "outside slack")
		assert.True(t, HitFromBelow(&b, geom.Pt{X: 450, Y: 345}, geom.Pt{X: 450, Y: 335}, prm), "inside slack")
	})
}

func TestCrossedFloorDownwards(t *testing.T) {
	floor := geom.Rect{Left: 0, Top: 100, Right: 50, Bottom: 111}
	assert.True(t, CrossedFloorDownwards(floor, geom.Pt{X: 10, Y: 100}, geom.Pt{X: 10, Y: 101}))
	assert.False(t, CrossedFloorDownwards(floor, geom.Pt{X: 10, Y: 101}, geom.Pt{X: 10, Y: 105}))
	assert.False(t, CrossedFloorDownwards(floor, geom.Pt{X: 60, Y: 90}, geom.Pt{X: 60, Y: 105}))
}

func TestLandPicksHighestFloor(t *testing.T) {
	floors := []geom.Rect{
		{Left: 0, Top: 120, Right: 50, Bottom: 130},
		{Left: 0, Top: 105, Right: 50, Bottom: 115},
		{Left: 100, Top: 101, Right: 150, Bottom: 111},
	}
	cur := geom.Pt{X: 10, Y: 125}
	require.True(t, land(floors, geom.Pt{X: 10, Y: 100}, &cur))
	assert.Equal(t, 105, cur.Y)

	cur = geom.Pt{X: 10, Y: 104}
	assert.False(t, land(floors, geom.Pt{X: 10, Y: 100}, &cur))
	assert.Equal(t, 104, cur.Y)
}

func TestHeadCrossed(t *testing.T) {
	r := geom.Rect{Left: 400, Top: 300, Right: 440, Bottom: 340}
	cases := []struct {
		name      string
		last, cur geom.Pt
		want      bool
	}{
		{"through bottom", geom.Pt{X: 420, Y: 345}, geom.Pt{X: 420, Y: 335}, true},
		{"from the edge", geom.Pt{X: 420, Y: 340}, geom.Pt{X: 420, Y: 339}, true},
		{"falling", geom.Pt{X: 420, Y: 335}, geom.Pt{X: 420, Y: 345}, false},
		{"still below", geom.Pt{X: 420, Y: 350}, geom.Pt{X: 420, Y: 341}, false},
		{"left slack", geom.Pt{X: 390, Y: 345}, geom.Pt{X: 390, Y: 335}, true},
		{"beyond slack", geom.Pt{X: 389, Y: 345}, geom.Pt{X: 389, Y: 335}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeadCrossed(r, tc.last, tc.cur, 10))
		})
	}

	// Used question blocks still stop the head but no longer bump.
	b := components.Block{Rect: r, Type: components.Question, Activated: true}
	assert.True(t, HeadCrossed(b.Rect, geom.Pt{X: 420, Y: 345}, geom.Pt{X: 420, Y: 335}, 10))
	assert.False(t, HitFromBelow(&b, geom.Pt{X: 420, Y: 345}, geom.Pt{X: 420, Y: 335}, BlockParams{HitSlack: 10, BumpOffset: 5}))
	assert.Zero(t, b.Offset)
}
