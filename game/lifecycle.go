package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/level"
	"github.com/pthm-cable/scroller/systems"
	"github.com/pthm-cable/scroller/telemetry"
)

// load creates an entity for every object of l and registers it with its index.
func (g *Game) load(l *level.Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	g.levelName = l.Name
	g.start = l.PlayerStart
	g.player = systems.NewPlayer(l.PlayerStart)
	g.home = g.camera.Center()

	for _, r := range l.Platforms {
		g.spawnPlatform(r)
	}
	for _, b := range l.Blocks {
		g.spawnBlock(components.Block{
			Rect:       b.Rect,
			Type:       b.Type,
			HasPowerUp: b.HasPowerUp,
			Contains:   b.Contains,
		})
	}
	for _, e := range l.Enemies {
		g.spawnEnemy(e.Pos, e.Kind)
	}
	for _, c := range l.Collectibles {
		g.spawnCollectible(c)
	}
	return nil
}

func (g *Game) spawnPlatform(r geom.Rect) ecs.Entity {
	p := components.Platform{Rect: r}
	e := g.platformMap.NewEntity(&p)
	g.platforms.Add(e, r)
	return e
}

func (g *Game) spawnBlock(b components.Block) ecs.Entity {
	e := g.blockMap.NewEntity(&b)
	g.blocks.Add(e, b.Rect)
	return e
}

func (g *Game) spawnEnemy(at geom.Pt, kind components.EnemyKind) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	ext := components.Extent{HalfW: g.cfg.Enemy.HalfSize, HalfH: g.cfg.Enemy.HalfSize}
	vel, en := systems.NewEnemy(kind, g.cfg.Enemy.Speed)
	e := g.enemyMapper.NewEntity(&pos, &vel, &ext, &en)
	g.enemies.Add(e, components.Bounds(pos, ext))
	return e
}

func (g *Game) spawnCollectible(at geom.Pt) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	ext := components.Extent{HalfW: g.cfg.Collectible.HalfSize, HalfH: g.cfg.Collectible.HalfSize}
	c := components.Collectible{Origin: at}
	e := g.pickupMapper.NewEntity(&pos, &ext, &c)
	g.collectibles.Add(e, components.Bounds(pos, ext))
	return e
}

func (g *Game) spawnPowerUp(at geom.Pt, t components.PowerUpType) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	ext := components.Extent{HalfW: g.cfg.PowerUps.HalfSize, HalfH: g.cfg.PowerUps.HalfSize}
	p := components.PowerUp{Type: t}
	e := g.powerUpMapper.NewEntity(&pos, &ext, &p)
	g.powerups.Add(e, components.Bounds(pos, ext))
	return e
}

// despawn unregisters e from ix before destroying it, so the index never
// holds an entity the world no longer has.
func (g *Game) despawn(ix *index, e ecs.Entity) {
	ix.Remove(e)
	if g.world.Alive(e) {
		g.world.RemoveEntity(e)
	}
}

// loseLife costs the player a life. Returns true if the game is over.
func (g *Game) loseLife(cause string) bool {
	g.lives--
	if g.lives <= 0 {
		g.finished = true
		g.emit(telemetry.EventGameOver, g.player.Pos, 0, cause)
		return true
	}
	return false
}

// respawn puts the player back at the level start after a fall.
func (g *Game) respawn() {
	g.player.Respawn(g.start, g.cfg.Player.HurtInvulnFrames)
	g.effects.Clear()
	g.camera.Reset(g.home)
	if g.particles != nil {
		g.particles.Clear()
	}
}

// checkIndexes verifies that every index holds exactly the live entities
// of its category.
func (g *Game) checkIndexes() error {
	var errs []error
	check := func(ix *index, live []ecs.Entity) {
		for _, e := range live {
			if !ix.Contains(e) {
				errs = append(errs, fmt.Errorf("%s: entity %v not indexed", ix.name, e))
			}
		}
		if len(live) != ix.Len() {
			errs = append(errs, fmt.Errorf("%s: %d indexed, %d in world", ix.name, ix.Len(), len(live)))
		}
	}

	var live []ecs.Entity
	eq := g.enemyFilter.Query()
	for eq.Next() {
		live = append(live, eq.Entity())
	}
	check(g.enemies, live)

	live = live[:0]
	cq := g.pickupFilter.Query()
	for cq.Next() {
		live = append(live, cq.Entity())
	}
	check(g.collectibles, live)

	live = live[:0]
	pq := g.powerUpFilter.Query()
	for pq.Next() {
		live = append(live, pq.Entity())
	}
	check(g.powerups, live)

	return errors.Join(errs...)
}
