package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/inspector"
)

// pickRadius is the half-size of the square searched around a click.
const pickRadius = 3

// pick returns the topmost object at the world point p, searching the
// indexes in drawing order from front to back.
func (g *Game) pick(p geom.Pt) (*index, ecs.Entity, bool) {
	r := geom.RectAround(p, pickRadius, pickRadius)
	for _, ix := range []*index{g.enemies, g.powerups, g.collectibles, g.blocks, g.platforms} {
		if found := g.nearby(ix, r); len(found) > 0 {
			return ix, found[0], true
		}
	}
	return nil, ecs.Entity{}, false
}

// inspect describes the components of e, registered in the named index.
// It reports false once the entity is gone.
func (g *Game) inspect(finder string, e ecs.Entity) ([]inspector.Section, bool) {
	if !g.world.Alive(e) {
		return nil, false
	}
	switch finder {
	case g.platforms.name:
		return []inspector.Section{inspector.NewSection("Platform", g.platformMap.Get(e))}, true
	case g.blocks.name:
		return []inspector.Section{inspector.NewSection("Block", g.blockMap.Get(e))}, true
	case g.enemies.name:
		pos, vel, _, en := g.enemyMapper.Get(e)
		return []inspector.Section{
			inspector.NewSection("Position", pos),
			inspector.NewSection("Velocity", vel),
			inspector.NewSection("Enemy", en),
		}, true
	case g.collectibles.name:
		pos, _, c := g.pickupMapper.Get(e)
		return []inspector.Section{
			inspector.NewSection("Position", pos),
			inspector.NewSection("Collectible", c),
		}, true
	case g.powerups.name:
		pos, _, p := g.powerUpMapper.Get(e)
		return []inspector.Section{
			inspector.NewSection("Position", pos),
			inspector.NewSection("PowerUp", p),
		}, true
	}
	return nil, false
}

// selectAt selects the object under the world point p, or clears the
// selection when there is none.
func (g *Game) selectAt(p geom.Pt) {
	ix, e, ok := g.pick(p)
	if !ok {
		g.inspector.Deselect()
		return
	}
	g.inspector.Select(ix.name, e)
}
