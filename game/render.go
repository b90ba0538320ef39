package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/ui"
)

// Update reads the keyboard and runs one frame.
func (g *Game) Update() {
	g.handleViewKeys()
	g.Step(readInput())
	if !g.paused {
		g.particles.Step()
	}
	g.perf.RecordFrame()
}

// Draw renders the objects the camera sees, then the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(color(components.SkyColor))

	view := g.camera.Rect()
	if g.showGrid {
		g.drawGrid(view)
	}

	visible := make([]ui.FinderStatus, 0, 5)
	count := func(ix *index, n int) {
		visible = append(visible, ui.FinderStatus{Name: ix.name, Visible: n, Total: ix.Len()})
	}

	platforms := g.nearby(g.platforms, view)
	for _, e := range platforms {
		g.fillRect(g.platformMap.Get(e).Rect, color(components.PlatformColor))
	}
	count(g.platforms, len(platforms))

	blocks := g.nearby(g.blocks, view)
	for _, e := range blocks {
		b := g.blockMap.Get(e)
		c := b.Type.Color()
		if b.Activated {
			c = components.UsedBlockColor
		}
		g.fillRect(b.Rect.Translate(0, b.Offset), color(c))
	}
	count(g.blocks, len(blocks))

	pickups := g.nearby(g.collectibles, view)
	for _, e := range pickups {
		pos, ext, _ := g.pickupMapper.Get(e)
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, float32(ext.HalfW)*g.camera.Zoom, color(components.CollectibleColor))
	}
	count(g.collectibles, len(pickups))

	powerups := g.nearby(g.powerups, view)
	for _, e := range powerups {
		pos, ext, p := g.powerUpMapper.Get(e)
		g.fillRect(components.Bounds(*pos, *ext), color(p.Type.Color()))
	}
	count(g.powerups, len(powerups))

	enemies := g.nearby(g.enemies, view)
	for _, e := range enemies {
		pos, _, ext, en := g.enemyMapper.Get(e)
		g.fillRect(components.Bounds(*pos, *ext), color(en.Kind.Color()))
	}
	count(g.enemies, len(enemies))

	g.particles.Draw(func(x, y float32) (float32, float32) {
		return g.camera.WorldToScreen(int(x), int(y))
	}, g.camera.Zoom)
	g.drawPlayer()

	g.drawInspector()

	if g.hud != nil {
		act := g.hud.Draw(ui.HUDData{
			Score:        g.score,
			Lives:        g.lives,
			Collected:    g.collected,
			Tick:         g.tick,
			FPS:          rl.GetFPS(),
			Paused:       g.paused,
			Finished:     g.finished,
			ShowGrid:     g.showGrid,
			Effects:      g.effectStatus(),
			Finders:      visible,
			ScreenWidth:  int32(rl.GetScreenWidth()),
			ScreenHeight: int32(rl.GetScreenHeight()),
		})
		if act.TogglePause {
			g.paused = !g.paused
		}
		if act.ToggleGrid {
			g.showGrid = !g.showGrid
		}
	}

	rl.EndDrawing()
}

// drawInspector shows the selected object's components in the lower left.
func (g *Game) drawInspector() {
	finder, e, ok := g.inspector.Selected()
	if !ok {
		return
	}
	sections, alive := g.inspect(finder, e)
	if !alive {
		g.inspector.Deselect()
		return
	}
	h := g.inspector.Height(sections)
	g.inspector.Draw(8, int32(rl.GetScreenHeight())-h-28, sections)
}

func color(c uint32) rl.Color {
	r, gr, b := components.RGB(c)
	return rl.NewColor(r, gr, b, 255)
}

// fillRect draws a world rectangle.
func (g *Game) fillRect(r geom.Rect, c rl.Color) {
	x, y := g.camera.WorldToScreen(r.Left, r.Top)
	z := g.camera.Zoom
	rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: float32(r.Width()) * z, Y: float32(r.Height()) * z}, c)
}

func (g *Game) drawPlayer() {
	// Blink while immune after a hit.
	if g.player.Invuln > 0 && (g.player.Invuln/4)%2 == 0 {
		return
	}
	c := color(components.PlayerColor)
	for _, t := range components.PowerUpTypes {
		if g.effects.Active(t) {
			c = color(t.Color())
			break
		}
	}
	g.fillRect(g.player.Rect(), c)
}

// drawGrid outlines the finder cells in view and labels each non-empty
// cell with its enemy count.
func (g *Game) drawGrid(view geom.Rect) {
	dim, cell := g.enemies.Dims()
	lineColor := rl.Fade(rl.White, 0.4)
	for cx := max(view.Left/cell, 0); cx <= min(view.Right/cell, dim-1); cx++ {
		for cy := max(view.Top/cell, 0); cy <= min(view.Bottom/cell, dim-1); cy++ {
			x, y := g.camera.WorldToScreen(cx*cell, cy*cell)
			size := float32(cell) * g.camera.Zoom
			rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 1, lineColor)
			if n := g.enemies.CellLen(cx, cy); n > 0 {
				rl.DrawText(fmt.Sprintf("%d", n), int32(x)+4, int32(y)+4, 12, rl.White)
			}
		}
	}
}

func (g *Game) effectStatus() []ui.EffectStatus {
	var out []ui.EffectStatus
	for _, t := range components.PowerUpTypes {
		if !g.effects.Active(t) {
			continue
		}
		out = append(out, ui.EffectStatus{
			Name:      t.String(),
			Remaining: g.effects.Remaining(t),
			Duration:  g.effects.Duration(t),
			Color:     color(t.Color()),
		})
	}
	return out
}
