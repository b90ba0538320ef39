package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/scroller/geom"
)

// Input is the keyboard state for one frame.
type Input struct {
	Left, Right, Jump bool
	Pause             bool // held, toggles on press
	Quit              bool
}

// readInput samples the keyboard. Arrow keys and WASD both work.
func readInput() Input {
	return Input{
		Left:  rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA),
		Right: rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD),
		Jump:  rl.IsKeyDown(rl.KeySpace) || rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW),
		Pause: rl.IsKeyDown(rl.KeyP),
		Quit:  rl.IsKeyDown(rl.KeyEscape),
	}
}

// handleViewKeys processes keys that only affect the view.
func (g *Game) handleViewKeys() {
	if rl.IsKeyPressed(rl.KeyG) {
		g.showGrid = !g.showGrid
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		g.camera.SetZoom(1)
	}

	if rl.IsWindowResized() {
		g.camera.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	}

	// Left click inspects, right click closes the inspector.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		wx, wy := g.camera.ScreenToWorld(m.X, m.Y)
		g.selectAt(geom.Pt{X: wx, Y: wy})
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.inspector.Deselect()
	}
}
