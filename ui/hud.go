package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score        int
	Lives        int
	Collected    int
	Tick         int32
	FPS          int32
	Paused       bool
	Finished     bool
	ShowGrid     bool
	Effects      []EffectStatus
	Finders      []FinderStatus
	ScreenWidth  int32
	ScreenHeight int32
}

// HUDAction reports which HUD buttons were clicked this frame.
type HUDAction struct {
	TogglePause bool
	ToggleGrid  bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

const (
	buttonW = 70
	buttonH = 22
)

// Draw renders the HUD and its buttons.
func (h *HUD) Draw(data HUDData) HUDAction {
	r := h.renderer
	pad := r.Theme.Padding

	rl.DrawText(fmt.Sprintf("SCORE %06d", data.Score), pad, pad, 20, rl.White)
	livesColor := r.Theme.ValueColor
	if data.Lives <= 1 {
		livesColor = r.Theme.AlertColor
	}
	rl.DrawText(fmt.Sprintf("LIVES %d", data.Lives), pad, pad+22, 16, livesColor)
	rl.DrawText(fmt.Sprintf("COINS %d", data.Collected), pad+80, pad+22, 16, r.Theme.ValueColor)

	y := pad + 44
	for _, e := range data.Effects {
		y = r.DrawTimerBar(pad, y, e.Name, e.Remaining, e.Duration, e.Color, 200)
	}

	h.drawFinderPanel(data)

	status := ""
	switch {
	case data.Finished:
		status = "GAME OVER"
	case data.Paused:
		status = "PAUSED"
	}
	if status != "" {
		w := rl.MeasureText(status, 30)
		rl.DrawText(status, (data.ScreenWidth-w)/2, data.ScreenHeight/2-15, 30, rl.Yellow)
	}

	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS), pad, data.ScreenHeight-20, 12, rl.DarkGray)

	var act HUDAction
	bx := float32(data.ScreenWidth - 2*buttonW - 2*pad)
	by := float32(data.ScreenHeight - buttonH - pad)
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: buttonW, Height: buttonH}, toggleText(data.Paused, "Resume", "Pause")) {
		act.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: bx + buttonW + float32(pad), Y: by, Width: buttonW, Height: buttonH}, toggleText(data.ShowGrid, "Hide grid", "Grid")) {
		act.ToggleGrid = true
	}
	return act
}

// drawFinderPanel lists visible/total objects per spatial index.
func (h *HUD) drawFinderPanel(data HUDData) {
	if len(data.Finders) == 0 {
		return
	}
	r := h.renderer
	width := int32(190)
	height := r.Theme.LineHeight*int32(len(data.Finders)+1) + 2*r.Theme.Padding
	x := data.ScreenWidth - width - r.Theme.Padding
	y := r.Theme.Padding

	r.DrawPanel(x, y, width, height)
	ty := r.DrawSectionHeader(x+r.Theme.Padding, y+r.Theme.Padding, "Visible")
	for _, f := range data.Finders {
		ty = r.DrawLabelValue(x+r.Theme.Padding, ty, f.Name, finderText(f))
	}
}

func finderText(f FinderStatus) string {
	return fmt.Sprintf("%d / %d", f.Visible, f.Total)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
