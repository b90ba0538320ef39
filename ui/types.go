// Package ui draws the heads-up display over the level view.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	AlertColor     rl.Color
	BarBg          rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 200},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		AlertColor:     rl.Red,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		Padding:        8,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// EffectStatus describes one running power-up effect.
type EffectStatus struct {
	Name      string
	Remaining int
	Duration  int
	Color     rl.Color
}

// FinderStatus is the visible share of one spatial index.
type FinderStatus struct {
	Name    string
	Visible int
	Total   int
}
