// Package inspector shows the components of a clicked level object.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scroller/ui"
)

// Panel dimensions
const (
	PanelWidth   = 220
	HeaderHeight = 24
)

// Section is one component of the selected entity.
type Section struct {
	Title  string
	Fields []Field
}

// NewSection builds a section from a component value.
func NewSection(title string, component any) Section {
	return Section{Title: title, Fields: ExtractFields(component)}
}

// Inspector tracks the selected entity and draws its panel.
type Inspector struct {
	selected    ecs.Entity
	finder      string
	hasSelected bool
	renderer    *ui.Renderer
}

// New creates an inspector with nothing selected.
func New() *Inspector {
	return &Inspector{renderer: ui.NewRenderer()}
}

// Select makes e, found in the named finder, the inspected entity.
func (ins *Inspector) Select(finder string, e ecs.Entity) {
	ins.selected = e
	ins.finder = finder
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.finder = ""
}

// Selected returns the selected entity and the finder it was found in.
func (ins *Inspector) Selected() (string, ecs.Entity, bool) {
	return ins.finder, ins.selected, ins.hasSelected
}

// Height returns the panel height needed for sections.
func (ins *Inspector) Height(sections []Section) int32 {
	lines := int32(0)
	for _, s := range sections {
		lines += 1 + int32(len(s.Fields))
	}
	t := ins.renderer.Theme
	return HeaderHeight + lines*t.LineHeight + 2*t.Padding
}

// Draw renders the panel at (x, y). It draws nothing without a selection.
func (ins *Inspector) Draw(x, y int32, sections []Section) {
	if !ins.hasSelected {
		return
	}
	r := ins.renderer
	pad := r.Theme.Padding

	r.DrawPanel(x, y, PanelWidth, ins.Height(sections))
	rl.DrawText(fmt.Sprintf("%s #%d", ins.finder, ins.selected.ID()), x+pad, y+6, r.Theme.HeaderFontSize, rl.White)

	ty := y + HeaderHeight + pad
	for _, s := range sections {
		ty = r.DrawSectionHeader(x+pad, ty, s.Title)
		for _, f := range s.Fields {
			ty = r.DrawLabelValue(x+pad, ty, f.Name, f.Text)
		}
	}
}
