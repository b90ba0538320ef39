package game

import "log/slog"

// FinderCount is the total and camera-visible population of one index.
type FinderCount struct {
	Finder  string
	Total   int
	Visible int
}

// FinderReport is a snapshot of how much of the level the camera sees.
type FinderReport struct {
	Tick   int32
	Counts []FinderCount
	// RenderRatio is the share of registered objects that are visible,
	// in percent.
	RenderRatio float64
}

// LogValue implements slog.LogValuer.
func (r FinderReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("tick", int(r.Tick)),
		slog.Float64("render_ratio_pct", r.RenderRatio),
	}
	for _, c := range r.Counts {
		attrs = append(attrs, slog.Group(c.Finder,
			slog.Int("total", c.Total),
			slog.Int("visible", c.Visible),
		))
	}
	return slog.GroupValue(attrs...)
}

// FinderReport counts the objects of every index inside the camera view
// and logs the result.
func (g *Game) FinderReport() FinderReport {
	view := g.camera.Rect()
	r := FinderReport{Tick: g.tick}

	var total, visible int
	for _, ix := range g.indexes() {
		c := FinderCount{
			Finder:  ix.name,
			Total:   ix.Len(),
			Visible: len(g.nearby(ix, view)),
		}
		total += c.Total
		visible += c.Visible
		r.Counts = append(r.Counts, c)
	}
	if total > 0 {
		r.RenderRatio = 100 * float64(visible) / float64(total)
	}

	slog.Info("finder report", "report", r)
	return r
}
