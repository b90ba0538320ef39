package telemetry

import (
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/spatial"
)

// queryLog holds per-query samples of one finder for the current window.
type queryLog struct {
	cells      []float64
	candidates []float64
	hits       []float64
}

func (q *queryLog) reset() {
	q.cells = q.cells[:0]
	q.candidates = q.candidates[:0]
	q.hits = q.hits[:0]
}

// Collector accumulates events and spatial query samples within windows of
// ticks and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	events  [numEventTypes]int
	queries map[string]*queryLog
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int32(windowTicks),
		queries:     make(map[string]*queryLog),
	}
}

// RecordEvent counts one game event.
func (c *Collector) RecordEvent(t EventType) {
	if t < numEventTypes {
		c.events[t]++
	}
}

// RecordQuery records the work done by one query against the named finder.
func (c *Collector) RecordQuery(finder string, qs spatial.QueryStats) {
	q, ok := c.queries[finder]
	if !ok {
		q = &queryLog{}
		c.queries[finder] = q
	}
	q.cells = append(q.cells, float64(qs.Cells))
	q.candidates = append(q.candidates, float64(qs.Candidates))
	q.hits = append(q.hits, float64(qs.Hits))
}

// ShouldFlush returns true if the current window is complete.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// GameState is the game state sampled at the end of a window.
type GameState struct {
	Score     int
	Lives     int
	Collected int
	Player    geom.Pt
}

// FinderState is the occupancy of a named finder at the end of a window.
type FinderState struct {
	Name string
	Grid spatial.GridStats
}

// Flush produces the stats of the window ending at currentTick, one
// FinderWindowStats per entry of finders in the same order, and starts a
// new window.
func (c *Collector) Flush(currentTick int32, gs GameState, finders []FinderState) (WindowStats, []FinderWindowStats) {
	ws := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Score:           gs.Score,
		Lives:           gs.Lives,
		Collected:       gs.Collected,
		PlayerX:         gs.Player.X,
		PlayerY:         gs.Player.Y,
		Pickups:         c.events[EventPickup],
		Stomps:          c.events[EventStomp],
		Hurts:           c.events[EventHurt],
		PowerUps:        c.events[EventPowerUp],
		BlocksHit:       c.events[EventBlockHit],
		BricksBroken:    c.events[EventBrickBroken],
		EnemiesLost:     c.events[EventEnemyLost],
		Deaths:          c.events[EventDeath],
	}

	var totalCand, totalHits float64
	fs := make([]FinderWindowStats, 0, len(finders))
	for _, f := range finders {
		out := FinderWindowStats{
			WindowEndTick: currentTick,
			Finder:        f.Name,
			Registered:    f.Grid.Objects,
			NonEmptyCells: f.Grid.NonEmpty,
			MaxPerCell:    f.Grid.MaxPerCell,
		}
		if q, ok := c.queries[f.Name]; ok && len(q.candidates) > 0 {
			var candSum, hitSum float64
			for i := range q.candidates {
				candSum += q.candidates[i]
				hitSum += q.hits[i]
			}
			cand := Summarize(q.candidates)
			out.Queries = cand.N
			out.CellsMean = Summarize(q.cells).Mean
			out.CandidatesMean = cand.Mean
			out.CandidatesP50 = cand.P50
			out.CandidatesP90 = cand.P90
			out.HitsMean = Summarize(q.hits).Mean
			out.FalsePositiveRatio = falsePositiveRatio(candSum, hitSum)

			ws.Queries += cand.N
			totalCand += candSum
			totalHits += hitSum
		}
		fs = append(fs, out)
	}

	if ws.Queries > 0 {
		ws.CandidatesMean = totalCand / float64(ws.Queries)
		ws.HitsMean = totalHits / float64(ws.Queries)
	}
	ws.FalsePositiveRatio = falsePositiveRatio(totalCand, totalHits)

	c.reset(currentTick)
	return ws, fs
}

func falsePositiveRatio(candidates, hits float64) float64 {
	if candidates == 0 {
		return 0
	}
	return (candidates - hits) / candidates
}

func (c *Collector) reset(tick int32) {
	c.windowStartTick = tick
	c.events = [numEventTypes]int{}
	for _, q := range c.queries {
		q.reset()
	}
}
