package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/game"
	"github.com/pthm-cable/scroller/telemetry"
)

// CostEvaluator runs headless autopilot games and measures how much work
// the spatial indexes do per tick.
type CostEvaluator struct {
	base       *config.Config
	maxTicks   int32
	seeds      []int64
	cellWeight float64 // cost of visiting a cell relative to testing a candidate

	mu    sync.Mutex
	cache map[int]Measurement
}

// Measurement is the averaged result for one cell size.
type Measurement struct {
	CellSize      int
	Cost          float64 // weighted work per tick
	CellsPerTick  float64
	CandsPerTick  float64
	HitsPerTick   float64
	FalsePositive float64 // candidates that did not overlap, as a fraction
	Ticks         int32
}

// NewCostEvaluator creates an evaluator.
func NewCostEvaluator(base *config.Config, maxTicks int32, seeds []int64, cellWeight float64) *CostEvaluator {
	return &CostEvaluator{
		base:       base,
		maxTicks:   maxTicks,
		seeds:      seeds,
		cellWeight: cellWeight,
		cache:      make(map[int]Measurement),
	}
}

// Evaluate measures cellSize, reusing an earlier measurement when one exists.
func (ce *CostEvaluator) Evaluate(cellSize int) (Measurement, error) {
	ce.mu.Lock()
	if m, ok := ce.cache[cellSize]; ok {
		ce.mu.Unlock()
		return m, nil
	}
	ce.mu.Unlock()

	cfg, err := ApplyToConfig(ce.base, cellSize)
	if err != nil {
		return Measurement{}, err
	}

	// Run all seeds in parallel
	results := make([]totals, len(ce.seeds))
	errs := make([]error, len(ce.seeds))
	var wg sync.WaitGroup
	for i, seed := range ce.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = ce.run(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var sum totals
	for i, r := range results {
		if errs[i] != nil {
			return Measurement{}, fmt.Errorf("seed %d: %w", ce.seeds[i], errs[i])
		}
		sum.add(r)
	}

	m := sum.measure(cellSize, ce.cellWeight)
	ce.mu.Lock()
	ce.cache[cellSize] = m
	ce.mu.Unlock()
	return m, nil
}

// totals accumulates finder work over completed telemetry windows.
type totals struct {
	ticks      int32
	cells      float64
	candidates float64
	hits       float64
}

func (t *totals) add(o totals) {
	t.ticks += o.ticks
	t.cells += o.cells
	t.candidates += o.candidates
	t.hits += o.hits
}

func (t *totals) addWindow(ws telemetry.WindowStats, finders []telemetry.FinderWindowStats) {
	t.ticks += ws.WindowEndTick - ws.WindowStartTick
	for _, f := range finders {
		q := float64(f.Queries)
		t.cells += q * f.CellsMean
		t.candidates += q * f.CandidatesMean
		t.hits += q * f.HitsMean
	}
}

func (t totals) measure(cellSize int, cellWeight float64) Measurement {
	m := Measurement{CellSize: cellSize, Ticks: t.ticks}
	if t.ticks == 0 {
		m.Cost = math.Inf(1)
		return m
	}
	n := float64(t.ticks)
	m.CellsPerTick = t.cells / n
	m.CandsPerTick = t.candidates / n
	m.HitsPerTick = t.hits / n
	m.Cost = cellWeight*m.CellsPerTick + m.CandsPerTick
	if t.candidates > 0 {
		m.FalsePositive = 1 - t.hits/t.candidates
	}
	return m
}

// run plays one headless game until it ends or maxTicks is reached.
func (ce *CostEvaluator) run(cfg *config.Config, seed int64) (totals, error) {
	var t totals
	g, err := game.New(cfg, game.Options{
		Seed:     seed,
		Headless: true,
		Player:   "tune",
		OnStats: func(ws telemetry.WindowStats, fs []telemetry.FinderWindowStats) {
			t.addWindow(ws, fs)
		},
	})
	if err != nil {
		return t, err
	}

	pilot := game.NewAutopilot(seed)
	for !g.Finished() && g.Tick() < ce.maxTicks {
		g.Step(pilot.Next(g.Player()))
	}
	return t, g.Close()
}
