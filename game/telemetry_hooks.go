package game

import (
	"log/slog"

	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/renderer"
	"github.com/pthm-cable/scroller/telemetry"
)

// indexes lists every spatial index in a fixed order.
func (g *Game) indexes() []*index {
	return []*index{g.platforms, g.blocks, g.enemies, g.collectibles, g.powerups}
}

// finderStates samples the occupancy of every index.
func (g *Game) finderStates() []telemetry.FinderState {
	ixs := g.indexes()
	out := make([]telemetry.FinderState, len(ixs))
	for i, ix := range ixs {
		out[i] = telemetry.FinderState{Name: ix.name, Grid: ix.Stats()}
	}
	return out
}

// flushTelemetry closes the stats window when it is complete and hands the
// result to the log, the CSV output and the debug server.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	finders := g.finderStates()
	stats, finderStats := g.collector.Flush(g.tick, telemetry.GameState{
		Score:     g.score,
		Lives:     g.lives,
		Collected: g.collected,
		Player:    g.player.Pos,
	}, finders)
	perfStats := g.perf.Stats()

	if g.logStats {
		slog.Info("stats", "window", stats, "perf", perfStats)
		for _, fs := range finderStats {
			slog.Info("finder", "stats", fs)
		}
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WriteFinders(finderStats); err != nil {
		slog.Error("failed to write finder stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	g.debug.Publish(g.tick, stats, finders, finderStats)
	if g.onStats != nil {
		g.onStats(stats, finderStats)
	}
}

// emit records a game event with every telemetry sink.
func (g *Game) emit(t telemetry.EventType, at geom.Pt, points int, detail string) {
	g.events.Emit(telemetry.Event{
		Type:   t,
		Tick:   g.tick,
		X:      at.X,
		Y:      at.Y,
		Points: points,
		Detail: detail,
	})
	g.collector.RecordEvent(t)
	g.debug.CountEvent(t)
	g.burst(t, at)
}

// burst spawns the particle effect for t, if it has one.
func (g *Game) burst(t telemetry.EventType, at geom.Pt) {
	if g.particles == nil {
		return
	}
	x, y := float32(at.X), float32(at.Y)
	switch t {
	case telemetry.EventBrickBroken:
		g.particles.Burst(renderer.ParticleDebris, x, y)
	case telemetry.EventStomp:
		g.particles.Burst(renderer.ParticleDust, x, y)
	case telemetry.EventPickup, telemetry.EventPowerUp:
		g.particles.Burst(renderer.ParticleSparkle, x, y)
	}
}

// EventCount returns how many events of type t happened so far.
func (g *Game) EventCount(t telemetry.EventType) uint64 {
	return g.events.Count(t)
}
