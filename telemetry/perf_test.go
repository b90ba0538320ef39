package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePlayer)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseEnemies)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhasePlayer] <= 0 {
		t.Error("expected player phase to be tracked")
	}
	if stats.PhaseAvg[PhaseEnemies] <= 0 {
		t.Error("expected enemies phase to be tracked")
	}
	if stats.PhaseAvg[PhaseCamera] != 0 {
		t.Error("expected untimed phase to stay zero")
	}
	if stats.P95TickDuration < stats.MinTickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p95 %v outside [%v, %v]", stats.P95TickDuration, stats.MinTickDuration, stats.MaxTickDuration)
	}
	if pc.LastTick() <= 0 {
		t.Error("expected last tick duration to be recorded")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePlayer)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCamera)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseCollisions)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseCamera]
	slowPct := stats.PhasePct[PhaseCollisions]

	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.CollisionsPct != slowPct {
		t.Errorf("unexpected csv row %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero stats for empty collector")
	}
	if pc.LastTick() != 0 {
		t.Error("expected zero last tick for empty collector")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPhaseNames(t *testing.T) {
	if PhaseTelemetry.String() != "telemetry" {
		t.Errorf("unexpected name %q", PhaseTelemetry.String())
	}
	if Phase(200).String() != "unknown" {
		t.Error("expected unknown for out of range phase")
	}
}
