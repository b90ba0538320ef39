package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one timed section of the frame step.
type Phase uint8

// Phases of the frame step, in execution order.
const (
	PhasePlayer Phase = iota
	PhasePickups
	PhaseEnemies
	PhasePowerUps
	PhaseBlocks
	PhaseEffects
	PhaseCollisions
	PhaseCamera
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"player", "pickups", "enemies",
	"powerups", "blocks", "effects",
	"collisions", "camera", "telemetry",
}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// noPhase marks that no phase is running.
const noPhase = numPhases

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [numPhases]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
	current     PerfSample
	tickStart   time.Time
	phaseStart  time.Time
	lastPhase   Phase

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		lastPhase:  noPhase,
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PerfSample{}
	p.lastPhase = noPhase
}

// StartPhase ends the running phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	if p.lastPhase != noPhase {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != noPhase {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = noPhase
	}
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// LastTick returns the duration of the most recent complete tick.
func (p *PerfCollector) LastTick() time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	return p.samples[(p.writeIndex+p.windowSize-1)%p.windowSize].TickDuration
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg [numPhases]time.Duration

	// Phase percentages of total tick time
	PhasePct [numPhases]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var phaseSum [numPhases]time.Duration
	ticks := make([]float64, p.sampleCount)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		ticks[i] = float64(s.TickDuration)
		for ph, dur := range s.Phases {
			phaseSum[ph] += dur
		}
	}

	sum := Summarize(ticks)
	stats.AvgTickDuration = time.Duration(sum.Mean)
	stats.MinTickDuration = time.Duration(sum.Min)
	stats.MaxTickDuration = time.Duration(sum.Max)
	stats.P95TickDuration = time.Duration(sum.P95)

	n := time.Duration(p.sampleCount)
	for ph, total := range phaseSum {
		stats.PhaseAvg[ph] = total / n
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[ph] = float64(stats.PhaseAvg[ph]) / float64(stats.AvgTickDuration) * 100
		}
	}

	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	PlayerPct     float64 `csv:"player_pct"`
	PickupsPct    float64 `csv:"pickups_pct"`
	EnemiesPct    float64 `csv:"enemies_pct"`
	PowerUpsPct   float64 `csv:"powerups_pct"`
	BlocksPct     float64 `csv:"blocks_pct"`
	EffectsPct    float64 `csv:"effects_pct"`
	CollisionsPct float64 `csv:"collisions_pct"`
	CameraPct     float64 `csv:"camera_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		PlayerPct:     s.PhasePct[PhasePlayer],
		PickupsPct:    s.PhasePct[PhasePickups],
		EnemiesPct:    s.PhasePct[PhaseEnemies],
		PowerUpsPct:   s.PhasePct[PhasePowerUps],
		BlocksPct:     s.PhasePct[PhaseBlocks],
		EffectsPct:    s.PhasePct[PhaseEffects],
		CollisionsPct: s.PhasePct[PhaseCollisions],
		CameraPct:     s.PhasePct[PhaseCamera],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
