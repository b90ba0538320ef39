package game

import (
	"github.com/pthm-cable/scroller/debug"
	"github.com/pthm-cable/scroller/level"
	"github.com/pthm-cable/scroller/telemetry"
)

// StatsCallback receives every completed telemetry window.
type StatsCallback func(telemetry.WindowStats, []telemetry.FinderWindowStats)

// Options holds configuration for game initialization.
type Options struct {
	Seed      int64
	Headless  bool
	LogStats  bool          // Log each telemetry window via slog
	OutputDir string        // CSV output directory (empty = disabled)
	Layout    *level.Layout // nil = generated level
	Player    string        // Name recorded with the final score
	Debug     *debug.Server // nil = no live metrics
	OnStats   StatsCallback // Optional, called after each window flush
}
