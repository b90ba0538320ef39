package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a sample.
type Summary struct {
	N    int
	Mean float64
	Min  float64
	Max  float64
	P50  float64
	P90  float64
	P95  float64
}

// Summarize computes mean, extremes and empirical quantiles of values.
// values is sorted in place. An empty sample yields a zero Summary.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sort.Float64s(values)
	return Summary{
		N:    n,
		Mean: stat.Mean(values, nil),
		Min:  values[0],
		Max:  values[n-1],
		P50:  stat.Quantile(0.50, stat.Empirical, values, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, values, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, values, nil),
	}
}

// WindowStats holds aggregated game statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// State at window end
	Score     int `csv:"score"`
	Lives     int `csv:"lives"`
	Collected int `csv:"collected"`
	PlayerX   int `csv:"player_x"`
	PlayerY   int `csv:"player_y"`

	// Events during window
	Pickups      int `csv:"pickups"`
	Stomps       int `csv:"stomps"`
	Hurts        int `csv:"hurts"`
	PowerUps     int `csv:"powerups"`
	BlocksHit    int `csv:"blocks_hit"`
	BricksBroken int `csv:"bricks_broken"`
	EnemiesLost  int `csv:"enemies_lost"`
	Deaths       int `csv:"deaths"`

	// Spatial index totals across all finders
	Queries            int     `csv:"queries"`
	CandidatesMean     float64 `csv:"candidates_mean"`
	HitsMean           float64 `csv:"hits_mean"`
	FalsePositiveRatio float64 `csv:"false_positive_ratio"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("score", s.Score),
		slog.Int("lives", s.Lives),
		slog.Int("collected", s.Collected),
		slog.Int("pickups", s.Pickups),
		slog.Int("stomps", s.Stomps),
		slog.Int("hurts", s.Hurts),
		slog.Int("powerups", s.PowerUps),
		slog.Int("blocks_hit", s.BlocksHit),
		slog.Int("bricks_broken", s.BricksBroken),
		slog.Int("enemies_lost", s.EnemiesLost),
		slog.Int("deaths", s.Deaths),
		slog.Int("queries", s.Queries),
		slog.Float64("candidates_mean", s.CandidatesMean),
		slog.Float64("false_positive_ratio", s.FalsePositiveRatio),
	)
}

// FinderWindowStats summarises one spatial index over a window.
type FinderWindowStats struct {
	WindowEndTick      int32   `csv:"window_end" json:"window_end"`
	Finder             string  `csv:"finder" json:"finder"`
	Registered         int     `csv:"registered" json:"registered"`
	NonEmptyCells      int     `csv:"non_empty_cells" json:"non_empty_cells"`
	MaxPerCell         int     `csv:"max_per_cell" json:"max_per_cell"`
	Queries            int     `csv:"queries" json:"queries"`
	CellsMean          float64 `csv:"cells_mean" json:"cells_mean"`
	CandidatesMean     float64 `csv:"candidates_mean" json:"candidates_mean"`
	CandidatesP50      float64 `csv:"candidates_p50" json:"candidates_p50"`
	CandidatesP90      float64 `csv:"candidates_p90" json:"candidates_p90"`
	HitsMean           float64 `csv:"hits_mean" json:"hits_mean"`
	FalsePositiveRatio float64 `csv:"false_positive_ratio" json:"false_positive_ratio"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s FinderWindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("finder", s.Finder),
		slog.Int("registered", s.Registered),
		slog.Int("queries", s.Queries),
		slog.Float64("candidates_mean", s.CandidatesMean),
		slog.Float64("candidates_p90", s.CandidatesP90),
		slog.Float64("hits_mean", s.HitsMean),
		slog.Float64("false_positive_ratio", s.FalsePositiveRatio),
	)
}
