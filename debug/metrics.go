package debug

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pthm-cable/scroller/spatial"
	"github.com/pthm-cable/scroller/telemetry"
)

// Metrics holds the game's Prometheus collectors. Labels are bounded: the
// finder label takes one of the five finder names, the event label one of
// the telemetry event types.
type Metrics struct {
	registry *prometheus.Registry

	tickDuration prometheus.Histogram

	finderObjects  *prometheus.GaugeVec
	finderNonEmpty *prometheus.GaugeVec
	finderMaxCell  *prometheus.GaugeVec

	queryCells          *prometheus.HistogramVec
	queryCandidates     *prometheus.HistogramVec
	queryFalsePositives *prometheus.CounterVec
	queryHits           *prometheus.CounterVec

	events *prometheus.CounterVec

	wsClients prometheus.Gauge
	wsSent    prometheus.Counter
}

// NewMetrics registers the game collectors plus the Go runtime and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scroller_tick_duration_seconds",
			Help:    "Time spent in one game step",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0166},
		}),
		finderObjects: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scroller_finder_objects",
			Help: "Identities registered in a spatial index",
		}, []string{"finder"}),
		finderNonEmpty: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scroller_finder_nonempty_cells",
			Help: "Grid cells holding at least one identity",
		}, []string{"finder"}),
		finderMaxCell: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scroller_finder_max_cell_len",
			Help: "Largest cell bucket in a spatial index",
		}, []string{"finder"}),
		queryCells: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scroller_query_cells",
			Help:    "Grid cells scanned per query",
			Buckets: []float64{1, 2, 4, 6, 9, 16},
		}, []string{"finder"}),
		queryCandidates: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scroller_query_candidates",
			Help:    "Distinct identities examined per query",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"finder"}),
		queryFalsePositives: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scroller_query_false_positives_total",
			Help: "Candidates returned by a query that do not overlap its rectangle",
		}, []string{"finder"}),
		queryHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scroller_query_hits_total",
			Help: "Candidates returned by a query that overlap its rectangle",
		}, []string{"finder"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scroller_events_total",
			Help: "Game events by type",
		}, []string{"type"}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "scroller_ws_clients",
			Help: "Connected stats stream clients",
		}),
		wsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "scroller_ws_messages_total",
			Help: "Stats messages broadcast",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTick records the duration of one game step.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.tickDuration.Observe(d.Seconds())
}

// ObserveQuery records the work done by one query against finder.
func (m *Metrics) ObserveQuery(finder string, qs spatial.QueryStats) {
	m.queryCells.WithLabelValues(finder).Observe(float64(qs.Cells))
	m.queryCandidates.WithLabelValues(finder).Observe(float64(qs.Candidates))
	if fp := qs.FalsePositives(); fp > 0 {
		m.queryFalsePositives.WithLabelValues(finder).Add(float64(fp))
	}
	if qs.Hits > 0 {
		m.queryHits.WithLabelValues(finder).Add(float64(qs.Hits))
	}
}

// SetFinder updates the occupancy gauges of finder.
func (m *Metrics) SetFinder(finder string, gs spatial.GridStats) {
	m.finderObjects.WithLabelValues(finder).Set(float64(gs.Objects))
	m.finderNonEmpty.WithLabelValues(finder).Set(float64(gs.NonEmpty))
	m.finderMaxCell.WithLabelValues(finder).Set(float64(gs.MaxPerCell))
}

// CountEvent increments the counter of event type t.
func (m *Metrics) CountEvent(t telemetry.EventType) {
	m.events.WithLabelValues(t.String()).Inc()
}
