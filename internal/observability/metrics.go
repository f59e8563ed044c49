package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the analysis
// pipeline. The process has no exposition endpoint; the registry is read
// in-process (tests, debug dumps).
type Metrics struct {
	// File loading metrics.
	TablesLoaded prometheus.Counter
	RowsLoaded   prometheus.Counter
	LoadFailures prometheus.Counter
	LoadDuration prometheus.Histogram

	// Multi-year aggregation metrics.
	YearLoads      *prometheus.CounterVec // labels: outcome={ok,failed}
	SummariesBuilt prometheus.Counter

	// Rendering metrics.
	MapRenders    *prometheus.CounterVec // labels: outcome={plotted,empty,error}
	PointsPlotted prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		TablesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "tables_loaded_total",
			Help:      "Total accident files parsed into tables.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "rows_loaded_total",
			Help:      "Total accident rows parsed across all loads.",
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "load_failures_total",
			Help:      "Total failed file loads (missing files and parse errors).",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fars",
			Name:      "load_duration_seconds",
			Help:      "Duration of a single file load, decompression included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		YearLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "year_loads_total",
			Help:      "Per-year load outcomes in multi-year requests.",
		}, []string{"outcome"}),
		SummariesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "summaries_built_total",
			Help:      "Total monthly summaries built.",
		}),
		MapRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "map_renders_total",
			Help:      "State map renders by outcome.",
		}, []string{"outcome"}),
		PointsPlotted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fars",
			Name:      "points_plotted",
			Help:      "Accident points drawn per rendered map.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
	}

	prometheus.MustRegister(
		m.TablesLoaded,
		m.RowsLoaded,
		m.LoadFailures,
		m.LoadDuration,
		m.YearLoads,
		m.SummariesBuilt,
		m.MapRenders,
		m.PointsPlotted,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		TablesLoaded:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars", Name: "tables_loaded_total"}),
		RowsLoaded:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars", Name: "rows_loaded_total"}),
		LoadFailures:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars", Name: "load_failures_total"}),
		LoadDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fars", Name: "load_duration_seconds"}),
		YearLoads:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fars", Name: "year_loads_total"}, []string{"outcome"}),
		SummariesBuilt: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fars", Name: "summaries_built_total"}),
		MapRenders:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fars", Name: "map_renders_total"}, []string{"outcome"}),
		PointsPlotted:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fars", Name: "points_plotted"}),
	}
}
