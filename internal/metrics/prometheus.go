package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for Series Board
type Metrics struct {
	// Counters
	EventsTotal       *prometheus.CounterVec
	RejectionsTotal   *prometheus.CounterVec
	PageAdvancesTotal prometheus.Counter
	PageWrapsTotal    prometheus.Counter

	// Gauges
	SeriesConfigured prometheus.Gauge
	SelectionSize    prometheus.Gauge
	ActiveRoute      *prometheus.GaugeVec

	// Histograms
	ChartBuildDuration *prometheus.HistogramVec
	DispatchDuration   *prometheus.HistogramVec
	TracesPerBuild     prometheus.Histogram
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		// Counters
		EventsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "seriesboard_events_total",
				Help: "Total number of dispatched browser events",
			},
			[]string{"trigger", "kind"},
		),

		RejectionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "seriesboard_transition_rejections_total",
				Help: "Total number of state transitions rejected by validation",
			},
			[]string{"trigger", "reason"},
		),

		PageAdvancesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "seriesboard_page_advances_total",
				Help: "Total number of pagination advances",
			},
		),

		PageWrapsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "seriesboard_page_wraps_total",
				Help: "Total number of pagination wraparounds to offset zero",
			},
		),

		// Gauges
		SeriesConfigured: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "seriesboard_series_configured",
				Help: "Number of distinct series identifiers in the dataset",
			},
		),

		SelectionSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "seriesboard_selection_size",
				Help: "Number of currently selected series",
			},
		),

		ActiveRoute: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "seriesboard_active_route",
				Help: "Whether a route is currently rendered (1) or not (0)",
			},
			[]string{"route"},
		),

		// Histograms
		ChartBuildDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seriesboard_chart_build_duration_seconds",
				Help:    "Duration of chart description builds in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"surface"},
		),

		DispatchDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seriesboard_dispatch_duration_seconds",
				Help:    "End-to-end duration of event dispatch in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"trigger"},
		),

		TracesPerBuild: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seriesboard_traces_per_build",
				Help:    "Number of traces emitted per chart build",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
	}

	return m
}

// RecordEvent records a dispatched browser event
func (m *Metrics) RecordEvent(trigger, kind string, duration time.Duration) {
	m.EventsTotal.With(prometheus.Labels{
		"trigger": trigger,
		"kind":    kind,
	}).Inc()

	m.DispatchDuration.With(prometheus.Labels{
		"trigger": trigger,
	}).Observe(duration.Seconds())
}

// RecordRejection records a transition rejected by validation
func (m *Metrics) RecordRejection(trigger, reason string) {
	m.RejectionsTotal.With(prometheus.Labels{
		"trigger": trigger,
		"reason":  reason,
	}).Inc()
}

// RecordPageAdvance records a pagination advance and whether it wrapped
func (m *Metrics) RecordPageAdvance(wrapped bool) {
	m.PageAdvancesTotal.Inc()
	if wrapped {
		m.PageWrapsTotal.Inc()
	}
}

// RecordChartBuild records the duration and trace count of a chart build
func (m *Metrics) RecordChartBuild(surface string, traces int, duration time.Duration) {
	m.ChartBuildDuration.With(prometheus.Labels{
		"surface": surface,
	}).Observe(duration.Seconds())
	m.TracesPerBuild.Observe(float64(traces))
}

// SetSelectionSize sets the current selection size gauge
func (m *Metrics) SetSelectionSize(n int) {
	m.SelectionSize.Set(float64(n))
}

// SetActiveRoute marks the given route as rendered and all others as not
func (m *Metrics) SetActiveRoute(route string) {
	for _, r := range []string{"main", "exceptions"} {
		value := 0.0
		if r == route {
			value = 1.0
		}
		m.ActiveRoute.With(prometheus.Labels{"route": r}).Set(value)
	}
}
