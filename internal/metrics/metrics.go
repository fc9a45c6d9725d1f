package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Outcome labels for RowsTotal.
const (
	OutcomeKept    = "kept"
	OutcomeDropped = "dropped"
	OutcomeImputed = "imputed"
	OutcomeSkipped = "skipped"
)

// Metrics holds the Prometheus metrics of one feature pipeline process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	BarsTotal         *prometheus.CounterVec   // labels: mode
	RowsTotal         *prometheus.CounterVec   // labels: mode, outcome
	IndicatorDuration *prometheus.HistogramVec // labels: indicator
	StageDuration     *prometheus.HistogramVec // labels: stage
	RunsTotal         *prometheus.CounterVec   // labels: mode, status
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		BarsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "features_bars_total",
			Help: "Bars read from the input, by mode",
		}, []string{"mode"}),
		RowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "features_rows_total",
			Help: "Candidate rows by mode and outcome (kept, dropped, imputed, skipped)",
		}, []string{"mode", "outcome"}),
		IndicatorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "features_indicator_seconds",
			Help:    "Time spent computing one indicator over the whole series",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"indicator"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "features_stage_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "features_runs_total",
			Help: "Pipeline runs by mode and status (ok, failed)",
		}, []string{"mode", "status"}),
	}

	m.registry.MustRegister(
		m.BarsTotal,
		m.RowsTotal,
		m.IndicatorDuration,
		m.StageDuration,
		m.RunsTotal,
	)

	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

// ObserveRows adds the composer counts of one run.
func (m *Metrics) ObserveRows(mode string, counts types.RowCounts) {
	if m == nil {
		return
	}

	m.BarsTotal.WithLabelValues(mode).Add(float64(counts.Bars))
	m.RowsTotal.WithLabelValues(mode, OutcomeKept).Add(float64(counts.Kept))
	m.RowsTotal.WithLabelValues(mode, OutcomeDropped).Add(float64(counts.Dropped))
	m.RowsTotal.WithLabelValues(mode, OutcomeImputed).Add(float64(counts.Imputed))
	m.RowsTotal.WithLabelValues(mode, OutcomeSkipped).Add(float64(counts.Skipped))
}

// ObserveIndicator records how long one indicator took.
func (m *Metrics) ObserveIndicator(name string, d time.Duration) {
	if m == nil {
		return
	}

	m.IndicatorDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveStage records how long one pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}

	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(mode string, err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "failed"
	}

	m.RunsTotal.WithLabelValues(mode, status).Inc()
}

// WriteToTextfile writes the current values in the text exposition format, for
// collection by a node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}

	return prometheus.WriteToTextfile(path, m.registry)
}
