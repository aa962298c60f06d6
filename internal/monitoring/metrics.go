// internal/monitoring/metrics.go
// Package monitoring exposes Prometheus metrics for parse runs.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const subsystem = "parser"

// Metrics collects parse-run metrics. A nil *Metrics is a valid no-op
// receiver so callers can leave metrics disabled.
type Metrics struct {
	entriesProcessed   *prometheus.CounterVec
	timestampsResolved *prometheus.CounterVec
	fragmentsSkipped   prometheus.Counter
	confidence         prometheus.Histogram
	runDuration        prometheus.Histogram
	runsTotal          *prometheus.CounterVec

	registry *prometheus.Registry
}

// Config configures metric registration.
type Config struct {
	Namespace string
}

// New creates a metrics collector on its own registry.
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "watchparser"
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.entriesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: subsystem,
			Name:      "entries_processed_total",
			Help:      "Total number of entry fragments processed",
		},
		[]string{"outcome"},
	)

	m.timestampsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: subsystem,
			Name:      "timestamps_resolved_total",
			Help:      "Total number of timestamps resolved, by winning strategy",
		},
		[]string{"strategy"},
	)

	m.fragmentsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: subsystem,
			Name:      "fragments_skipped_total",
			Help:      "Total number of structurally invalid fragments dropped",
		},
	)

	m.confidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: subsystem,
			Name:      "timestamp_confidence",
			Help:      "Confidence score distribution of extracted timestamps",
			Buckets:   []float64{0, 50, 60, 65, 70, 75, 85, 100},
		},
	)

	m.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Full-document parse duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Total number of parse runs by terminal state",
		},
		[]string{"state"},
	)

	m.registry.MustRegister(
		m.entriesProcessed,
		m.timestampsResolved,
		m.fragmentsSkipped,
		m.confidence,
		m.runDuration,
		m.runsTotal,
	)

	return m
}

// RecordEntry records one processed entry and its timestamp outcome.
func (m *Metrics) RecordEntry(strategyID string, confidence int) {
	if m == nil {
		return
	}
	if confidence > 0 {
		m.entriesProcessed.WithLabelValues("with_timestamp").Inc()
		m.timestampsResolved.WithLabelValues(strategyID).Inc()
	} else {
		m.entriesProcessed.WithLabelValues("without_timestamp").Inc()
	}
	m.confidence.Observe(float64(confidence))
}

// RecordSkipped records structurally invalid fragments.
func (m *Metrics) RecordSkipped(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.fragmentsSkipped.Add(float64(count))
}

// RecordRun records a completed run's terminal state and duration.
func (m *Metrics) RecordRun(state string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(state).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving this collector's registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
