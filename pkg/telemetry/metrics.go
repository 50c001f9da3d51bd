// Package telemetry instruments the navigation pipeline: Prometheus
// counters and histograms for navigations, and an OpenTelemetry span per
// navigation attempt.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "carlscalendar").
	Namespace string

	// Subsystem is the metrics subsystem (default: "nav").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the navigation metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the navigation metrics.
type Metrics struct {
	NavigationsTotal *prometheus.CounterVec   // labels: path, outcome
	NavDuration      *prometheus.HistogramVec // labels: path
	LoadFailures     prometheus.Counter
	GuardRedirects   prometheus.Counter
	Superseded       prometheus.Counter
	SkeletonRebuilds prometheus.Counter
}

// NewMetrics registers and returns the navigation metrics.
// Tests should pass WithRegistry with a fresh registry to avoid
// duplicate registration against the default registerer.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "carlscalendar",
		Subsystem: "nav",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		NavigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "navigations_total",
			Help:        "Total navigation attempts by matched path and outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"path", "outcome"}),

		NavDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "duration_seconds",
			Help:        "Navigation duration from intent to completion",
			Buckets:     cfg.Buckets,
			ConstLabels: cfg.ConstLabels,
		}, []string{"path"}),

		LoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "load_failures_total",
			Help:        "Page module loads or renders that failed",
			ConstLabels: cfg.ConstLabels,
		}),

		GuardRedirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "guard_redirects_total",
			Help:        "Navigations redirected by the auth guard",
			ConstLabels: cfg.ConstLabels,
		}),

		Superseded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "superseded_total",
			Help:        "Navigations abandoned because a newer intent arrived",
			ConstLabels: cfg.ConstLabels,
		}),

		SkeletonRebuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "skeleton_rebuilds_total",
			Help:        "Root skeleton rebuilds caused by layout mode transitions",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
