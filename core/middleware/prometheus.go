package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/miladsoleymani/hashmux/core"
)

// PrometheusConfig configures the Prometheus collector.
type PrometheusConfig struct {
	// Namespace is the metrics namespace (default: "hashmux").
	Namespace string

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// PrometheusOption configures the Prometheus collector.
type PrometheusOption func(*PrometheusConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) PrometheusOption {
	return func(c *PrometheusConfig) { c.Namespace = namespace }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) PrometheusOption {
	return func(c *PrometheusConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) PrometheusOption {
	return func(c *PrometheusConfig) { c.Registry = registry }
}

// PrometheusCollector is a MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	matches     prometheus.Histogram
}

var _ MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector registers the navigation metrics and returns their
// collector.
func NewPrometheusCollector(fns ...PrometheusOption) *PrometheusCollector {
	config := PrometheusConfig{
		Namespace: "hashmux",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, fn := range fns {
		fn(&config)
	}
	factory := promauto.With(config.Registry)

	return &PrometheusCollector{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "navigations_total",
			Help:      "Total number of finished navigations",
		}, []string{"state", "code"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "navigation_duration_seconds",
			Help:      "Navigation duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"state"}),

		matches: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "navigation_matches",
			Help:      "Number of routes matching a navigated fragment",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		}),
	}
}

func (c *PrometheusCollector) NavigationProcessed(nav core.Navigation, duration time.Duration) {
	state := nav.State.String()
	c.navigations.WithLabelValues(state, strconv.Itoa(nav.Code)).Inc()
	c.duration.WithLabelValues(state).Observe(duration.Seconds())
	c.matches.Observe(float64(nav.Matches))
}
