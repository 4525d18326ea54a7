// Package metrics provides Prometheus metrics for the scoring core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcome labels.
const (
	OutcomeMapped       = "mapped"
	OutcomeFallback     = "fallback"
	OutcomeUnclassified = "unclassified"
	OutcomeFailed       = "failed"
)

// Manager manages all Prometheus metrics for the scoring core.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Resolution metrics
	resolutions   *prometheus.CounterVec
	catalogErrors prometheus.Counter

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	// Adjustment and aggregation metrics
	adjustments     prometheus.Counter
	invalidZones    prometheus.Counter
	aggregations    prometheus.Counter
	aggregationSize prometheus.Histogram

	// Store metrics
	trackedActions prometheus.Gauge
	fanoutWorkers  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchmark",
		subsystem:        "scoring",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.resolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolutions_total",
		Help:      "Total action-type resolutions by outcome (mapped, fallback, unclassified, failed)",
	}, []string{"outcome"})

	m.catalogErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_errors_total",
		Help:      "Total upstream catalog/mapping read failures",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_cache_hits_total",
		Help:      "Total resolution cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_cache_misses_total",
		Help:      "Total resolution cache misses",
	})

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_cache_entries",
		Help:      "Current number of cached resolutions",
	})

	m.adjustments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "adjustments_total",
		Help:      "Total zone/outcome score adjustments computed",
	})

	m.invalidZones = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalid_zones_total",
		Help:      "Total adjustments rejected for an out-of-range zone",
	})

	m.aggregations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregations_total",
		Help:      "Total report metric aggregations computed",
	})

	m.aggregationSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_action_count",
		Help:      "Histogram of action counts per aggregated report",
		Buckets:   m.histogramBuckets,
	})

	m.trackedActions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_actions",
		Help:      "Current number of actions held by the action store",
	})

	m.fanoutWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fanout_workers",
		Help:      "Configured resolution fan-out worker count",
	})
}

// Registry returns the custom registry for exposition by the host app.
func Registry() *prometheus.Registry {
	return customRegistry
}

// RecordResolution counts a resolution by outcome label.
func RecordResolution(outcome string) {
	globalManager.resolutions.WithLabelValues(outcome).Inc()
}

// RecordCatalogError counts an upstream catalog/mapping read failure.
func RecordCatalogError() {
	globalManager.catalogErrors.Inc()
}

// RecordCacheHit counts a resolution cache hit.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss counts a resolution cache miss.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateCacheSize sets the current resolution cache entry count.
func UpdateCacheSize(size int) {
	globalManager.cacheSize.Set(float64(size))
}

// RecordAdjustment counts a computed score adjustment.
func RecordAdjustment() {
	globalManager.adjustments.Inc()
}

// RecordInvalidZone counts a rejected out-of-range zone.
func RecordInvalidZone() {
	globalManager.invalidZones.Inc()
}

// RecordAggregation counts a report aggregation over n actions.
func RecordAggregation(actionCount int) {
	globalManager.aggregations.Inc()
	globalManager.aggregationSize.Observe(float64(actionCount))
}

// UpdateTrackedActions sets the action-store population gauge.
func UpdateTrackedActions(count int) {
	globalManager.trackedActions.Set(float64(count))
}

// UpdateFanoutWorkers sets the configured worker-count gauge.
func UpdateFanoutWorkers(count int) {
	globalManager.fanoutWorkers.Set(float64(count))
}
