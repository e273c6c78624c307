package rollout

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/togglekit/togglekit/pkg/toggle"
)

// Metrics tracks engine behavior through Prometheus collectors.
//
// Metrics:
//   - togglekit_evaluations_total: decisions returned, labeled by source
//   - togglekit_cache_hits_total: decisions served from the cache
//   - togglekit_cache_misses_total: decisions resolved from the store
//   - togglekit_cache_decisions: current decision cache size
//   - togglekit_store_toggles: toggle count applied by the last refresh
//   - togglekit_refreshes_total: accepted definition refreshes
//   - togglekit_refresh_failures_total: rejected definition refreshes
type Metrics struct {
	evaluations     *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheDecisions  prometheus.Gauge
	storeToggles    prometheus.Gauge
	refreshes       prometheus.Counter
	refreshFailures prometheus.Counter
}

// NewMetrics creates and registers the engine collectors with the provided
// registry. Registering two Metrics on one registry panics, as duplicate
// collectors always do.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "togglekit",
				Name:      "evaluations_total",
				Help:      "Total number of decisions returned, by decision source",
			},
			[]string{"source"},
		),

		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "togglekit",
				Name:      "cache_hits_total",
				Help:      "Total number of decisions served from the cache",
			},
		),

		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "togglekit",
				Name:      "cache_misses_total",
				Help:      "Total number of decisions resolved from the store",
			},
		),

		cacheDecisions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "togglekit",
				Name:      "cache_decisions",
				Help:      "Current number of cached decisions",
			},
		),

		storeToggles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "togglekit",
				Name:      "store_toggles",
				Help:      "Number of toggles applied by the last accepted refresh",
			},
		),

		refreshes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "togglekit",
				Name:      "refreshes_total",
				Help:      "Total number of accepted definition refreshes",
			},
		),

		refreshFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "togglekit",
				Name:      "refresh_failures_total",
				Help:      "Total number of rejected definition refreshes",
			},
		),
	}

	registry.MustRegister(
		m.evaluations,
		m.cacheHits,
		m.cacheMisses,
		m.cacheDecisions,
		m.storeToggles,
		m.refreshes,
		m.refreshFailures,
	)

	return m
}

func (m *Metrics) recordDecision(source toggle.Source) {
	m.evaluations.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) recordCacheHit() {
	m.cacheHits.Inc()
}

func (m *Metrics) recordCacheMiss() {
	m.cacheMisses.Inc()
}

func (m *Metrics) setCacheSize(size int) {
	m.cacheDecisions.Set(float64(size))
}

func (m *Metrics) recordRefresh(toggles int) {
	m.refreshes.Inc()
	m.storeToggles.Set(float64(toggles))
}

func (m *Metrics) recordRefreshFailure() {
	m.refreshFailures.Inc()
}
