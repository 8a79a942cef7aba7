package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks catalog refresh activity.
type CatalogMetrics struct {
	registry *prometheus.Registry

	refreshesTotal   *prometheus.CounterVec
	refreshDuration  *prometheus.HistogramVec
	pokemonProcessed *prometheus.CounterVec
	batchesTotal     prometheus.Counter
	cachedPokemon    prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics.
func NewCatalogMetrics(registry *prometheus.Registry) (*CatalogMetrics, error) {
	m := &CatalogMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register catalog metrics: %w", err)
	}
	return m, nil
}

func (m *CatalogMetrics) initMetrics() {
	m.refreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refreshes_total",
			Help: "Total number of catalog refresh runs",
		},
		[]string{"operation", "status"}, // operation: refresh, regional, types
	)

	m.refreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Time taken by catalog refresh runs",
			Buckets: prometheus.ExponentialBuckets(BucketStart100ms, BucketFactor2, BucketCount12), // 100ms to ~200s
		},
		[]string{"operation"},
	)

	m.pokemonProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_pokemon_processed_total",
			Help: "Total number of pokemon ids processed by refreshes",
		},
		[]string{"status"}, // status: success, error, skipped
	)

	m.batchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_batches_total",
		Help: "Total number of refresh batches executed",
	})

	m.cachedPokemon = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_cached_pokemon",
		Help: "Number of pokemon currently in the local cache",
	})
}

// RecordRefresh records the outcome and duration of a refresh run.
func (m *CatalogMetrics) RecordRefresh(operation string, err error, seconds float64) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.refreshesTotal.WithLabelValues(operation, status).Inc()
	m.refreshDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordPokemon counts a single processed id.
func (m *CatalogMetrics) RecordPokemon(status string) {
	m.pokemonProcessed.WithLabelValues(status).Inc()
}

// RecordBatch counts an executed batch.
func (m *CatalogMetrics) RecordBatch() {
	m.batchesTotal.Inc()
}

// SetCachedPokemon updates the cache size gauge.
func (m *CatalogMetrics) SetCachedPokemon(count int64) {
	m.cachedPokemon.Set(float64(count))
}

// Describe implements the prometheus.Collector interface.
func (m *CatalogMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.refreshesTotal.Describe(ch)
	m.refreshDuration.Describe(ch)
	m.pokemonProcessed.Describe(ch)
	m.batchesTotal.Describe(ch)
	m.cachedPokemon.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *CatalogMetrics) Collect(ch chan<- prometheus.Metric) {
	m.refreshesTotal.Collect(ch)
	m.refreshDuration.Collect(ch)
	m.pokemonProcessed.Collect(ch)
	m.batchesTotal.Collect(ch)
	m.cachedPokemon.Collect(ch)
}
