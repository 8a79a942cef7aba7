package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks outbound PokéAPI requests.
type UpstreamMetrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewUpstreamMetrics creates and registers upstream request metrics.
func NewUpstreamMetrics(registry *prometheus.Registry) (*UpstreamMetrics, error) {
	m := &UpstreamMetrics{registry: registry}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"host", "status_code"}, // status_code: 200, 404, ... or "error" on transport failure
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Time taken by upstream API requests",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount10), // 10ms to ~5s
		},
		[]string{"host"},
	)

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register upstream metrics: %w", err)
	}
	return m, nil
}

// RecordRequest records one upstream request. statusCode is 0 when no response arrived.
func (m *UpstreamMetrics) RecordRequest(host string, statusCode int, seconds float64) {
	code := StatusError
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.requestsTotal.WithLabelValues(host, code).Inc()
	m.requestDuration.WithLabelValues(host).Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *UpstreamMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *UpstreamMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
}
