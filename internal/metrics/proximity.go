package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gridprox"

// Upstream, cache and query Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to external data services",
		},
		[]string{"service", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "External data service request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DistanceQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_queries_total",
			Help:      "Total number of per-voltage distance computations",
		},
		[]string{"voltage"},
	)
)

var proximityMetricsRegistered bool

// RegisterMetrics registers Prometheus proximity metrics. Must be called once from main.
func RegisterMetrics() {
	if proximityMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(DistanceQueriesTotal)
	proximityMetricsRegistered = true
}

// ObserveUpstream records one request to an external service.
// status is the HTTP status code, or 0 when the request failed before a response.
func ObserveUpstream(service string, status int, started time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(service, label).Inc()
	UpstreamRequestDuration.WithLabelValues(service).Observe(time.Since(started).Seconds())
}

// ObserveDistance records a distance computation for one voltage class.
func ObserveDistance(voltageKV int) {
	DistanceQueriesTotal.WithLabelValues(strconv.Itoa(voltageKV) + "kV").Inc()
}
