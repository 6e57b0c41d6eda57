// Package metrics - prometheus-метрики сервиса
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "infrasearch"

// Cache names
const (
	CacheGeo    = "geo"
	CacheSearch = "search"
)

var (
	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Cache lookups by cache and result",
		},
		[]string{"cache", "result"}, // "hit" / "miss"
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests to the geocoder and the query service",
		},
		[]string{"service", "endpoint", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service", "endpoint"},
	)

	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Search pipeline runs by outcome (ok, cached or error code)",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// ObserveCache учитывает попадание или промах кеша
func ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheTotal.WithLabelValues(cache, result).Inc()
}

// ObserveUpstream учитывает один запрос к внешнему сервису
func ObserveUpstream(service, endpoint, outcome string, started time.Time) {
	UpstreamRequestsTotal.WithLabelValues(service, endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(service, endpoint).Observe(time.Since(started).Seconds())
}
