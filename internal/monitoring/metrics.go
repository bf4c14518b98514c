package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_lookups_total",
			Help: "Search cache lookups by operation kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	cacheFlushes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_cache_flushes_total",
			Help: "Tag-based cache invalidations",
		},
	)
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
)

// Init registers custom collectors.
func Init() {
	prometheus.MustRegister(searchCacheLookups, cacheFlushes, requestCounter)
}

// ObserveCacheLookup records a search cache hit or miss.
func ObserveCacheLookup(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	searchCacheLookups.WithLabelValues(kind, outcome).Inc()
}

// ObserveCacheFlush records a tag invalidation.
func ObserveCacheFlush() {
	cacheFlushes.Inc()
}

// ObserveRequest records request metrics.
func ObserveRequest(path, method, status string) {
	requestCounter.WithLabelValues(path, method, status).Inc()
}
