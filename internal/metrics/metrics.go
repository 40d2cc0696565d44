// Package metrics holds the resolver's prometheus collectors, grouped
// the way the teacher's internal/infrastructure/metrics package groups
// its server-side collectors: package-level vars created with promauto
// so registration happens once at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts every resolved query by record type, result
	// code, and transport.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stubresolve_queries_total",
		Help: "Total number of DNS queries resolved",
	}, []string{"qtype", "rcode", "transport"})

	// QueryDuration observes end-to-end GetResponse latency.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stubresolve_query_duration_seconds",
		Help:    "Histogram of query resolution duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"transport"})

	// CacheOperations counts cache hits and misses.
	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stubresolve_cache_operations_total",
		Help: "Total number of cache hits and misses",
	}, []string{"result"})

	// RetriesTotal counts per-server transport attempts beyond the first.
	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stubresolve_retries_total",
		Help: "Total number of retry attempts issued after an initial transport failure",
	}, []string{"transport"})
)
