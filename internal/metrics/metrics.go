package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pkgscout",
		Name:      "source_requests_total",
		Help:      "Total queries to package sources by source name and result status.",
	}, []string{"source", "status"})

	SourceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pkgscout",
		Name:      "source_request_duration_seconds",
		Help:      "Package source query duration in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45},
	}, []string{"source"})

	SourceAvailable = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pkgscout",
		Name:      "source_available",
		Help:      "Whether a source is available (1) or blocked after repeated failures (0).",
	}, []string{"source"})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgscout",
		Name:      "cache_hits_total",
		Help:      "Total number of result cache hits.",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgscout",
		Name:      "cache_misses_total",
		Help:      "Total number of result cache misses.",
	})

	CacheEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgscout",
		Name:      "cache_evictions_total",
		Help:      "Total cache entries removed by expiry sweeps or capacity eviction.",
	})

	CompletionLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pkgscout",
		Name:      "completion_lookups_total",
		Help:      "Completion lookups by resolution path (alias, trie, none).",
	}, []string{"path"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		SourceRequestsTotal,
		SourceRequestDuration,
		SourceAvailable,
		CacheHitsTotal,
		CacheMissesTotal,
		CacheEvictionsTotal,
		CompletionLookupsTotal,
	)
}
