package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh hits by kind and result (positive, negative)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poiskkino_cache_hits_total",
			Help: "Total number of PoiskKino response cache hits",
		},
		[]string{"kind", "result"},
	)

	// CacheMisses tracks misses, including stale entries
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poiskkino_cache_misses_total",
			Help: "Total number of PoiskKino response cache misses",
		},
		[]string{"kind"},
	)

	// CacheEvictions tracks stale entries removed on lookup
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poiskkino_cache_evictions_total",
			Help: "Total number of stale entries evicted on lookup",
		},
		[]string{"kind"},
	)

	// CacheEntries tracks the number of stored entries per kind
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poiskkino_cache_entries",
			Help: "Current number of entries in the PoiskKino response cache",
		},
		[]string{"kind"},
	)
)
