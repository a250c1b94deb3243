package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PasteCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugbin_paste_created_total",
		Help: "no. of pastes created",
	})
	PasteRetrieved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugbin_paste_retrieved_total",
		Help: "no. of pastes retrieved",
	})
	PasteDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugbin_paste_deleted_total",
		Help: "no. of explicit deletes",
	})
	ExpiredReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugbin_expired_reaped_total",
		Help: "no. of expired pastes deleted lazily during read/list",
	})
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugbin_cache_hits_total",
		Help: "no. of LRU cache hits",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugbin_cache_misses_total",
		Help: "no. of LRU cache misses",
	})
	ListDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slugbin_list_duration_seconds",
		Help:    "duration of full enumerations",
		Buckets: prometheus.DefBuckets,
	})
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slugbin_rate_limit_hits_total",
			Help: "no. of rate limit violations",
		},
		[]string{"endpoint"},
	)
)
