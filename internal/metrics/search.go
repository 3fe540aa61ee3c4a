package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "search_requests_total",
			Help:      "Total number of aggregate search requests",
		},
		[]string{"path"}, // "primary" / "text_fallback"
	)

	SourceSearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prism",
			Name:      "source_search_duration_seconds",
			Help:      "Per-source retrieval duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	SourceSearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "source_search_errors_total",
			Help:      "Per-source retrieval failures treated as empty results",
		},
		[]string{"source"},
	)

	RankedExclusionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "ranked_exclusions_total",
			Help:      "Candidates excluded by the precision ranker",
		},
		[]string{"reason"}, // "color_mismatch" / "below_cutoff"
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "embedding_requests_total",
			Help:      "Total number of query embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prism",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	HistoryWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "history_write_errors_total",
			Help:      "Best-effort history writes that failed",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SourceSearchDuration)
	prometheus.MustRegister(SourceSearchErrorsTotal)
	prometheus.MustRegister(RankedExclusionsTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(HistoryWriteErrorsTotal)
	searchMetricsRegistered = true
}
