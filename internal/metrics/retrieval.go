package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "retrieval_requests_total",
			Help:      "Total number of retrieval requests by strategy",
		},
		[]string{"strategy"},
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval duration in seconds by strategy",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	RetrievalFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "retrieval_fallbacks_total",
			Help:      "Silent fallbacks by stage (semantic, lexical stage names)",
		},
		[]string{"stage"},
	)

	IndexedItemsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "indexed_items_total",
			Help:      "Catalog items embedded and upserted into the vector store",
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalFallbacksTotal)
	prometheus.MustRegister(IndexedItemsTotal)
	retrievalMetricsRegistered = true
}
