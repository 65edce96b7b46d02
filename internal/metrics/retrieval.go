package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinecase",
			Name:      "retrievals_total",
			Help:      "Total number of retrieval requests",
		},
		[]string{"status"},
	)

	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cinecase",
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval ranking duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RetrievalCasesScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cinecase",
			Name:      "retrieval_cases_scored_total",
			Help:      "Total cases scored across all retrievals",
		},
	)

	CaseBaseSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cinecase",
			Name:      "case_base_size",
			Help:      "Number of cases currently loaded",
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalCasesScored)
	prometheus.MustRegister(CaseBaseSize)
	retrievalMetricsRegistered = true
}
