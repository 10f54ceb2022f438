package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Document store Prometheus metrics.
var (
	StoreQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "store_queries_total",
			Help:      "Total number of document store queries",
		},
		[]string{"resource", "op", "status"}, // status: ok, not_found, error
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "store_query_duration_seconds",
			Help:      "Document store query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"resource", "op"},
	)

	StoreDocumentsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "store_documents_returned",
			Help:      "Documents returned per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		},
		[]string{"resource"},
	)
)

var registerOnce sync.Once

// Register registers HTTP and store metrics with the default registry. Call once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			StoreQueriesTotal,
			StoreQueryDuration,
			StoreDocumentsReturned,
		)
	})
}

// ObserveStoreQuery records one store round-trip.
func ObserveStoreQuery(resource, op, status string, start time.Time) {
	StoreQueriesTotal.WithLabelValues(resource, op, status).Inc()
	StoreQueryDuration.WithLabelValues(resource, op).Observe(time.Since(start).Seconds())
}
