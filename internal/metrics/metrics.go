// Package metrics holds the Prometheus collectors shared by the catalog
// client and the popularity components.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess     = "success"
	OutcomeTransport   = "transport_error"
	OutcomeApplication = "application_error"
	OutcomeCreated     = "created"
	OutcomeIncremented = "incremented"
	OutcomeFailed      = "failed"
	OutcomeEmpty       = "empty"
)

var (
	// CatalogRequestsTotal counts catalog calls by endpoint and outcome.
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flik_catalog_requests_total",
			Help: "Total number of movie catalog requests",
		},
		[]string{"endpoint", "outcome"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flik_catalog_request_duration_seconds",
			Help:    "Duration of movie catalog requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	// PopularityRecordsTotal counts detached popularity recordings.
	PopularityRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flik_popularity_records_total",
			Help: "Total number of search popularity recordings by outcome",
		},
		[]string{"outcome"},
	)

	TrendingLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flik_trending_loads_total",
			Help: "Total number of trending list loads by outcome",
		},
		[]string{"outcome"},
	)

	// StoreBreakerState is 0 closed, 1 half-open, 2 open.
	StoreBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flik_store_breaker_state",
			Help: "Circuit breaker state of the popularity store (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

func ObserveCatalogRequest(endpoint, outcome string, elapsed time.Duration) {
	CatalogRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func RecordPopularity(outcome string) {
	PopularityRecordsTotal.WithLabelValues(outcome).Inc()
}

func RecordTrendingLoad(outcome string) {
	TrendingLoadsTotal.WithLabelValues(outcome).Inc()
}

func SetBreakerState(name string, state float64) {
	StoreBreakerState.WithLabelValues(name).Set(state)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve blocks serving /metrics on addr until the server fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
