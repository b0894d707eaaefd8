// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookshelf_api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ImportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_import_runs_total",
			Help: "Total number of import runs by terminal state",
		},
		[]string{"state"},
	)

	ImportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_import_items_total",
			Help: "Items seen by import runs, split into inserted and duplicate",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordImportRun records the outcome of one import run.
func RecordImportRun(state string, inserted, duplicates int) {
	ImportRunsTotal.WithLabelValues(state).Inc()
	if inserted > 0 {
		ImportItemsTotal.WithLabelValues("inserted").Add(float64(inserted))
	}
	if duplicates > 0 {
		ImportItemsTotal.WithLabelValues("duplicate").Add(float64(duplicates))
	}
}
