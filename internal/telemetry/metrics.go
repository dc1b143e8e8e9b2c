// Package telemetry registers the system's Prometheus metrics against the
// default registry. The HTTP server exposes them at GET /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal counts successfully logged scans, labelled by the resulting
	// action (ENTRY or EXIT).
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardaccess",
			Name:      "scans_total",
			Help:      "Total scans logged, by resulting action.",
		},
		[]string{"action"},
	)

	// ScanRejectionsTotal counts scans of unregistered cards.
	ScanRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cardaccess",
			Name:      "scan_rejections_total",
			Help:      "Total scans rejected because the card was not registered.",
		},
	)

	// RegistrationsTotal counts registration attempts, labelled by outcome
	// (ok, conflict, invalid).
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardaccess",
			Name:      "registrations_total",
			Help:      "Total registration attempts, by outcome.",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal is labelled by method, route pattern, and status code.
	// The path label holds the mux pattern (e.g. /users/{card_id}), not the
	// raw URL, to keep label cardinality bounded.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardaccess",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed, by method, route pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration is labelled by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cardaccess",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distributions, by method and route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)
