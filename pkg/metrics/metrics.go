// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Credential lifecycle events by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	SessionRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_rejections_total",
			Help: "Requests rejected by the authorization gate",
		},
	)

	NoteOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_operations_total",
			Help: "Note operations by kind and outcome",
		},
		[]string{"op", "outcome"},
	)
)

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// ObserveAuth records a credential lifecycle event.
func ObserveAuth(action string, err error) {
	AuthEventsTotal.WithLabelValues(action, outcome(err)).Inc()
}

// ObserveNote records a note operation.
func ObserveNote(op string, err error) {
	NoteOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}
