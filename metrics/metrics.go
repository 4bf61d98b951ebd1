// Package metrics holds the Prometheus collectors shared by the API layer
// and the domain services. Everything is registered via promauto on the
// default registry and served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPDuration observes request latency per route and status class.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "toolgrid_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// SubmissionsTotal counts submission outcomes: accepted_pending,
	// accepted_verified, rejected_validation, rejected_conflict, failed.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolgrid_submissions_total",
		Help: "Project submissions by outcome.",
	}, []string{"outcome"})

	// ModerationTotal counts moderation decisions by action.
	ModerationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolgrid_moderation_decisions_total",
		Help: "Moderation decisions by action.",
	}, []string{"action"})

	// LoginAttempts counts admin login attempts by result.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolgrid_admin_login_attempts_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})
)
