// Package metrics defines and registers all custom Prometheus metrics for the
// clinic portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on /metrics next to the echo
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic_portal"

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionChecksTotal counts resolved session checks.
// Label:
//   - result: "authenticated", "unauthenticated"
var SessionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_checks_total",
		Help:      "Total number of session checks against the auth service, by outcome.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh attempts triggered by an expired access token.
// Label:
//   - result: "ok" or "failed"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refreshes, by outcome.",
	},
	[]string{"result"},
)

// GateDecisionsTotal counts protected-route decisions.
// Label:
//   - decision: "authorized", "signin", "unauthorized"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of protected route decisions.",
	},
	[]string{"decision"},
)

// ── Upstream metrics ─────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the clinic API and the auth service.
// Labels:
//   - service: "api" or "auth"
//   - method:  HTTP method
//   - outcome: "ok" or an error kind such as "not_found", "unavailable"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream calls, by service, method and outcome.",
	},
	[]string{"service", "method", "outcome"},
)

// UpstreamRequestDuration measures round-trip latency of upstream calls.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream calls from request to response body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service", "method"},
)

// ── Booking metrics ──────────────────────────────────────────────────────────

// BookingsTotal counts booking submissions.
// Label:
//   - result: "created", "failed", "duplicate"
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of booking submissions, by result.",
	},
	[]string{"result"},
)

// FallbackServedTotal counts list views answered with sample data.
// Label:
//   - view: "records", "requisitions", "requisitionResults", "doctors"
var FallbackServedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_served_total",
		Help:      "Total number of views served from the degraded-mode sample catalog.",
	},
	[]string{"view"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by action and persistence result.
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by action and result (stored/failed/dropped).",
	},
	[]string{"action", "result"},
)
