// Package metrics defines and registers all custom Prometheus metrics for the
// records API auth subsystem. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// init; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "surgassist"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid", or "locked"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LockoutsTotal counts accounts newly locked by the failure threshold.
var LockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lockouts_total",
		Help:      "Total number of accounts locked out after repeated login failures.",
	},
)

// ── Session token metrics ─────────────────────────────────────────────────────

// TokenVerificationsTotal counts bearer-token verifications at the middleware.
// Label:
//   - outcome: "valid" or "invalid" (malformed, bad signature, and expired
//     are deliberately not distinguished)
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token verifications, by outcome.",
	},
	[]string{"outcome"},
)

// ── Password reset metrics ────────────────────────────────────────────────────

// ResetRequestsTotal counts reset-request calls. No outcome label on purpose:
// the response is identical whether or not the account exists, and the metric
// mirrors that.
var ResetRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_requests_total",
		Help:      "Total number of password reset requests received.",
	},
)

// ResetRedemptionsTotal counts reset-redemption calls.
// Label:
//   - outcome: "success", "invalid_token", or "weak_password"
var ResetRedemptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_redemptions_total",
		Help:      "Total number of password reset redemptions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events lost to a full buffer or a
// failed write. The audit sink is best-effort; this counter is how that
// best-effort is watched.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped instead of written.",
	},
)

// AuditQueueDepth tracks the current number of audit events waiting to be written.
var AuditQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in the writer channel.",
	},
)
