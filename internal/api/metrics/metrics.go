// Package metrics defines and registers all custom Prometheus metrics for the
// wallet API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Every metric is registered with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wallet"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthAttemptsTotal counts account lifecycle calls.
// Labels:
//   - operation: "register", "register_admin", "login" or "logout"
//   - result: "success" or a short failure reason (e.g. "wrong_credentials")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register, login and logout attempts by result.",
	},
	[]string{"operation", "result"},
)

// GateDecisionsTotal counts authentication gate outcomes.
// Label:
//   - outcome: "accepted", "refreshed" or "rejected"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of authentication gate decisions by outcome.",
	},
	[]string{"outcome"},
)

// PolicyDenialsTotal counts authorization failures per declared operation.
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"operation"},
)

// ── Session audit metrics ─────────────────────────────────────────────────────

// SessionEventsProcessedTotal counts audit events that were persisted.
// Label:
//   - kind: "registered", "logged_in" or "logged_out"
var SessionEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_processed_total",
		Help:      "Total number of session audit events persisted.",
	},
	[]string{"kind"},
)

// SessionEventsErrorsTotal counts audit events that were lost.
// Label:
//   - reason: "queue_full" or "store_failed"
var SessionEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_errors_total",
		Help:      "Total number of session audit events that could not be persisted.",
	},
	[]string{"reason"},
)

// SessionEventsQueueDepth tracks pending events per dispatcher worker.
var SessionEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SessionEventDuration measures how long persisting a single event takes.
var SessionEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_event_duration_seconds",
		Help:      "Duration of session event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// TransactionsCreatedTotal counts successful transaction create requests.
// Label:
//   - idempotency_key: "true" when the request carried an Idempotency-Key
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transaction create requests served.",
	},
	[]string{"idempotency_key"},
)
