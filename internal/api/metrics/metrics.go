// Package metrics defines and registers all custom Prometheus metrics for the
// mentoring API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mentoring"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// GateDenialsTotal counts requests rejected by the role gate.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var GateDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_denials_total",
		Help:      "Total number of requests denied by the role gate.",
	},
	[]string{"reason"},
)

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationsCreatedTotal counts newly created reservations.
// Label:
//   - replay: "true" when served from the idempotency store, else "false"
var ReservationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations created.",
	},
	[]string{"replay"},
)

// ReservationTransitionsTotal counts applied status transitions.
// Label:
//   - status: the new reservation status ("confirmed" or "canceled")
var ReservationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_transitions_total",
		Help:      "Total number of reservation status transitions applied.",
	},
	[]string{"status"},
)

// ReservationErrorsTotal counts rejected reservation operations.
// Labels:
//   - operation: "create" or "update_status"
//   - reason: short description (e.g. "no_availability", "invalid_card", "card_expired")
var ReservationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_errors_total",
		Help:      "Total number of reservation operations rejected, by reason.",
	},
	[]string{"operation", "reason"},
)

// SeatsRemaining tracks the last observed number of places per service.
// Label:
//   - service_id: the offering identifier
var SeatsRemaining = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "service_seats_remaining",
		Help:      "Last observed number of places left per service.",
	},
	[]string{"service_id"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts activity events dropped because their shard was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped on a full dispatcher shard.",
	},
)

// ActivityProcessingDuration measures how long recording one activity event takes.
// Label:
//   - kind: the activity kind, or "error" on failure
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity recording from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
