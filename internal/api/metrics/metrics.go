// Package metrics defines and registers the custom Prometheus metrics of the
// portal. Metrics are registered on the default registry at package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── View-state metrics ────────────────────────────────────────────────────────

// PageLoadsTotal counts synchronized page loads.
// Labels:
//   - page: "home" or "publish"
//   - classification: "GUEST" or "LOGGED_IN"
var PageLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_loads_total",
		Help:      "Total number of page loads, by page and session classification.",
	},
	[]string{"page", "classification"},
)

// LogoutsTotal counts logout attempts.
// Label:
//   - outcome: "confirmed", "declined" or "prompted"
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PreferencesRecordedTotal counts preferred-role writes by role.
var PreferencesRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preferences_recorded_total",
		Help:      "Total number of preferred-role writes, by role.",
	},
	[]string{"role"},
)

// GuardDecisionsTotal counts guarded navigations.
// Label:
//   - decision: "allowed" or "redirected"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of guarded navigations, by decision.",
	},
	[]string{"decision"},
)

// SessionsMintedTotal counts new session ids issued to browsers without a
// valid cookie.
var SessionsMintedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_minted_total",
		Help:      "Total number of session cookies minted.",
	},
)

// ── Activity pipeline metrics ─────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts events dropped because a worker queue was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped on a full queue.",
	},
)

// ActivityProcessingDuration measures dequeue-to-persistence time.
// Label:
//   - kind: the activity kind, or "error" on failure
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
