// Package metrics defines and registers the custom Prometheus metrics for the
// game backend. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jemn"

// Result label values shared by the auth counters.
const (
	ResultSuccess            = "success"
	ResultInvalid            = "invalid"
	ResultDuplicate          = "duplicate"
	ResultInvalidCredentials = "invalid_credentials"
	ResultError              = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "invalid", "duplicate" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests, with or without an active session.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

// ── Score metrics ─────────────────────────────────────────────────────────────

// ScoresSubmittedTotal counts scores that were persisted.
var ScoresSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_submitted_total",
		Help:      "Total number of scores saved.",
	},
)

// SubmittedScore observes the distribution of saved score values.
var SubmittedScore = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "submitted_score",
		Help:      "Distribution of saved score values.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10), // 1 … 262144
	},
)
