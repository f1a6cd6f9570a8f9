// Package metrics defines and registers the custom Prometheus metrics of the
// SpaBook portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default Prometheus registry on import, which
// is the registry echoprometheus serves on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spabook/portal/internal/core/domain"
)

const namespace = "spabook"

// Result label values.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and register attempts.
// Labels:
//   - operation: "login" or "register"
//   - result: "success", "failure" or "conflict" (duplicate submit or taken email)
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and register attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AccessDeniedTotal counts requests rejected by a role or permission guard.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by session guards.",
	},
	[]string{"reason"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionChangesTotal counts committed session transitions.
// Label:
//   - kind: rehydrated, login, register, logout or session_corrupt
var SessionChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_changes_total",
		Help:      "Total number of session state transitions, by kind.",
	},
	[]string{"kind"},
)

// ActiveSessions tracks the number of authenticated sessions held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of authenticated sessions held by this instance.",
	},
)

// SessionObserver returns a session change observer that keeps the session
// metrics current. active reports the live authenticated session count.
func SessionObserver(active func() int) func(domain.SessionChange) {
	return func(c domain.SessionChange) {
		SessionChangesTotal.WithLabelValues(string(c.Kind)).Inc()
		ActiveSessions.Set(float64(active()))
	}
}
