// Package metrics defines and registers all custom Prometheus metrics for the
// finboard auth service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finboard_auth"

// LoginsTotal counts login attempts against /auth/login.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "not_found", "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRestoresTotal counts session restorations from the persisted slot.
// Label:
//   - result: "restored" or "empty"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session initializations, by restoration result.",
	},
	[]string{"result"},
)

// PermissionChecksTotal counts RBAC decisions taken by the permission middleware.
// Label:
//   - result: "allowed" or "denied"
var PermissionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_checks_total",
		Help:      "Total number of permission checks, by outcome.",
	},
	[]string{"result"},
)

// AuthorizationLostTotal counts 401 responses observed by the client
// transport that forced a session teardown.
var AuthorizationLostTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_lost_total",
		Help:      "Total number of 401 responses that invalidated the session.",
	},
)
