// Package metrics defines and registers the custom Prometheus metrics of the
// books API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "books"

// ── Book metrics ──────────────────────────────────────────────────────────────

// BookMutationsTotal counts successful writes to the catalogue.
// Label:
//   - op: "create", "update", "patch" or "delete"
var BookMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_mutations_total",
		Help:      "Total number of successful book writes, by operation.",
	},
	[]string{"op"},
)

// ConstraintViolationsTotal counts writes rejected by the store.
var ConstraintViolationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "constraint_violations_total",
		Help:      "Total number of writes rejected by a store constraint.",
	},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly registered users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// AuthAttemptsTotal counts credential checks.
// Label:
//   - result: "success", "failure" or "throttled"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential checks, by result.",
	},
	[]string{"result"},
)
