// Package metrics содержит счетчики Prometheus для наблюдения за сервисом.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts — количество попыток аутентификации по результату.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_auth_attempts_total",
		Help: "Number of authentication attempts by result.",
	}, []string{"result"})

	// TrialGrants — количество выданных пробных периодов.
	TrialGrants = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatekeeper_trial_grants_total",
		Help: "Number of trial subscriptions granted to first-time users.",
	})

	// AdminOverrides — количество административных замен подписок по плану.
	AdminOverrides = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_admin_overrides_total",
		Help: "Number of administrative subscription overrides by plan kind.",
	}, []string{"plan_kind"})
)
