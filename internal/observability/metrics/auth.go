package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	LoginFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_failures_total",
			Help: "Total number of failed logins by reason",
		},
		[]string{"reason"},
	)

	SessionsEstablished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_established_total",
			Help: "Total number of sessions established",
		},
	)

	SessionsDestroyed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_destroyed_total",
			Help: "Total number of sessions destroyed by logout",
		},
	)

	SessionLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_lookups_total",
			Help: "Total number of session lookups by outcome",
		},
		[]string{"outcome"},
	)

	ProvisionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_runs_total",
			Help: "Total number of default admin provisioning runs by outcome",
		},
		[]string{"outcome"},
	)
)
