package service

import "github.com/weblogin/weblogin/internal/observability/metrics"

func incrementLoginAttempts() {
	metrics.LoginAttemptsTotal.Inc()
}

func incrementLoginFailure(reason string) {
	metrics.LoginFailuresTotal.WithLabelValues(reason).Inc()
}

func incrementProvisionRun(outcome string) {
	metrics.ProvisionRunsTotal.WithLabelValues(outcome).Inc()
}
