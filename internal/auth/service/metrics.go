package service

import "github.com/semenovda/todo-vault/internal/observability/metrics"

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}

func incrementRegistrations() {
	metrics.RegistrationsTotal.Inc()
}

func incrementLoginFailures() {
	metrics.LoginFailuresTotal.Inc()
}
