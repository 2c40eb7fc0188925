// Package metrics exposes the Prometheus instrumentation shared by the auth
// module. Counters are registered on the default registry and served by the
// /metrics endpoint wired in cmd/main.go.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts by mode and outcome.
	// Outcomes: success, invalid_credentials, missing_credentials, error.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by authentication mode and outcome.",
	}, []string{"mode", "outcome"})

	// TokenVerifications counts token verification results.
	// Outcomes: valid, invalid, expired.
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "token_verifications_total",
		Help:      "Token verification results by outcome.",
	}, []string{"outcome"})

	// TokenRefreshes counts expired-token refresh attempts.
	// Outcomes: success, failed.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "token_refreshes_total",
		Help:      "Expired-token refresh attempts by outcome.",
	}, []string{"outcome"})

	// SessionsCreated counts sessions created by the session store.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "sessions_created_total",
		Help:      "Sessions created.",
	})

	// SessionsDestroyed counts explicit session destructions.
	SessionsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "sessions_destroyed_total",
		Help:      "Sessions destroyed by logout.",
	})

	// SessionsExpired counts sessions removed because their idle window passed,
	// either lazily on validation or by a sweep.
	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "sessions_expired_total",
		Help:      "Sessions removed after exceeding the expiration window.",
	})
)
