package usecase

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK           = "ok"
	resultFailed       = "failed"
	resultInvalidToken = "invalid_token"
	resultExpired      = "expired"
	resultRevoked      = "revoked"
	resultStoreFailure = "store_failure"
)

// Metrics for session authentication.
var (
	// sessionsIssued counts IssueSession outcomes past validation.
	sessionsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cah_sessions_issued_total",
		Help: "Total number of session issue attempts that reached the store",
	}, []string{"result"})

	// authAttempts counts Authenticate calls by outcome.
	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cah_session_authentications_total",
		Help: "Total number of session authentications",
	}, []string{"result"})

	authDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cah_session_authentication_duration_seconds",
		Help:    "Histogram of session authentication latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	sessionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cah_sessions_revoked_total",
		Help: "Total number of sessions transitioned to revoked",
	})
)

func authResult(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrInvalidToken):
		return resultInvalidToken
	case errors.Is(err, ErrSessionExpired):
		return resultExpired
	case errors.Is(err, ErrSessionRevoked):
		return resultRevoked
	default:
		return resultStoreFailure
	}
}
