package repository

import (
	"context"

	"auth-service/internal/auth/domain/model"
)

// SessionStats is a best-effort snapshot of the store. Concurrent mutations
// may race it; the counts are not guaranteed to be mutually consistent.
type SessionStats struct {
	TotalSessions  int `json:"totalSessions"`
	ActiveSessions int `json:"activeSessions"`
}

// SessionStore is the authoritative registry of live sessions. Implementations
// must be safe for concurrent use; every operation is individually atomic.
type SessionStore interface {
	// Create inserts a new session for the user and returns its identifier.
	// Creation opportunistically sweeps expired entries.
	Create(ctx context.Context, userID int, ipAddress, userAgent string) (string, error)

	// Validate looks up a session by ID. Expired sessions are removed and
	// reported as absent; "expired" and "never existed" are observably
	// identical. A successful validation refreshes the session's
	// last-accessed time (sliding-window expiration).
	Validate(ctx context.Context, sessionID string) (*model.Session, bool)

	// Destroy removes the session if present and reports whether it existed.
	// Destroying an absent session is not an error.
	Destroy(ctx context.Context, sessionID string) bool

	// ListByUser returns all live sessions owned by the user in insertion order.
	ListByUser(ctx context.Context, userID int) []model.Session

	// DestroyAllByUser removes every session owned by the user and returns the
	// count removed.
	DestroyAllByUser(ctx context.Context, userID int) int

	// SweepExpired removes all entries past the expiration window and returns
	// the count removed.
	SweepExpired(ctx context.Context) int

	// Stats returns a snapshot of total and not-yet-expired session counts.
	Stats(ctx context.Context) SessionStats
}
