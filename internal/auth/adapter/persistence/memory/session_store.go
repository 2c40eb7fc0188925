// Package memory provides in-process persistence adapters. Sessions live only
// in the process that created them; there is no cross-process coordination.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"auth-service/internal/auth/domain/model"
	"auth-service/internal/auth/domain/repository"
	"auth-service/internal/shared/logger"
	"auth-service/internal/shared/metrics"

	"github.com/google/uuid"
)

// sessionEntry wraps a session with its insertion sequence so ListByUser can
// return insertion order without keeping a second structure.
type sessionEntry struct {
	session model.Session
	seq     uint64
}

// SessionStore implements repository.SessionStore with a mutex-guarded map.
// Expiration is a sliding window: every successful Validate refreshes the
// last-accessed time. A session idle for exactly the window is still valid;
// expiry requires idle time strictly greater than the window.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	window   time.Duration
	seq      uint64

	// now is replaceable in tests
	now func() time.Time

	log logger.Logger
}

// NewSessionStore creates an empty store with the given expiration window.
func NewSessionStore(window time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		window:   window,
		now:      time.Now,
		log:      logger.WithComponent("session_store"),
	}
}

// Create inserts a new session and returns its identifier. It triggers an
// opportunistic sweep of expired entries; the sweep is a single bounded pass
// and holds the lock only for its own duration.
func (s *SessionStore) Create(ctx context.Context, userID int, ipAddress, userAgent string) (string, error) {
	now := s.now()
	id := newSessionID(now)

	s.mu.Lock()
	s.seq++
	s.sessions[id] = &sessionEntry{
		session: model.Session{
			ID:           id,
			UserID:       userID,
			CreatedAt:    now,
			LastAccessed: now,
			IPAddress:    ipAddress,
			UserAgent:    userAgent,
		},
		seq: s.seq,
	}
	s.mu.Unlock()

	metrics.SessionsCreated.Inc()
	s.log.WithFields(map[string]interface{}{"user_id": userID, "session_id": id}).Debug("Session started")

	s.SweepExpired(ctx)
	return id, nil
}

// Validate looks up a session. Expired entries are removed lazily here;
// the caller cannot tell an expired session from one that never existed.
// A hit refreshes the last-accessed time.
func (s *SessionStore) Validate(ctx context.Context, sessionID string) (*model.Session, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}

	if entry.session.Expired(now, s.window) {
		delete(s.sessions, sessionID)
		metrics.SessionsExpired.Inc()
		s.log.WithFields(map[string]interface{}{"session_id": sessionID}).Debug("Session expired and removed")
		return nil, false
	}

	entry.session.LastAccessed = now
	copied := entry.session
	return &copied, true
}

// Destroy removes the session unconditionally and reports whether it existed.
func (s *SessionStore) Destroy(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if existed {
		metrics.SessionsDestroyed.Inc()
		s.log.WithFields(map[string]interface{}{"session_id": sessionID}).Debug("Session destroyed")
	}
	return existed
}

// ListByUser returns copies of all live sessions owned by the user in
// insertion order. Sessions are copied under the lock; a concurrent Validate
// refreshing a last-accessed time must never tear a returned value.
func (s *SessionStore) ListByUser(ctx context.Context, userID int) []model.Session {
	s.mu.Lock()
	entries := make([]sessionEntry, 0)
	for _, entry := range s.sessions {
		if entry.session.UserID == userID {
			entries = append(entries, *entry)
		}
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	result := make([]model.Session, len(entries))
	for i, entry := range entries {
		result[i] = entry.session
	}
	return result
}

// DestroyAllByUser removes every session owned by the user and returns the
// count removed. Used for "log out everywhere".
func (s *SessionStore) DestroyAllByUser(ctx context.Context, userID int) int {
	s.mu.Lock()
	destroyed := 0
	for id, entry := range s.sessions {
		if entry.session.UserID == userID {
			delete(s.sessions, id)
			destroyed++
		}
	}
	s.mu.Unlock()

	if destroyed > 0 {
		metrics.SessionsDestroyed.Add(float64(destroyed))
		s.log.WithFields(map[string]interface{}{"user_id": userID, "count": destroyed}).Debug("Destroyed user sessions")
	}
	return destroyed
}

// SweepExpired removes all entries past the expiration window in one pass.
// Safe to call concurrently with itself and every other operation.
func (s *SessionStore) SweepExpired(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	cleaned := 0
	for id, entry := range s.sessions {
		if entry.session.Expired(now, s.window) {
			delete(s.sessions, id)
			cleaned++
		}
	}
	s.mu.Unlock()

	if cleaned > 0 {
		metrics.SessionsExpired.Add(float64(cleaned))
		s.log.WithFields(map[string]interface{}{"count": cleaned}).Debug("Cleaned up expired sessions")
	}
	return cleaned
}

// Stats returns a best-effort snapshot of the store.
func (s *SessionStore) Stats(ctx context.Context) repository.SessionStats {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := repository.SessionStats{TotalSessions: len(s.sessions)}
	for _, entry := range s.sessions {
		if !entry.session.Expired(now, s.window) {
			stats.ActiveSessions++
		}
	}
	return stats
}

// newSessionID combines a high-resolution clock component with a
// cryptographically random one, so identifiers are collision-safe and not
// derivable from the timestamp alone.
func newSessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("sess_%s_%s", strconv.FormatInt(now.UnixNano(), 36), random)
}

// Ensure SessionStore implements the SessionStore interface
var _ repository.SessionStore = (*SessionStore)(nil)
