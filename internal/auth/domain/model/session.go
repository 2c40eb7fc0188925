package model

import "time"

// Session represents one authenticated client binding. A session is owned
// exclusively by the session store; callers receive copies.
type Session struct {
	ID           string    `json:"id"`
	UserID       int       `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
}

// IdleTime returns how long the session has been idle as of now.
func (s *Session) IdleTime(now time.Time) time.Duration {
	return now.Sub(s.LastAccessed)
}

// Expired reports whether the session's idle time exceeds the window.
// The boundary is exclusive: idle time equal to the window is still valid.
func (s *Session) Expired(now time.Time, window time.Duration) bool {
	return s.IdleTime(now) > window
}
