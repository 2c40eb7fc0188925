package testutil

import (
	"time"

	"auth-service/internal/auth/domain/model"

	"golang.org/x/crypto/bcrypt"
)

// UserFixture provides test data for the User model
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// ValidUser returns a valid user for testing
func (f *UserFixture) ValidUser() *model.User {
	return &model.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
	}
}

// UserWithPassword returns a user with the given credentials, hashed
func (f *UserFixture) UserWithPassword(id int, username, password, email string) *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
}

// SessionFixture provides test data for the Session model
type SessionFixture struct{}

// NewSessionFixture creates a new SessionFixture instance
func NewSessionFixture() *SessionFixture {
	return &SessionFixture{}
}

// ValidSession returns a fresh session owned by the given user
func (f *SessionFixture) ValidSession(userID int) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:           "sess_fixture_0001",
		UserID:       userID,
		CreatedAt:    now,
		LastAccessed: now,
		IPAddress:    "127.0.0.1",
		UserAgent:    "test-agent",
	}
}

// IdleSession returns a session that has been idle for the given duration
func (f *SessionFixture) IdleSession(userID int, idle time.Duration) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:           "sess_fixture_0002",
		UserID:       userID,
		CreatedAt:    now.Add(-idle),
		LastAccessed: now.Add(-idle),
		IPAddress:    "127.0.0.1",
		UserAgent:    "test-agent",
	}
}
