package model

import "errors"

// Common user-related errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a user identity in the system. The password hash never
// leaves the repository layer in responses.
type User struct {
	ID           int    `json:"id" bson:"id"`
	Username     string `json:"username" bson:"username"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash,omitempty"`
}

// Public returns the externally visible projection of the user.
func (u *User) Public() *User {
	return &User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
