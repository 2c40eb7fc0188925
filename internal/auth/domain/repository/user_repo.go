package repository

import (
	"context"

	"auth-service/internal/auth/domain/model"
)

// UserRepository defines the credential validation collaborator. The auth flow
// only consumes its results; how credentials are stored and checked is an
// implementation concern of the adapter.
type UserRepository interface {
	// ValidateCredentials returns the user matching the username/password pair,
	// or model.ErrInvalidCredentials. Unknown username and wrong password are
	// indistinguishable to the caller.
	ValidateCredentials(ctx context.Context, username, password string) (*model.User, error)

	// GetUserByID returns the user with the given ID, or model.ErrUserNotFound.
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}
