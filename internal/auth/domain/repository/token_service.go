package repository

import (
	"context"
	"errors"

	"auth-service/internal/auth/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// Token failure sentinels. Implementations translate their library's errors
// into these so callers never depend on an adapter package.
var (
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// TokenService defines the interface for stateless token operations
type TokenService interface {
	// GenerateToken issues a signed token embedding the user's identity.
	GenerateToken(ctx context.Context, user *model.User) (string, error)

	// ValidateToken verifies signature and expiry, returning the claims.
	// Fails with ErrTokenExpired or ErrTokenInvalid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// RefreshToken re-issues a token from an expired but authentically signed
	// token. The signature must still verify; only the expiry may have passed.
	RefreshToken(ctx context.Context, tokenString string) (string, error)
}

// Claims represents JWT claims carrying the user identity
type Claims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Identity returns the user identity embedded in the claims.
func (c *Claims) Identity() *model.User {
	return &model.User{
		ID:       c.UserID,
		Username: c.Username,
		Email:    c.Email,
	}
}
