package utils

import (
	"context"
	"errors"

	"auth-service/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotInt       = errors.New("userID in context is not an int")
	ErrUsernameNotFound   = errors.New("username not found in context")
	ErrUsernameNotString  = errors.New("username in context is not a string")
	ErrSessionIDNotFound  = errors.New("sessionID not found in context")
	ErrSessionIDNotString = errors.New("sessionID in context is not a string")
)

// GetUserIDFromContext retrieves the authenticated user's ID from the context.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return 0, ErrUserIDNotFound
	}
	userID, ok := val.(int)
	if !ok {
		return 0, ErrUserIDNotInt
	}
	return userID, nil
}

// GetUsernameFromContext retrieves the authenticated user's username from the context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UsernameKey)
	if val == nil {
		return "", ErrUsernameNotFound
	}
	username, ok := val.(string)
	if !ok {
		return "", ErrUsernameNotString
	}
	return username, nil
}

// GetSessionIDFromContext retrieves the session identifier from the context.
func GetSessionIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.SessionIDKey)
	if val == nil {
		return "", ErrSessionIDNotFound
	}
	sessionID, ok := val.(string)
	if !ok {
		return "", ErrSessionIDNotString
	}
	return sessionID, nil
}

// WithUserID returns a context carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithUsername returns a context carrying the authenticated user's username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextkeys.UsernameKey, username)
}

// WithSessionID returns a context carrying the session identifier.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextkeys.SessionIDKey, sessionID)
}
