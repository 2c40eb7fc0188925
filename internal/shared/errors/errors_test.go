package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	apperrors "auth-service/internal/shared/errors"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Wrapping(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperrors.NewInfrastructureError("lookup failed").
		WithComponent("user_repository").
		WithCause(cause)

	assert.Equal(t, "lookup failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.Equal(t, "user_repository", err.Component)
}

func TestAppError_Builders(t *testing.T) {
	err := apperrors.NewValidationError("username required").
		WithCode("MISSING_FIELD").
		WithDetail("field", "username")

	assert.Equal(t, apperrors.ErrorTypeValidation, err.Type)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "MISSING_FIELD", err.Code)
	assert.Equal(t, "username", err.Details["field"])
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, apperrors.IsNotFound(apperrors.NewNotFoundError("user")))
	assert.True(t, apperrors.IsNotFound(apperrors.ErrUserNotFound))
	assert.False(t, apperrors.IsNotFound(apperrors.NewValidationError("nope")))

	assert.True(t, apperrors.IsAuthentication(apperrors.NewAuthenticationError("denied")))
	assert.True(t, apperrors.IsAuthentication(apperrors.ErrUnauthorized))
	assert.False(t, apperrors.IsAuthentication(stderrors.New("other")))
}

func TestWrapError(t *testing.T) {
	// An AppError passes through unchanged.
	original := apperrors.NewValidationError("bad input")
	assert.Same(t, original, apperrors.WrapError(original, "ignored"))

	wrapped := apperrors.WrapError(stderrors.New("boom"), "operation failed")
	assert.Equal(t, apperrors.ErrorTypeInternal, wrapped.Type)
	assert.Equal(t, "operation failed: boom", wrapped.Error())
}
