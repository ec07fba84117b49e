package errors

import (
	"net/http"
	"testing"

	"accounts/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_WrapMessageKeepsIdentity(t *testing.T) {
	err := ErrAccountNotFound.WrapMessage("account 42")

	assert.True(t, errors.Is(err, ErrAccountNotFound))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, "account 42: User not found", err.Error())
}

func TestBaseError_WithDetailsMatchesOriginal(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("email is required")

	assert.True(t, errors.Is(detailed, ErrValidationFailed))
	assert.Equal(t, "email is required", detailed.Details())
	assert.Empty(t, ErrValidationFailed.Details())
}

func TestAsAppError(t *testing.T) {
	wrapped := errors.Wrap(ErrInvalidCredentials, "login")
	appErr := AsAppError(wrapped, ErrInternalError)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.ErrorCode())

	fallback := AsAppError(errors.New("boom"), ErrInternalError)
	assert.Equal(t, ErrInternalError, fallback)
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "failed to create account")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Equal(t, "failed to create account", err.Details())
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, cause))
}

func TestErrNoAccountsFound_IsNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrNoAccountsFound, ErrAccountNotFound))
	assert.Equal(t, http.StatusNotFound, ErrNoAccountsFound.HTTPCode())
	assert.Equal(t, "No users found", ErrNoAccountsFound.Message())
}
