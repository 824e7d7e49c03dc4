package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading client: %w", NewNotFoundError("Client"))
	appErr := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Client not found", appErr.Message)

	raw := errors.New("pq: connection refused")
	appErr = GetAppError(raw)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.NotContains(t, appErr.Message, "pq")
	assert.ErrorIs(t, appErr, raw)
}

func TestTransientErrorKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := NewTransientError("Tax registry unavailable", cause)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsAppError(err))
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("tax_id", "must have 11 digits")
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, []FieldError{{Field: "tax_id", Message: "must have 11 digits"}}, err.Errors)
}
