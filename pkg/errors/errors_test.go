package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewBadRequestError("bad"), http.StatusBadRequest},
		{NewValidationError("limit"), http.StatusBadRequest},
		{NewTooManyRequestsError(), http.StatusTooManyRequests},
		{NewNotFoundError("recommendation"), http.StatusNotFound},
		{NewUserNotFoundError("a@b.co"), http.StatusNotFound},
		{NewProfileMissingError("u1"), http.StatusUnprocessableEntity},
		{NewInventoryEmptyError(), http.StatusConflict},
		{NewLLMRequiredError("timeout"), http.StatusServiceUnavailable},
		{NewServiceUnavailableError("openai", nil), http.StatusServiceUnavailable},
		{NewDatabaseError("load", nil), http.StatusInternalServerError},
		{NewInternalError(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
			assert.Equal(t, tt.want < 500, tt.err.IsClientSafe())
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Recommendation not found", NewNotFoundError("recommendation").Message)
	assert.Equal(t, "Resource not found", NewNotFoundError("").Message)
}

func TestWrapAndAs(t *testing.T) {
	cause := stderrors.New("connection reset")

	wrapped := Wrap(cause, "load profile")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)

	appErr := NewInventoryEmptyError()
	assert.Same(t, appErr, Wrap(fmt.Errorf("recommend: %w", appErr), "ignored"))
	assert.Nil(t, Wrap(nil, "nothing"))

	assert.True(t, Is(fmt.Errorf("outer: %w", appErr), CodeInventoryEmpty))
	assert.False(t, Is(cause, CodeInventoryEmpty))
	assert.Equal(t, CodeInternal, GetCode(cause))
	assert.Equal(t, CodeInventoryEmpty, GetCode(appErr))
}

func TestToErrorResponse_HidesServerDetails(t *testing.T) {
	dbErr := NewDatabaseError("store recommendations", stderrors.New("deadlock"))
	resp := ToErrorResponse(dbErr, "req-1")

	assert.Equal(t, CodeDatabaseError, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
	assert.Equal(t, "req-1", resp.Error.RequestID)

	notFound := NewUserNotFoundError("a@b.co")
	assert.Equal(t, "No user matches a@b.co", ToErrorResponse(notFound, "").Error.Details)
}

func TestStackTrace_OnlyForServerErrors(t *testing.T) {
	dbErr := NewDatabaseError("store recommendations", stderrors.New("deadlock"))
	assert.Contains(t, dbErr.StackTrace, "TestStackTrace_OnlyForServerErrors")
	assert.NotContains(t, dbErr.StackTrace, "pkg/errors/errors.go")

	assert.Empty(t, NewNotFoundError("recommendation").StackTrace)
	assert.Empty(t, NewValidationError("limit").StackTrace)
}

func TestValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "limit", Message: "limit must be at least 0"},
		{Field: "email", Message: "email must be a valid email"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "limit must be at least 0; email must be a valid email", err.Details)
	assert.Contains(t, err.Metadata, "validation_errors")
}
