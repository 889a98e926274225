package render

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestError_LogsStackForServerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
	Error(rec, req, logger, apperrors.NewDatabaseError("store recommendations", stderrors.New("deadlock")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apperrors.CodeDatabaseError, body.Error.Code)
	assert.Empty(t, body.Error.Details)

	entries := logs.FilterMessage("Request failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["stack"], "TestError_LogsStackForServerErrors")
	assert.Equal(t, "deadlock", entries[0].ContextMap()["cause"])
}

func TestError_ClientErrorsHaveNoStack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/x/goal-alignment", nil)
	Error(rec, req, logger, apperrors.NewUserNotFoundError("x"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	entries := logs.FilterMessage("Request rejected").All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "stack")
}

func TestError_PlainErrorBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Error(rec, req, zap.NewNop(), stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apperrors.CodeInternal, body.Error.Code)
}

func TestError_CanceledRequestIsNotAFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
	Error(rec, req, logger, fmt.Errorf("recommend: %w", context.Canceled))

	assert.Empty(t, rec.Body.String())
	assert.Zero(t, logs.FilterMessage("Request failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Client canceled request").Len())
}
