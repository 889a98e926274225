// Package render writes JSON bodies and AppError responses
package render

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error renders err as an ErrorResponse. Anything that is not an AppError
// becomes internal_error; the cause is only ever logged. Requests canceled by
// the client get no response.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Debug("Client canceled request",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		return
	}

	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("").WithCause(err)
	}

	requestID := middleware.GetReqID(r.Context())
	status := appErr.StatusCode()

	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.Int("status_code", status),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestID),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Cause))
	}
	if appErr.Details != "" {
		fields = append(fields, zap.String("details", appErr.Details))
	}

	if status >= http.StatusInternalServerError {
		if appErr.StackTrace != "" {
			fields = append(fields, zap.String("stack", appErr.StackTrace))
		}
		logger.Error("Request failed", fields...)
	} else {
		logger.Debug("Request rejected", fields...)
	}

	JSON(w, status, apperrors.ToErrorResponse(appErr, requestID))
}
