// Package handlers provides the REST handlers for the personalization API
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alchemorsel/personalization/internal/infrastructure/http/render"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// PersonalizationHandlers serves recommendations, feedback and goal alignment
type PersonalizationHandlers struct {
	recommendations inbound.RecommendationService
	alignment       inbound.AlignmentService
	logger          *zap.Logger
}

// NewPersonalizationHandlers creates the handlers
func NewPersonalizationHandlers(
	recommendations inbound.RecommendationService,
	alignment inbound.AlignmentService,
	logger *zap.Logger,
) *PersonalizationHandlers {
	return &PersonalizationHandlers{
		recommendations: recommendations,
		alignment:       alignment,
		logger:          logger.Named("http"),
	}
}

// Routes mounts the handlers on r
func (h *PersonalizationHandlers) Routes(r chi.Router) {
	r.Post("/recommendations", h.Recommend)
	r.Post("/recommendations/feedback", h.RecordFeedback)
	r.Get("/users/{userID}/goal-alignment", h.GoalAlignment)
}

// Recommend handles POST /recommendations
func (h *PersonalizationHandlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req inbound.RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	resp, err := h.recommendations.Recommend(r.Context(), req)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, resp)
}

// RecordFeedback handles POST /recommendations/feedback
func (h *PersonalizationHandlers) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	var req inbound.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	feedback, err := h.recommendations.RecordFeedback(r.Context(), req)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, http.StatusCreated, feedback)
}

// GoalAlignment handles GET /users/{userID}/goal-alignment
func (h *PersonalizationHandlers) GoalAlignment(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		render.Error(w, r, h.logger, apperrors.NewValidationError("userID must be a valid UUID"))
		return
	}

	report, err := h.alignment.Evaluate(r.Context(), userID)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, report)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.NewBadRequestError("Request body is required")
		case errors.As(err, &maxErr):
			return apperrors.NewBadRequestError("Request body is too large")
		default:
			return apperrors.NewBadRequestError("Malformed request body").WithCause(err)
		}
	}

	if dec.More() {
		return apperrors.NewBadRequestError("Request body must contain a single JSON object")
	}

	return nil
}
