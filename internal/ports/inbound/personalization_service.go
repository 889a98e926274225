// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecommendationService produces and records feedback on personalized meal picks
type RecommendationService interface {
	Recommend(ctx context.Context, req RecommendRequest) (*RecommendResponse, error)
	RecordFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackDTO, error)
}

// AlignmentService scores a user's recent meals against their primary goal
type AlignmentService interface {
	Evaluate(ctx context.Context, userID uuid.UUID) (*AlignmentReportDTO, error)
}

// RecommendRequest identifies the user by id or email; at least one is required
type RecommendRequest struct {
	UserID            string `json:"userId,omitempty" validate:"required_without=Email,omitempty,uuid"`
	Email             string `json:"email,omitempty" validate:"required_without=UserID,omitempty,email"`
	Limit             int    `json:"limit,omitempty" validate:"gte=0"`
	SessionID         string `json:"sessionId,omitempty" validate:"max=128"`
	DeterministicOnly bool   `json:"deterministicOnly,omitempty"`
}

// RecommendResponse is the ordered selection returned to the caller
type RecommendResponse struct {
	UserID          uuid.UUID           `json:"userId"`
	Requested       int                 `json:"requested"`
	Delivered       int                 `json:"delivered"`
	Source          string              `json:"source"`
	Recommendations []RecommendationDTO `json:"recommendations"`
}

// RecommendationDTO is one recommended meal with its explanation
type RecommendationDTO struct {
	RecommendationID uuid.UUID      `json:"recommendationId"`
	RecipeID         uuid.UUID      `json:"recipeId"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ImageURL         string         `json:"imageUrl"`
	PriceCents       int            `json:"priceCents"`
	Macros           MacrosDTO      `json:"macros"`
	Tags             []string       `json:"tags"`
	Highlights       []string       `json:"highlights"`
	Allergens        []string       `json:"allergens"`
	Inventory        InventoryDTO   `json:"inventory"`
	Rationale        string         `json:"rationale"`
	HealthySwapCopy  string         `json:"healthySwapCopy"`
	SwapRecipe       *SwapRecipeDTO `json:"swapRecipe,omitempty"`
	Metadata         MetadataDTO    `json:"metadata"`
}

// MacrosDTO carries per-serving macros; nil means unknown
type MacrosDTO struct {
	Calories     *int     `json:"calories"`
	ProteinGrams *float64 `json:"proteinGrams"`
	CarbsGrams   *float64 `json:"carbsGrams"`
	FatGrams     *float64 `json:"fatGrams"`
	Label        string   `json:"label"`
}

// InventoryDTO is the inventory snapshot used for the pick
type InventoryDTO struct {
	Status   string `json:"status"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// SwapRecipeDTO references another candidate suggested as a healthier swap
type SwapRecipeDTO struct {
	RecipeID uuid.UUID `json:"recipeId"`
	Title    string    `json:"title"`
}

// MetadataDTO explains how the pick was ranked
type MetadataDTO struct {
	RankingSource string          `json:"rankingSource"`
	BaseScore     int             `json:"baseScore"`
	Adjustments   []AdjustmentDTO `json:"adjustments"`
}

// AdjustmentDTO is one signed scoring contribution
type AdjustmentDTO struct {
	Reason string `json:"reason"`
	Delta  int    `json:"delta"`
}

// FeedbackRequest records a user's reaction to a recommendation
type FeedbackRequest struct {
	RecommendationID string `json:"recommendationId" validate:"required,uuid"`
	UserID           string `json:"userId" validate:"required,uuid"`
	Action           string `json:"action" validate:"required"`
	Sentiment        string `json:"sentiment,omitempty"`
	Notes            string `json:"notes,omitempty" validate:"max=1000"`
}

// FeedbackDTO is the stored feedback event
type FeedbackDTO struct {
	ID                   uuid.UUID `json:"id"`
	RecommendationID     uuid.UUID `json:"recommendationId"`
	UserID               uuid.UUID `json:"userId"`
	Action               string    `json:"action"`
	Sentiment            string    `json:"sentiment"`
	Notes                *string   `json:"notes,omitempty"`
	RecommendationStatus string    `json:"recommendationStatus"`
	CreatedAt            time.Time `json:"createdAt"`
}

// AlignmentReportDTO is the goal-alignment summary for one user
type AlignmentReportDTO struct {
	Goal             string               `json:"goal"`
	AverageScore     float64              `json:"averageScore"`
	SampleCount      int                  `json:"sampleCount"`
	AlignedCount     int                  `json:"alignedCount"`
	NeedsNudgeCount  int                  `json:"needsNudgeCount"`
	OffTrackCount    int                  `json:"offTrackCount"`
	UsedFallbackData bool                 `json:"usedFallbackData"`
	MacroAverages    MacroAveragesDTO     `json:"macroAverages"`
	Samples          []AlignmentSampleDTO `json:"samples"`
}

// MacroAveragesDTO holds per-macro means; nil when no sample has the macro
type MacroAveragesDTO struct {
	Calories     *float64 `json:"calories"`
	ProteinGrams *float64 `json:"proteinGrams"`
	CarbsGrams   *float64 `json:"carbsGrams"`
	FatGrams     *float64 `json:"fatGrams"`
}

// AlignmentSampleDTO is one re-scored meal
type AlignmentSampleDTO struct {
	RecommendationID uuid.UUID `json:"recommendationId"`
	RecipeID         uuid.UUID `json:"recipeId"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	Score            int       `json:"score"`
	Band             string    `json:"band"`
	Note             string    `json:"note"`
	Macros           MacrosDTO `json:"macros"`
}
