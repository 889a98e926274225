// Package recommendation defines persisted recommendations and the feedback that drives them
package recommendation

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the latest user reaction to a recommendation
type Status string

const (
	StatusShown    Status = "SHOWN"
	StatusAccepted Status = "ACCEPTED"
	StatusSaved    Status = "SAVED"
	StatusSwapped  Status = "SWAPPED"
)

// EngagedStatuses are the statuses that count as a user engaging with a meal
var EngagedStatuses = []Status{StatusAccepted, StatusSaved, StatusSwapped}

// RankingSource identifies which ranking produced a recommendation
type RankingSource string

const (
	SourceLLM           RankingSource = "llm"
	SourceDeterministic RankingSource = "deterministic"
)

// Adjustment is one signed scoring contribution with a human-readable reason
type Adjustment struct {
	Reason string `json:"reason"`
	Delta  int    `json:"delta"`
}

// Metadata records how a recommendation was ranked
type Metadata struct {
	RankingSource RankingSource `json:"rankingSource"`
	Score         int           `json:"score"`
	Adjustments   []Adjustment  `json:"adjustments"`
}

// Recommendation is a persisted pick shown to a user. Everything except
// Status and UpdatedAt is fixed at creation.
type Recommendation struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	RecipeID             uuid.UUID
	HealthySwapRecipeID  *uuid.UUID
	Rationale            string
	HealthySwapRationale *string
	SessionID            *string
	Metadata             Metadata
	Status               Status
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// New creates a recommendation in the SHOWN state
func New(userID, recipeID uuid.UUID, rationale string, metadata Metadata) *Recommendation {
	now := time.Now().UTC()
	return &Recommendation{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		Rationale: rationale,
		Metadata:  metadata,
		Status:    StatusShown,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithSwap attaches the healthy swap copy and optional swap recipe
func (r *Recommendation) WithSwap(copy string, swapRecipeID *uuid.UUID) *Recommendation {
	if copy != "" {
		r.HealthySwapRationale = &copy
	}
	r.HealthySwapRecipeID = swapRecipeID
	return r
}

// WithSession tags the recommendation with the caller's session
func (r *Recommendation) WithSession(sessionID string) *Recommendation {
	if sessionID != "" {
		r.SessionID = &sessionID
	}
	return r
}

// Apply records a feedback action. There is no transition order: the last
// action wins, so a SWAPPED recommendation can become ACCEPTED again.
func (r *Recommendation) Apply(action Action) {
	r.Status = action.ResultingStatus()
	r.UpdatedAt = time.Now().UTC()
}
