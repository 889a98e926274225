package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CompletionRequest is a single chat-style completion call
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// CompletionClient reaches an external text-completion service
type CompletionClient interface {
	// Configured reports whether credentials and endpoint are present
	Configured() bool
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// PantryProvider supplies the id of the pantry whose inventory is offered.
// Implementations own any caching and refresh policy.
type PantryProvider interface {
	SystemPantryID(ctx context.Context) (uuid.UUID, error)
	// Invalidate forgets any cached id so the next lookup reloads it
	Invalidate(ctx context.Context) error
}

// FeatureFlags exposes the runtime toggles personalization reads per request
type FeatureFlags interface {
	LLMRerankingEnabled() bool
	AIRankingRequired() bool
}

// PersonalizationMetrics records business metrics for the personalization flow
type PersonalizationMetrics interface {
	ObserveRecommendations(source string, delivered int)
	ObserveRerank(outcome, reason string, duration time.Duration)
	ObserveFeedback(action string)
	ObserveAlignment(score float64, usedFallback bool)
}
