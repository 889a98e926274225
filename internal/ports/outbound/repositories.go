// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/google/uuid"
)

// ProfileRepository reads users and their nutrition profiles
type ProfileRepository interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*profile.User, error)
	FindUserByEmail(ctx context.Context, email string) (*profile.User, error)
	// FindProfile returns profile.ErrProfileNotFound when the user has none
	FindProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
}

// CatalogRepository reads the inventory-bearing recipe catalog
type CatalogRepository interface {
	// ListCandidates returns every recipe stocked in the pantry joined with its inventory
	ListCandidates(ctx context.Context, pantryID uuid.UUID) ([]catalog.CandidateRecipe, error)
	FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Recipe, error)
	FindPantryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error)
}

// RecommendationRepository persists recommendations and feedback
type RecommendationRepository interface {
	// CreateBatch inserts all recommendations in one transaction
	CreateBatch(ctx context.Context, recs []*recommendation.Recommendation) error

	// RecordFeedback inserts the event and updates the recommendation status
	// atomically. It returns recommendation.ErrRecommendationNotFound when the
	// recommendation does not belong to the event's user, writing nothing.
	RecordFeedback(ctx context.Context, event *recommendation.FeedbackEvent) (*recommendation.Recommendation, error)

	// FindEngaged returns the most recently updated recommendations with one of the statuses
	FindEngaged(ctx context.Context, userID uuid.UUID, statuses []recommendation.Status, limit int) ([]*recommendation.Recommendation, error)

	// FindRecent returns the most recently created recommendations regardless of status
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error)
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
