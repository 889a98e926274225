// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepository provides a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

// FindUserByID finds a user by ID
func (m *MockProfileRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*profile.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.User), args.Error(1)
}

// FindUserByEmail finds a user by email
func (m *MockProfileRepository) FindUserByEmail(ctx context.Context, email string) (*profile.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.User), args.Error(1)
}

// FindProfile finds the nutrition profile of a user
func (m *MockProfileRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

// MockCatalogRepository provides a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

// ListCandidates lists the stocked recipes of a pantry
func (m *MockCatalogRepository) ListCandidates(ctx context.Context, pantryID uuid.UUID) ([]catalog.CandidateRecipe, error) {
	args := m.Called(ctx, pantryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CandidateRecipe), args.Error(1)
}

// FindRecipesByIDs loads recipes keyed by id
func (m *MockCatalogRepository) FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]catalog.Recipe), args.Error(1)
}

// FindPantryIDBySlug resolves a pantry slug
func (m *MockCatalogRepository) FindPantryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockRecommendationRepository provides a mock implementation of RecommendationRepository
// that also keeps created recommendations for inspection
type MockRecommendationRepository struct {
	mock.Mock
	created []*recommendation.Recommendation
	mu      sync.RWMutex
}

// CreateBatch stores recommendations
func (m *MockRecommendationRepository) CreateBatch(ctx context.Context, recs []*recommendation.Recommendation) error {
	args := m.Called(ctx, recs)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.created = append(m.created, recs...)
		m.mu.Unlock()
	}
	return args.Error(0)
}

// Created returns every recommendation stored so far
func (m *MockRecommendationRepository) Created() []*recommendation.Recommendation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*recommendation.Recommendation(nil), m.created...)
}

// RecordFeedback stores a feedback event
func (m *MockRecommendationRepository) RecordFeedback(ctx context.Context, event *recommendation.FeedbackEvent) (*recommendation.Recommendation, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Recommendation), args.Error(1)
}

// FindEngaged finds recommendations with one of the statuses
func (m *MockRecommendationRepository) FindEngaged(ctx context.Context, userID uuid.UUID, statuses []recommendation.Status, limit int) ([]*recommendation.Recommendation, error) {
	args := m.Called(ctx, userID, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recommendation.Recommendation), args.Error(1)
}

// FindRecent finds the latest recommendations
func (m *MockRecommendationRepository) FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recommendation.Recommendation), args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockCompletionClient provides a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockCompletionClient) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// StaticPantry always returns the same pantry id
type StaticPantry struct {
	ID  uuid.UUID
	Err error
}

func (p StaticPantry) SystemPantryID(context.Context) (uuid.UUID, error) {
	return p.ID, p.Err
}

func (p StaticPantry) Invalidate(context.Context) error { return nil }

// StaticFlags is a fixed FeatureFlags
type StaticFlags struct {
	Reranking bool
	Required  bool
}

func (f StaticFlags) LLMRerankingEnabled() bool { return f.Reranking }
func (f StaticFlags) AIRankingRequired() bool   { return f.Required }

// RecordingMetrics counts observations in memory
type RecordingMetrics struct {
	mu              sync.Mutex
	Recommendations map[string]int
	RerankOutcomes  []string
	Feedback        map[string]int
	Alignments      []float64
}

// NewRecordingMetrics creates an empty recorder
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		Recommendations: make(map[string]int),
		Feedback:        make(map[string]int),
	}
}

func (r *RecordingMetrics) ObserveRecommendations(source string, delivered int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Recommendations[source] += delivered
}

func (r *RecordingMetrics) ObserveRerank(outcome, reason string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RerankOutcomes = append(r.RerankOutcomes, outcome+":"+reason)
}

func (r *RecordingMetrics) ObserveFeedback(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Feedback[action]++
}

func (r *RecordingMetrics) ObserveAlignment(score float64, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Alignments = append(r.Alignments, score)
}

var (
	_ outbound.ProfileRepository        = (*MockProfileRepository)(nil)
	_ outbound.CatalogRepository        = (*MockCatalogRepository)(nil)
	_ outbound.RecommendationRepository = (*MockRecommendationRepository)(nil)
	_ outbound.CacheRepository          = (*MockCacheRepository)(nil)
	_ outbound.CompletionClient         = (*MockCompletionClient)(nil)
	_ outbound.PantryProvider           = StaticPantry{}
	_ outbound.FeatureFlags             = StaticFlags{}
	_ outbound.PersonalizationMetrics   = (*RecordingMetrics)(nil)
)
