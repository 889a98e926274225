// Package recommendation orchestrates personalized meal picks: it loads a
// snapshot, filters and scores it, optionally reranks it with a model, and
// stores the final selection.
package recommendation

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/personalization/internal/application/rerank"
	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	domain "github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/alchemorsel/personalization/pkg/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reranker reorders scored candidates with an optional model step
type Reranker interface {
	Rerank(ctx context.Context, req rerank.Request) rerank.Result
}

// Options holds request-path limits
type Options struct {
	DefaultLimit       int
	RationaleMaxLength int
	SwapMaxLength      int
}

// Service implements inbound.RecommendationService
type Service struct {
	profiles  outbound.ProfileRepository
	catalog   outbound.CatalogRepository
	recs      outbound.RecommendationRepository
	pantry    outbound.PantryProvider
	reranker  Reranker
	metrics   outbound.PersonalizationMetrics
	validator *validation.Validator
	opts      Options
	logger    *zap.Logger
}

// NewService creates a recommendation service
func NewService(
	profiles outbound.ProfileRepository,
	catalogRepo outbound.CatalogRepository,
	recs outbound.RecommendationRepository,
	pantry outbound.PantryProvider,
	reranker Reranker,
	metrics outbound.PersonalizationMetrics,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.DefaultLimit == 0 {
		opts.DefaultLimit = scoring.MinLimit
	}
	return &Service{
		profiles:  profiles,
		catalog:   catalogRepo,
		recs:      recs,
		pantry:    pantry,
		reranker:  reranker,
		metrics:   metrics,
		validator: validation.New(),
		opts:      opts,
		logger:    logger.Named("recommendation-service"),
	}
}

var _ inbound.RecommendationService = (*Service)(nil)

// Recommend returns between 3 and 5 personalized meals and stores them as SHOWN
func (s *Service) Recommend(ctx context.Context, req inbound.RecommendRequest) (*inbound.RecommendResponse, error) {
	ctx, span := otel.Tracer("personalization").Start(ctx, "recommendation.Recommend")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	limit := scoring.ClampLimit(req.Limit, s.opts.DefaultLimit)

	var (
		user       *profile.User
		userProf   *profile.Profile
		candidates []catalog.CandidateRecipe
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.resolveUser(gctx, req)
		if err != nil {
			return err
		}
		userProf, err = s.loadProfile(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.loadCandidates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID.String()),
		attribute.Int("recommendation.limit", limit),
		attribute.Int("catalog.size", len(candidates)),
	)

	filtered, err := scoring.Filter(candidates, userProf, limit)
	if err != nil {
		if errors.Is(err, scoring.ErrInventoryEmpty) {
			s.logger.Info("No safe candidates for profile",
				zap.String("user_id", user.ID.String()),
				zap.Int("catalog_size", len(candidates)),
			)
			return nil, apperrors.NewInventoryEmptyError().WithCause(err)
		}
		return nil, apperrors.Wrap(err, "failed to filter candidates")
	}

	ranked := scoring.Rank(filtered, userProf)

	started := time.Now()
	result := s.reranker.Rerank(ctx, rerank.Request{
		Profile:           userProf,
		Candidates:        ranked,
		Limit:             limit,
		DeterministicOnly: req.DeterministicOnly,
	})
	s.metrics.ObserveRerank(string(result.Outcome), result.Reason, time.Since(started))

	// nothing is stored for a caller that already went away
	if err := ctx.Err(); err != nil {
		s.logger.Debug("Request canceled before storing recommendations",
			zap.String("user_id", user.ID.String()),
			zap.String("reason", result.Reason),
		)
		return nil, err
	}

	if result.IsFatal() {
		s.logger.Warn("AI ranking required but unavailable",
			zap.String("user_id", user.ID.String()),
			zap.String("reason", result.Reason),
			zap.Error(result.Err),
		)
		span.SetStatus(codes.Error, string(apperrors.CodeLLMRequired))
		return nil, apperrors.NewLLMRequiredError(result.Reason).WithCause(result.Err)
	}

	source := domain.SourceLLM
	entries := result.Entries
	if !result.IsOK() {
		source = domain.SourceDeterministic
		entries = deterministicEntries(ranked, limit)
		s.logger.Debug("Using deterministic ranking",
			zap.String("user_id", user.ID.String()),
			zap.String("reason", result.Reason),
		)
	}

	recs := make([]*domain.Recommendation, 0, len(entries))
	for _, entry := range entries {
		recs = append(recs, s.toRecommendation(user.ID, req.SessionID, source, entry))
	}

	if err := s.recs.CreateBatch(ctx, recs); err != nil {
		s.logger.Error("Failed to store recommendations",
			zap.String("user_id", user.ID.String()),
			zap.Int("count", len(recs)),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("store recommendations", err)
	}

	s.metrics.ObserveRecommendations(string(source), len(recs))
	span.SetAttributes(
		attribute.String("recommendation.source", string(source)),
		attribute.Int("recommendation.delivered", len(recs)),
	)

	s.logger.Info("Recommendations delivered",
		zap.String("user_id", user.ID.String()),
		zap.String("ranking_source", string(source)),
		zap.Int("candidate_count", len(ranked)),
		zap.Int("delivered", len(recs)),
	)

	titles := make(map[uuid.UUID]string, len(ranked))
	for _, c := range ranked {
		titles[c.Recipe.ID] = c.Recipe.Title
	}

	resp := &inbound.RecommendResponse{
		UserID:          user.ID,
		Requested:       limit,
		Delivered:       len(recs),
		Source:          string(source),
		Recommendations: make([]inbound.RecommendationDTO, 0, len(recs)),
	}
	for i, rec := range recs {
		resp.Recommendations = append(resp.Recommendations, toDTO(rec, entries[i].Candidate, titles))
	}
	return resp, nil
}

// RecordFeedback stores a feedback event and moves the recommendation to the
// matching status in one transaction
func (s *Service) RecordFeedback(ctx context.Context, req inbound.FeedbackRequest) (*inbound.FeedbackDTO, error) {
	ctx, span := otel.Tracer("personalization").Start(ctx, "recommendation.RecordFeedback")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	recID := uuid.MustParse(req.RecommendationID)
	userID := uuid.MustParse(req.UserID)

	action, ok := domain.ParseAction(req.Action)
	if !ok {
		return nil, apperrors.NewValidationError("action must be one of ACCEPT, SAVE, SWAP")
	}

	var sentiment domain.Sentiment
	if req.Sentiment != "" {
		sentiment, ok = domain.ParseSentiment(req.Sentiment)
		if !ok {
			return nil, apperrors.NewValidationError("sentiment must be one of POSITIVE, NEUTRAL, NEGATIVE")
		}
	}

	event := domain.NewFeedbackEvent(recID, userID, action, sentiment, req.Notes)

	rec, err := s.recs.RecordFeedback(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrRecommendationNotFound) {
			s.logger.Warn("Feedback for unknown or foreign recommendation",
				zap.String("recommendation_id", recID.String()),
				zap.String("user_id", userID.String()),
			)
			return nil, apperrors.NewNotFoundError("recommendation")
		}
		span.RecordError(err)
		return nil, apperrors.NewDatabaseError("record feedback", err)
	}

	s.metrics.ObserveFeedback(string(action))
	s.logger.Info("Feedback recorded",
		zap.String("recommendation_id", recID.String()),
		zap.String("action", string(action)),
		zap.String("status", string(rec.Status)),
	)

	return &inbound.FeedbackDTO{
		ID:                   event.ID,
		RecommendationID:     event.RecommendationID,
		UserID:               event.UserID,
		Action:               string(event.Action),
		Sentiment:            string(event.Sentiment),
		Notes:                event.Notes,
		RecommendationStatus: string(rec.Status),
		CreatedAt:            event.CreatedAt,
	}, nil
}

func (s *Service) resolveUser(ctx context.Context, req inbound.RecommendRequest) (*profile.User, error) {
	var (
		user       *profile.User
		err        error
		identifier string
	)
	if req.UserID != "" {
		identifier = req.UserID
		user, err = s.profiles.FindUserByID(ctx, uuid.MustParse(req.UserID))
	} else {
		identifier = req.Email
		user, err = s.profiles.FindUserByEmail(ctx, req.Email)
	}
	if err != nil {
		if errors.Is(err, profile.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(identifier)
		}
		return nil, apperrors.NewDatabaseError("load user", err)
	}
	return user, nil
}

func (s *Service) loadProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperrors.NewProfileMissingError(userID.String())
		}
		return nil, apperrors.NewDatabaseError("load profile", err)
	}
	return p, nil
}

func (s *Service) loadCandidates(ctx context.Context) ([]catalog.CandidateRecipe, error) {
	pantryID, err := s.pantry.SystemPantryID(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrPantryNotFound) {
			s.logger.Error("System pantry is missing", zap.Error(err))
			return nil, apperrors.NewInventoryEmptyError().WithCause(err)
		}
		return nil, apperrors.NewDatabaseError("resolve system pantry", err)
	}

	candidates, err := s.catalog.ListCandidates(ctx, pantryID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load catalog", err)
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	// an empty catalog may come from a cached id of a pantry that was re-seeded
	refreshed, ok := s.refreshPantry(ctx, pantryID)
	if !ok {
		return candidates, nil
	}
	candidates, err = s.catalog.ListCandidates(ctx, refreshed)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load catalog", err)
	}
	return candidates, nil
}

// refreshPantry drops the cached pantry id and resolves it again. It reports
// false when the id is unchanged or cannot be resolved.
func (s *Service) refreshPantry(ctx context.Context, stale uuid.UUID) (uuid.UUID, bool) {
	if err := s.pantry.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate system pantry", zap.Error(err))
		return uuid.Nil, false
	}
	id, err := s.pantry.SystemPantryID(ctx)
	if err != nil || id == stale {
		return uuid.Nil, false
	}
	s.logger.Info("System pantry changed",
		zap.String("previous_pantry_id", stale.String()),
		zap.String("pantry_id", id.String()),
	)
	return id, true
}

func (s *Service) toRecommendation(userID uuid.UUID, sessionID string, source domain.RankingSource, entry rerank.Entry) *domain.Recommendation {
	c := entry.Candidate
	rec := domain.New(userID, c.Recipe.ID, rerank.Truncate(entry.Rationale, s.opts.RationaleMaxLength), domain.Metadata{
		RankingSource: source,
		Score:         c.Score,
		Adjustments:   c.Adjustments,
	})
	return rec.
		WithSwap(rerank.Truncate(entry.SwapCopy, s.opts.SwapMaxLength), entry.SwapRecipeID).
		WithSession(sessionID)
}

func deterministicEntries(ranked []scoring.ScoredCandidate, limit int) []rerank.Entry {
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]rerank.Entry, 0, len(ranked))
	for _, c := range ranked {
		entries = append(entries, rerank.Entry{
			Candidate: c,
			Rationale: c.Rationale,
			SwapCopy:  c.SwapCopy,
		})
	}
	return entries
}
