// Package alignment scores a user's recent meals against their primary goal
package alignment

import (
	"context"
	"errors"
	"math"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultSampleCap bounds how many recommendations are re-scored
const DefaultSampleCap = 12

// Evaluator implements inbound.AlignmentService
type Evaluator struct {
	profiles  outbound.ProfileRepository
	catalog   outbound.CatalogRepository
	recs      outbound.RecommendationRepository
	metrics   outbound.PersonalizationMetrics
	sampleCap int
	logger    *zap.Logger
}

// NewEvaluator creates a goal-alignment evaluator
func NewEvaluator(
	profiles outbound.ProfileRepository,
	catalogRepo outbound.CatalogRepository,
	recs outbound.RecommendationRepository,
	metrics outbound.PersonalizationMetrics,
	sampleCap int,
	logger *zap.Logger,
) *Evaluator {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}
	return &Evaluator{
		profiles:  profiles,
		catalog:   catalogRepo,
		recs:      recs,
		metrics:   metrics,
		sampleCap: sampleCap,
		logger:    logger.Named("alignment"),
	}
}

var _ inbound.AlignmentService = (*Evaluator)(nil)

// Evaluate re-scores the user's most recently engaged meals. Users without
// engagement are scored on their latest recommendations instead.
func (e *Evaluator) Evaluate(ctx context.Context, userID uuid.UUID) (*inbound.AlignmentReportDTO, error) {
	ctx, span := otel.Tracer("personalization").Start(ctx, "alignment.Evaluate")
	defer span.End()

	if _, err := e.profiles.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, profile.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID.String())
		}
		return nil, apperrors.NewDatabaseError("load user", err)
	}

	goal := profile.GoalUnknown
	p, err := e.profiles.FindProfile(ctx, userID)
	switch {
	case err == nil:
		goal = p.PrimaryGoal()
	case errors.Is(err, profile.ErrProfileNotFound):
		e.logger.Debug("No profile, using generic signals only", zap.String("user_id", userID.String()))
	default:
		return nil, apperrors.NewDatabaseError("load profile", err)
	}

	recs, usedFallback, err := e.sample(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load recommendations", err)
	}

	recipes, err := e.recipesFor(ctx, recs)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load recipes", err)
	}

	report := Aggregate(goal, recs, recipes)
	report.UsedFallbackData = usedFallback

	span.SetAttributes(
		attribute.String("alignment.goal", report.Goal),
		attribute.Int("alignment.samples", report.SampleCount),
		attribute.Bool("alignment.fallback", usedFallback),
	)
	if report.SampleCount > 0 {
		e.metrics.ObserveAlignment(report.AverageScore, usedFallback)
	}

	e.logger.Info("Goal alignment evaluated",
		zap.String("user_id", userID.String()),
		zap.String("goal", report.Goal),
		zap.Int("sample_count", report.SampleCount),
		zap.Float64("average_score", report.AverageScore),
		zap.Bool("used_fallback_data", usedFallback),
	)

	return toDTO(report), nil
}

func (e *Evaluator) sample(ctx context.Context, userID uuid.UUID) ([]*recommendation.Recommendation, bool, error) {
	engaged, err := e.recs.FindEngaged(ctx, userID, recommendation.EngagedStatuses, e.sampleCap)
	if err != nil {
		return nil, false, err
	}
	if len(engaged) > 0 {
		return engaged, false, nil
	}

	recent, err := e.recs.FindRecent(ctx, userID, e.sampleCap)
	if err != nil {
		return nil, true, err
	}
	return recent, true, nil
}

func (e *Evaluator) recipesFor(ctx context.Context, recs []*recommendation.Recommendation) (map[uuid.UUID]catalog.Recipe, error) {
	if len(recs) == 0 {
		return map[uuid.UUID]catalog.Recipe{}, nil
	}
	seen := make(map[uuid.UUID]bool, len(recs))
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		if !seen[rec.RecipeID] {
			seen[rec.RecipeID] = true
			ids = append(ids, rec.RecipeID)
		}
	}
	return e.catalog.FindRecipesByIDs(ctx, ids)
}

// Aggregate scores every recommendation whose recipe is known and summarizes them
func Aggregate(goal profile.Goal, recs []*recommendation.Recommendation, recipes map[uuid.UUID]catalog.Recipe) recommendation.AlignmentReport {
	report := recommendation.AlignmentReport{
		Goal:    string(goal),
		Samples: make([]recommendation.AlignmentSample, 0, len(recs)),
	}

	var total int
	var cal, protein, carbs, fat macroMean
	for _, rec := range recs {
		r, ok := recipes[rec.RecipeID]
		if !ok {
			continue
		}
		score, note := ScoreMeal(goal, r)
		band := recommendation.BandFor(score)

		report.Samples = append(report.Samples, recommendation.AlignmentSample{
			RecommendationID: rec.ID,
			Recipe:           r,
			Status:           rec.Status,
			Score:            score,
			Band:             band,
			Note:             note,
		})
		total += score

		switch band {
		case recommendation.BandAligned:
			report.AlignedCount++
		case recommendation.BandNeedsNudge:
			report.NeedsNudgeCount++
		default:
			report.OffTrackCount++
		}

		if r.Macros.Calories != nil {
			cal.add(float64(*r.Macros.Calories))
		}
		protein.addPtr(r.Macros.ProteinGrams)
		carbs.addPtr(r.Macros.CarbsGrams)
		fat.addPtr(r.Macros.FatGrams)
	}

	report.SampleCount = len(report.Samples)
	if report.SampleCount > 0 {
		report.AverageScore = round1(float64(total) / float64(report.SampleCount))
	}
	report.MacroAverages = recommendation.MacroAverages{
		Calories:     cal.mean(),
		ProteinGrams: protein.mean(),
		CarbsGrams:   carbs.mean(),
		FatGrams:     fat.mean(),
	}
	return report
}

// macroMean averages only the samples that carry the macro
type macroMean struct {
	sum   float64
	count int
}

func (m *macroMean) add(v float64) {
	m.sum += v
	m.count++
}

func (m *macroMean) addPtr(v *float64) {
	if v != nil {
		m.add(*v)
	}
}

func (m macroMean) mean() *float64 {
	if m.count == 0 {
		return nil
	}
	v := round1(m.sum / float64(m.count))
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
