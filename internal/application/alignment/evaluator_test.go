package alignment

import (
	"context"
	"errors"
	"testing"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/alchemorsel/personalization/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	profiles  *testutils.MockProfileRepository
	catalog   *testutils.MockCatalogRepository
	recs      *testutils.MockRecommendationRepository
	metrics   *testutils.RecordingMetrics
	evaluator *Evaluator
	user      *profile.User
}

func newFixture(t *testing.T, sampleCap int) *fixture {
	f := &fixture{
		profiles: new(testutils.MockProfileRepository),
		catalog:  new(testutils.MockCatalogRepository),
		recs:     new(testutils.MockRecommendationRepository),
		metrics:  testutils.NewRecordingMetrics(),
		user:     &profile.User{ID: uuid.New(), Email: "cook@example.com"},
	}
	f.evaluator = NewEvaluator(f.profiles, f.catalog, f.recs, f.metrics, sampleCap, zaptest.NewLogger(t))
	return f
}

func shown(userID uuid.UUID, n int, status recommendation.Status) ([]*recommendation.Recommendation, map[uuid.UUID]catalog.Recipe) {
	recs := make([]*recommendation.Recommendation, 0, n)
	recipes := make(map[uuid.UUID]catalog.Recipe, n)
	for i := 0; i < n; i++ {
		r := catalog.Recipe{
			ID:    uuid.New(),
			Title: "Meal",
			Macros: catalog.Macros{
				Calories:     catalog.Int(500),
				ProteinGrams: catalog.Float(40),
			},
		}
		recipes[r.ID] = r
		rec := recommendation.New(userID, r.ID, "", recommendation.Metadata{})
		rec.Status = status
		recs = append(recs, rec)
	}
	return recs, recipes
}

func TestEvaluate_UsesEngagedMeals(t *testing.T) {
	f := newFixture(t, 12)
	recs, recipes := shown(f.user.ID, 2, recommendation.StatusAccepted)

	f.profiles.On("FindUserByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.profiles.On("FindProfile", mock.Anything, f.user.ID).Return(&profile.Profile{
		UserID: f.user.ID,
		Goals:  []profile.Goal{profile.GoalLeanMuscle},
	}, nil)
	f.recs.On("FindEngaged", mock.Anything, f.user.ID, recommendation.EngagedStatuses, 12).Return(recs, nil)
	f.catalog.On("FindRecipesByIDs", mock.Anything, mock.Anything).Return(recipes, nil)

	report, err := f.evaluator.Evaluate(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Equal(t, "LEAN_MUSCLE", report.Goal)
	assert.False(t, report.UsedFallbackData)
	assert.Equal(t, 2, report.SampleCount)
	assert.Equal(t, 85.0, report.AverageScore)
	assert.Equal(t, 2, report.AlignedCount)
	assert.Equal(t, "ACCEPTED", report.Samples[0].Status)
	assert.Equal(t, "aligned", report.Samples[0].Band)
	f.recs.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []float64{85}, f.metrics.Alignments)
}

func TestEvaluate_FallsBackToRecentMeals(t *testing.T) {
	f := newFixture(t, 12)
	recs, recipes := shown(f.user.ID, 12, recommendation.StatusShown)

	f.profiles.On("FindUserByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.profiles.On("FindProfile", mock.Anything, f.user.ID).Return(nil, profile.ErrProfileNotFound)
	f.recs.On("FindEngaged", mock.Anything, f.user.ID, mock.Anything, 12).Return([]*recommendation.Recommendation{}, nil)
	f.recs.On("FindRecent", mock.Anything, f.user.ID, 12).Return(recs, nil)
	f.catalog.On("FindRecipesByIDs", mock.Anything, mock.Anything).Return(recipes, nil)

	report, err := f.evaluator.Evaluate(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.True(t, report.UsedFallbackData)
	assert.Equal(t, 12, report.SampleCount)
	assert.Equal(t, "", report.Goal)
	// generic signals only
	assert.Equal(t, 55.0, report.AverageScore)
	assert.Equal(t, 12, report.OffTrackCount)
}

func TestEvaluate_UnrecognizedPrimaryGoalUsesGenericSignals(t *testing.T) {
	f := newFixture(t, 12)
	recs, recipes := shown(f.user.ID, 1, recommendation.StatusSaved)
	p, _ := profile.Build(profile.RawProfile{UserID: f.user.ID, Goals: []string{"weight loss", "energy"}})

	f.profiles.On("FindUserByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.profiles.On("FindProfile", mock.Anything, f.user.ID).Return(p, nil)
	f.recs.On("FindEngaged", mock.Anything, f.user.ID, recommendation.EngagedStatuses, 12).Return(recs, nil)
	f.catalog.On("FindRecipesByIDs", mock.Anything, mock.Anything).Return(recipes, nil)

	report, err := f.evaluator.Evaluate(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Equal(t, "", report.Goal)
	assert.Equal(t, 55.0, report.AverageScore)
}

func TestEvaluate_NoHistory(t *testing.T) {
	f := newFixture(t, 0)

	f.profiles.On("FindUserByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.profiles.On("FindProfile", mock.Anything, f.user.ID).Return(&profile.Profile{UserID: f.user.ID}, nil)
	f.recs.On("FindEngaged", mock.Anything, f.user.ID, mock.Anything, DefaultSampleCap).Return(nil, nil)
	f.recs.On("FindRecent", mock.Anything, f.user.ID, DefaultSampleCap).Return(nil, nil)

	report, err := f.evaluator.Evaluate(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Zero(t, report.SampleCount)
	assert.Zero(t, report.AverageScore)
	assert.Nil(t, report.MacroAverages.Calories)
	assert.Empty(t, report.Samples)
	assert.Empty(t, f.metrics.Alignments)
	f.catalog.AssertNotCalled(t, "FindRecipesByIDs", mock.Anything, mock.Anything)
}

func TestEvaluate_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t, 12)
		f.profiles.On("FindUserByID", mock.Anything, f.user.ID).Return(nil, profile.ErrUserNotFound)

		_, err := f.evaluator.Evaluate(context.Background(), f.user.ID)
		assert.Equal(t, apperrors.CodeUserNotFound, apperrors.GetCode(err))
	})

	t.Run("recommendation store failure", func(t *testing.T) {
		f := newFixture(t, 12)
		f.profiles.On("FindUserByID", mock.Anything, f.user.ID).Return(f.user, nil)
		f.profiles.On("FindProfile", mock.Anything, f.user.ID).Return(nil, profile.ErrProfileNotFound)
		f.recs.On("FindEngaged", mock.Anything, f.user.ID, mock.Anything, 12).Return(nil, errors.New("timeout"))

		_, err := f.evaluator.Evaluate(context.Background(), f.user.ID)
		assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))
	})
}

func TestAggregate_NullSafeMacroAverages(t *testing.T) {
	a := catalog.Recipe{ID: uuid.New(), Macros: catalog.Macros{Calories: catalog.Int(400), ProteinGrams: catalog.Float(30)}}
	b := catalog.Recipe{ID: uuid.New(), Macros: catalog.Macros{Calories: catalog.Int(700)}}
	userID := uuid.New()
	recs := []*recommendation.Recommendation{
		recommendation.New(userID, a.ID, "", recommendation.Metadata{}),
		recommendation.New(userID, b.ID, "", recommendation.Metadata{}),
		recommendation.New(userID, uuid.New(), "", recommendation.Metadata{}),
	}

	report := Aggregate(profile.GoalUnknown, recs, map[uuid.UUID]catalog.Recipe{a.ID: a, b.ID: b})

	assert.Equal(t, 2, report.SampleCount)
	require.NotNil(t, report.MacroAverages.Calories)
	assert.Equal(t, 550.0, *report.MacroAverages.Calories)
	require.NotNil(t, report.MacroAverages.ProteinGrams)
	assert.Equal(t, 30.0, *report.MacroAverages.ProteinGrams)
	assert.Nil(t, report.MacroAverages.CarbsGrams)
	assert.Nil(t, report.MacroAverages.FatGrams)
	// 55 and 50
	assert.Equal(t, 52.5, report.AverageScore)
}
