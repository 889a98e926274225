//go:build integration

package gorm_test

import (
	"context"
	"testing"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
	gormModels "github.com/alchemorsel/personalization/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/personalization/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRepositories_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	tdb := testutils.SetupTestDatabase(t)
	require.NoError(t, tdb.RunMigrations())
	// running twice is a no-op
	require.NoError(t, tdb.RunMigrations())

	db := tdb.GormDB

	user := gormModels.UserModel{Email: "pg@example.com", Name: "Postgres"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&gormModels.NutritionProfileModel{
		UserID: user.ID,
		Goals:  gormModels.StringSlice{"ENERGY"},
	}).Error)

	pantry := gormModels.PantryModel{Slug: "system", Name: "System"}
	require.NoError(t, db.Create(&pantry).Error)

	oats := gormModels.RecipeModel{Title: "Oats", CarbsGrams: catalog.Float(55), Tags: gormModels.StringSlice{"vegan"}}
	bowl := gormModels.RecipeModel{Title: "Bowl", ProteinGrams: catalog.Float(40)}
	require.NoError(t, db.Create(&oats).Error)
	require.NoError(t, db.Create(&bowl).Error)
	require.NoError(t, db.Create(&[]gormModels.InventoryItemModel{
		{PantryID: pantry.ID, RecipeID: oats.ID, Status: "IN_STOCK", Quantity: 20},
		{PantryID: pantry.ID, RecipeID: bowl.ID, Status: "LOW_STOCK", Quantity: 3},
	}).Error)

	catalogRepo := gormModels.NewCatalogRepository(db)
	pantryID, err := catalogRepo.FindPantryIDBySlug(ctx, "system")
	require.NoError(t, err)

	candidates, err := catalogRepo.ListCandidates(ctx, pantryID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Bowl", candidates[0].Recipe.Title)
	assert.Equal(t, []string{"vegan"}, candidates[1].Recipe.Tags)

	p, err := gormModels.NewProfileRepository(db, zaptest.NewLogger(t)).FindProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ENERGY", string(p.PrimaryGoal()))

	recs := gormModels.NewRecommendationRepository(db)
	rec := recommendation.New(user.ID, oats.ID, "Steady carbs.", recommendation.Metadata{
		RankingSource: recommendation.SourceDeterministic,
		Score:         74,
		Adjustments:   []recommendation.Adjustment{{Reason: "carbs sized for energy", Delta: 12}},
	})
	require.NoError(t, recs.CreateBatch(ctx, []*recommendation.Recommendation{rec}))

	updated, err := recs.RecordFeedback(ctx, recommendation.NewFeedbackEvent(rec.ID, user.ID, recommendation.ActionSave, "", ""))
	require.NoError(t, err)
	assert.Equal(t, recommendation.StatusSaved, updated.Status)

	engaged, err := recs.FindEngaged(ctx, user.ID, recommendation.EngagedStatuses, 12)
	require.NoError(t, err)
	require.Len(t, engaged, 1)
	assert.Equal(t, rec.Metadata, engaged[0].Metadata)

	count, err := tdb.CountRecords(ctx, "recommendation_feedback")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, tdb.TruncateAllTables(ctx))
}
