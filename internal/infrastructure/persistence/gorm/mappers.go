package gorm

import (
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
)

// ModelToUser converts a UserModel to the domain user view
func ModelToUser(model *UserModel) *profile.User {
	return &profile.User{
		ID:    model.ID,
		Email: model.Email,
		Name:  model.Name,
	}
}

// ModelToRawProfile converts a stored profile to unparsed domain values
func ModelToRawProfile(model *NutritionProfileModel) profile.RawProfile {
	return profile.RawProfile{
		UserID:             model.UserID,
		Goals:              model.Goals,
		Allergens:          model.Allergens,
		DietaryPreferences: model.DietaryPreferences,
		TastePreferences:   model.TastePreferences,
		BudgetTargetCents:  model.BudgetTargetCents,
	}
}

// ModelToRecipe converts a RecipeModel to the catalog view
func ModelToRecipe(model *RecipeModel) catalog.Recipe {
	return catalog.Recipe{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		PriceCents:  model.PriceCents,
		Macros: catalog.Macros{
			Calories:     model.Calories,
			ProteinGrams: model.ProteinGrams,
			CarbsGrams:   model.CarbsGrams,
			FatGrams:     model.FatGrams,
		},
		Tags:       model.Tags,
		Allergens:  model.Allergens,
		Highlights: model.Highlights,
	}
}

// ModelToCandidate joins an inventory row with its preloaded recipe
func ModelToCandidate(model *InventoryItemModel) catalog.CandidateRecipe {
	return catalog.CandidateRecipe{
		Recipe: ModelToRecipe(&model.Recipe),
		Inventory: catalog.InventoryState{
			Status:   catalog.ParseInventoryStatus(model.Status),
			Quantity: model.Quantity,
			Unit:     model.Unit,
		},
	}
}

// RecommendationToModel converts a domain recommendation to its GORM model
func RecommendationToModel(rec *recommendation.Recommendation) *RecommendationModel {
	return &RecommendationModel{
		ID:                   rec.ID,
		UserID:               rec.UserID,
		RecipeID:             rec.RecipeID,
		HealthySwapRecipeID:  rec.HealthySwapRecipeID,
		Rationale:            rec.Rationale,
		HealthySwapRationale: rec.HealthySwapRationale,
		SessionID:            rec.SessionID,
		Metadata:             RankingMetadata(rec.Metadata),
		Status:               string(rec.Status),
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
}

// ModelToRecommendation converts a GORM model to a domain recommendation
func ModelToRecommendation(model *RecommendationModel) *recommendation.Recommendation {
	return &recommendation.Recommendation{
		ID:                   model.ID,
		UserID:               model.UserID,
		RecipeID:             model.RecipeID,
		HealthySwapRecipeID:  model.HealthySwapRecipeID,
		Rationale:            model.Rationale,
		HealthySwapRationale: model.HealthySwapRationale,
		SessionID:            model.SessionID,
		Metadata:             recommendation.Metadata(model.Metadata),
		Status:               recommendation.Status(model.Status),
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

// FeedbackToModel converts a feedback event to its GORM model
func FeedbackToModel(event *recommendation.FeedbackEvent) *FeedbackEventModel {
	return &FeedbackEventModel{
		ID:               event.ID,
		RecommendationID: event.RecommendationID,
		UserID:           event.UserID,
		Action:           string(event.Action),
		Sentiment:        string(event.Sentiment),
		Notes:            event.Notes,
		CreatedAt:        event.CreatedAt,
	}
}
