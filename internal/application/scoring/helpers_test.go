package scoring

import (
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/google/uuid"
)

func candidate(title string, status catalog.InventoryStatus, qty int) catalog.CandidateRecipe {
	return catalog.CandidateRecipe{
		Recipe: catalog.Recipe{
			ID:         uuid.New(),
			Title:      title,
			PriceCents: 1200,
		},
		Inventory: catalog.InventoryState{Status: status, Quantity: qty, Unit: "meal"},
	}
}

func withMacros(c catalog.CandidateRecipe, calories *int, protein, carbs, fat *float64) catalog.CandidateRecipe {
	c.Recipe.Macros = catalog.Macros{Calories: calories, ProteinGrams: protein, CarbsGrams: carbs, FatGrams: fat}
	return c
}

func leanMuscleProfile() *profile.Profile {
	return &profile.Profile{UserID: uuid.New(), Goals: []profile.Goal{profile.GoalLeanMuscle}}
}

func reasons(sc ScoredCandidate) map[string]int {
	out := make(map[string]int, len(sc.Adjustments))
	for _, a := range sc.Adjustments {
		out[a.Reason] = a.Delta
	}
	return out
}
