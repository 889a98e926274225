package scoring

import (
	"fmt"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
)

const (
	swapHighCalorie = "Swap the starch for roasted vegetables to trim roughly 200 calories."
	swapLowerCarb   = "Ask for cauliflower rice in place of grains to keep carbs in check."
	swapLighterFat  = "Go for a lighter vinaigrette or keep the dressing on the side."
	swapDairyFree   = "Choose the dairy-free version to keep it fully plant-based."
	swapGeneric     = "Add a side of leafy greens for extra fiber."
)

// ComposeRationale writes one sentence explaining the pick. It never fails;
// without a recognized goal it falls back to a macro summary.
func ComposeRationale(c catalog.CandidateRecipe, p *profile.Profile) string {
	return fmt.Sprintf("%s, %s.", rationaleLead(c.Recipe, p.PrimaryGoal()), urgency(c.Inventory))
}

func rationaleLead(r catalog.Recipe, goal profile.Goal) string {
	m := r.Macros
	switch goal {
	case profile.GoalLeanMuscle:
		if protein, ok := grams(m.ProteinGrams); ok {
			return fmt.Sprintf("Delivers %.0fg protein to support your %s goal", protein, goal.Label())
		}
	case profile.GoalEnergy:
		if carbs, ok := grams(m.CarbsGrams); ok {
			return fmt.Sprintf("Carries %.0fg carbs for %s through the day", carbs, goal.Label())
		}
	case profile.GoalMetabolicReset:
		if carbs, ok := grams(m.CarbsGrams); ok {
			return fmt.Sprintf("Keeps carbs to %.0fg in support of your %s", carbs, goal.Label())
		}
	case profile.GoalBrainCare:
		if HasBrainFood(r) {
			return fmt.Sprintf("Brings brain-friendly ingredients for your %s goal", goal.Label())
		}
	}

	if goal != profile.GoalUnknown {
		return fmt.Sprintf("Picked with your %s goal in mind (%s)", goal.Label(), m.Label())
	}
	return fmt.Sprintf("A balanced pick with %s", m.Label())
}

func urgency(inv catalog.InventoryState) string {
	if inv.Status == catalog.InventoryLowStock {
		return fmt.Sprintf("low stock, %d left", inv.Quantity)
	}
	return "ready now"
}

// ComposeSwap proposes at most one healthy swap idea. The first matching
// threshold wins and the generic filler is used otherwise.
func ComposeSwap(c catalog.CandidateRecipe, p *profile.Profile) string {
	r := c.Recipe
	m := r.Macros

	if m.Calories != nil && *m.Calories > 750 {
		return swapHighCalorie
	}
	if carbs, ok := grams(m.CarbsGrams); ok && carbs > 45 && p.HasGoal(profile.GoalMetabolicReset) {
		return swapLowerCarb
	}
	if fat, ok := grams(m.FatGrams); ok && fat > 30 {
		return swapLighterFat
	}
	if p.Prefers(profile.DietaryVegan) && (r.HasAllergen("dairy") || r.HasTag("dairy")) {
		return swapDairyFree
	}
	return swapGeneric
}
