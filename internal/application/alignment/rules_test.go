package alignment

import (
	"testing"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/stretchr/testify/assert"
)

func meal(cal *int, protein, carbs, fat *float64, tags ...string) catalog.Recipe {
	return catalog.Recipe{
		Title:  "Meal",
		Tags:   tags,
		Macros: catalog.Macros{Calories: cal, ProteinGrams: protein, CarbsGrams: carbs, FatGrams: fat},
	}
}

func TestScoreMeal(t *testing.T) {
	tests := []struct {
		name   string
		goal   profile.Goal
		recipe catalog.Recipe
		score  int
		note   string
	}{
		{
			name:   "lean muscle high protein sensible portion",
			goal:   profile.GoalLeanMuscle,
			recipe: meal(catalog.Int(520), catalog.Float(40), catalog.Float(35), catalog.Float(15)),
			score:  85,
			note:   "Protein-rich enough to build lean muscle",
		},
		{
			name:   "lean muscle low protein and fatty",
			goal:   profile.GoalLeanMuscle,
			recipe: meal(catalog.Int(950), catalog.Float(10), nil, catalog.Float(40)),
			score:  5,
			note:   "Too little protein for lean muscle",
		},
		{
			name:   "energy carbs and portion",
			goal:   profile.GoalEnergy,
			recipe: meal(catalog.Int(600), nil, catalog.Float(60), nil),
			score:  90,
			note:   "Carbs sized for steady energy",
		},
		{
			name:   "metabolic reset moderate carbs",
			goal:   profile.GoalMetabolicReset,
			recipe: meal(catalog.Int(700), nil, catalog.Float(40), nil),
			score:  60,
			note:   "Moderate carbs for a metabolic reset",
		},
		{
			name:   "metabolic reset carb heavy and calorie dense",
			goal:   profile.GoalMetabolicReset,
			recipe: meal(catalog.Int(1200), nil, catalog.Float(110), nil),
			score:  10,
			note:   "Carb heavy for a metabolic reset",
		},
		{
			name:   "brain care with salmon",
			goal:   profile.GoalBrainCare,
			recipe: meal(nil, nil, nil, catalog.Float(22), "salmon"),
			score:  85,
			note:   "Brain-friendly ingredients",
		},
		{
			name:   "no goal and no macros",
			goal:   profile.GoalUnknown,
			recipe: meal(nil, nil, nil, nil),
			score:  50,
			note:   "No strong signals for this goal",
		},
		{
			name:   "no goal generic portion",
			goal:   profile.GoalUnknown,
			recipe: meal(catalog.Int(450), nil, nil, nil),
			score:  55,
			note:   "Sensible portion size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, note := ScoreMeal(tt.goal, tt.recipe)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.note, note)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-12))
	assert.Equal(t, 100, clamp(130))
	assert.Equal(t, 64, clamp(64))

	score, _ := ScoreMeal(profile.GoalMetabolicReset, meal(catalog.Int(400), nil, catalog.Float(10), nil))
	assert.Equal(t, 95, score)
}
