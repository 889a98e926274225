package scoring

import (
	"testing"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/stretchr/testify/assert"
)

func TestComposeRationale(t *testing.T) {
	tests := []struct {
		name string
		goal profile.Goal
		c    catalog.CandidateRecipe
		want string
	}{
		{
			name: "lean muscle in stock",
			goal: profile.GoalLeanMuscle,
			c:    withMacros(candidate("Steak", catalog.InventoryInStock, 20), nil, catalog.Float(42), nil, nil),
			want: "Delivers 42g protein to support your lean muscle goal, ready now.",
		},
		{
			name: "metabolic reset low stock",
			goal: profile.GoalMetabolicReset,
			c:    withMacros(candidate("Salad", catalog.InventoryLowStock, 3), nil, nil, catalog.Float(18), nil),
			want: "Keeps carbs to 18g in support of your metabolic reset, low stock, 3 left.",
		},
		{
			name: "goal without usable macros",
			goal: profile.GoalEnergy,
			c:    withMacros(candidate("Soup", catalog.InventoryInStock, 20), catalog.Int(300), nil, nil, nil),
			want: "Picked with your steady energy goal in mind (300 kcal), ready now.",
		},
		{
			name: "no goal",
			goal: profile.GoalUnknown,
			c:    candidate("Mystery", catalog.InventoryInStock, 20),
			want: "A balanced pick with macros unavailable, ready now.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &profile.Profile{}
			if tt.goal != profile.GoalUnknown {
				p.Goals = []profile.Goal{tt.goal}
			}
			assert.Equal(t, tt.want, ComposeRationale(tt.c, p))
		})
	}
}

func TestComposeRationale_UnrecognizedPrimaryGoal(t *testing.T) {
	p, _ := profile.Build(profile.RawProfile{Goals: []string{"weight loss", "energy"}})
	c := withMacros(candidate("Rice Bowl", catalog.InventoryInStock, 20), catalog.Int(520), nil, catalog.Float(60), nil)

	assert.Equal(t, "A balanced pick with 520 kcal · 60g carbs, ready now.", ComposeRationale(c, p))
}

func TestComposeSwap(t *testing.T) {
	reset := &profile.Profile{Goals: []profile.Goal{profile.GoalMetabolicReset}}
	vegan := &profile.Profile{DietaryPreferences: []profile.DietaryPreference{profile.DietaryVegan}}
	plain := &profile.Profile{}

	heavy := withMacros(candidate("Feast", catalog.InventoryInStock, 5), catalog.Int(900), nil, catalog.Float(80), catalog.Float(40))
	assert.Equal(t, swapHighCalorie, ComposeSwap(heavy, reset))

	carby := withMacros(candidate("Pasta", catalog.InventoryInStock, 5), catalog.Int(600), nil, catalog.Float(70), nil)
	assert.Equal(t, swapLowerCarb, ComposeSwap(carby, reset))
	assert.Equal(t, swapGeneric, ComposeSwap(carby, plain))

	fatty := withMacros(candidate("Caesar", catalog.InventoryInStock, 5), nil, nil, nil, catalog.Float(33))
	assert.Equal(t, swapLighterFat, ComposeSwap(fatty, plain))

	dairy := candidate("Paneer", catalog.InventoryInStock, 5)
	dairy.Recipe.Allergens = []string{"Dairy"}
	assert.Equal(t, swapDairyFree, ComposeSwap(dairy, vegan))
	assert.Equal(t, swapGeneric, ComposeSwap(dairy, plain))
}
