// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// AllergenPool is the allergen vocabulary used by generated data
var AllergenPool = []string{"peanut", "tree nut", "soy", "dairy", "egg", "fish", "shellfish", "sesame", "gluten"}

var tagPool = []string{"vegan", "vegetarian", "pescatarian", "gluten-free", "dairy-free", "keto", "paleo", "low-carb", "high-protein", "spicy", "smoky", "fresh", "comfort"}

// CatalogFactory generates candidate recipes. The same seed yields the same catalog.
type CatalogFactory struct {
	faker *gofakeit.Faker
}

// NewCatalogFactory creates a new catalog factory with seeded faker
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{faker: gofakeit.New(seed)}
}

// CandidateBuilder provides a fluent interface for building test candidates
type CandidateBuilder struct {
	candidate catalog.CandidateRecipe
}

// Candidate starts a builder with a random, fully specified IN_STOCK recipe
func (f *CatalogFactory) Candidate() *CandidateBuilder {
	return &CandidateBuilder{candidate: catalog.CandidateRecipe{
		Recipe: catalog.Recipe{
			ID:          f.id(),
			Title:       fmt.Sprintf("%s %s Bowl", f.faker.Adjective(), f.faker.Noun()),
			Description: f.faker.Sentence(10),
			ImageURL:    f.faker.ImageURL(640, 480),
			PriceCents:  f.faker.Number(600, 1800),
			Macros: catalog.Macros{
				Calories:     catalog.Int(f.faker.Number(250, 900)),
				ProteinGrams: catalog.Float(float64(f.faker.Number(5, 60))),
				CarbsGrams:   catalog.Float(float64(f.faker.Number(5, 90))),
				FatGrams:     catalog.Float(float64(f.faker.Number(3, 45))),
			},
			Tags: f.pick(tagPool, 3),
		},
		Inventory: catalog.InventoryState{
			Status:   catalog.InventoryInStock,
			Quantity: f.faker.Number(5, 40),
			Unit:     "portion",
		},
	}}
}

// Catalog generates n candidates with mixed stock levels, allergens and
// missing macros
func (f *CatalogFactory) Catalog(n int) []catalog.CandidateRecipe {
	statuses := []catalog.InventoryStatus{
		catalog.InventoryInStock,
		catalog.InventoryInStock,
		catalog.InventoryLowStock,
		catalog.InventoryOutOfStock,
	}

	out := make([]catalog.CandidateRecipe, 0, n)
	for i := 0; i < n; i++ {
		b := f.Candidate().
			WithStatus(statuses[f.faker.Number(0, len(statuses)-1)], f.faker.Number(0, 30)).
			WithAllergens(f.pick(AllergenPool, 2)...)
		if f.faker.Number(1, 5) == 1 {
			b = b.WithMacros(nil, nil, nil, nil)
		}
		out = append(out, b.Build())
	}
	return out
}

// Profile generates a profile with the given goal and random allergens and tastes
func (f *CatalogFactory) Profile(goal profile.Goal) *profile.Profile {
	budget := f.faker.Number(800, 1600)
	p := &profile.Profile{
		UserID:            f.id(),
		Allergens:         f.pick(AllergenPool, 2),
		TastePreferences:  []profile.TastePreference{profile.TasteSpicy},
		BudgetTargetCents: &budget,
	}
	if goal != profile.GoalUnknown {
		p.Goals = []profile.Goal{goal}
	}
	return p
}

// WithTitle sets the recipe title
func (b *CandidateBuilder) WithTitle(title string) *CandidateBuilder {
	b.candidate.Recipe.Title = title
	return b
}

// WithStatus sets the inventory status and quantity
func (b *CandidateBuilder) WithStatus(status catalog.InventoryStatus, quantity int) *CandidateBuilder {
	b.candidate.Inventory.Status = status
	b.candidate.Inventory.Quantity = quantity
	return b
}

// WithMacros replaces the macros; nil means unknown
func (b *CandidateBuilder) WithMacros(calories *int, protein, carbs, fat *float64) *CandidateBuilder {
	b.candidate.Recipe.Macros = catalog.Macros{
		Calories:     calories,
		ProteinGrams: protein,
		CarbsGrams:   carbs,
		FatGrams:     fat,
	}
	return b
}

// WithAllergens sets the declared allergens
func (b *CandidateBuilder) WithAllergens(allergens ...string) *CandidateBuilder {
	b.candidate.Recipe.Allergens = allergens
	return b
}

// WithTags sets the recipe tags
func (b *CandidateBuilder) WithTags(tags ...string) *CandidateBuilder {
	b.candidate.Recipe.Tags = tags
	return b
}

// WithPrice sets the price in cents
func (b *CandidateBuilder) WithPrice(cents int) *CandidateBuilder {
	b.candidate.Recipe.PriceCents = cents
	return b
}

// Build returns the candidate
func (b *CandidateBuilder) Build() catalog.CandidateRecipe {
	return b.candidate
}

func (f *CatalogFactory) id() uuid.UUID {
	return uuid.MustParse(f.faker.UUID())
}

// pick returns up to max distinct values from pool
func (f *CatalogFactory) pick(pool []string, max int) []string {
	n := f.faker.Number(0, max)
	shuffled := append([]string(nil), pool...)
	f.faker.ShuffleStrings(shuffled)
	return shuffled[:n]
}
