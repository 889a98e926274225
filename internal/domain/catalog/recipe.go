// Package catalog defines the inventory-bearing recipe snapshot read by personalization
package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// InventoryStatus represents the availability of a prepared meal
type InventoryStatus string

const (
	InventoryInStock    InventoryStatus = "IN_STOCK"
	InventoryLowStock   InventoryStatus = "LOW_STOCK"
	InventoryOutOfStock InventoryStatus = "OUT_OF_STOCK"
)

// ParseInventoryStatus resolves a stored status. Unknown values are treated
// as out of stock so they can never be recommended.
func ParseInventoryStatus(raw string) InventoryStatus {
	switch InventoryStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case InventoryInStock:
		return InventoryInStock
	case InventoryLowStock:
		return InventoryLowStock
	default:
		return InventoryOutOfStock
	}
}

// InventoryState is a point-in-time inventory reading for one recipe
type InventoryState struct {
	Status   InventoryStatus
	Quantity int
	Unit     string
}

// Available reports whether the item can be offered at all
func (s InventoryState) Available() bool {
	return s.Status != InventoryOutOfStock && s.Quantity > 0
}

// Macros holds per-serving nutrition. Nil fields are unknown.
type Macros struct {
	Calories     *int
	ProteinGrams *float64
	CarbsGrams   *float64
	FatGrams     *float64
}

// Label renders the known macros as a compact summary
func (m Macros) Label() string {
	var parts []string
	if m.Calories != nil {
		parts = append(parts, fmt.Sprintf("%d kcal", *m.Calories))
	}
	if m.ProteinGrams != nil {
		parts = append(parts, fmt.Sprintf("%.0fg protein", *m.ProteinGrams))
	}
	if m.CarbsGrams != nil {
		parts = append(parts, fmt.Sprintf("%.0fg carbs", *m.CarbsGrams))
	}
	if m.FatGrams != nil {
		parts = append(parts, fmt.Sprintf("%.0fg fat", *m.FatGrams))
	}
	if len(parts) == 0 {
		return "macros unavailable"
	}
	return strings.Join(parts, " · ")
}

// Recipe is the catalog view of a prepared meal
type Recipe struct {
	ID          uuid.UUID
	Title       string
	Description string
	ImageURL    string
	PriceCents  int
	Macros      Macros
	Tags        []string
	Allergens   []string
	Highlights  []string
}

// HasTag reports whether the recipe carries the tag, case-insensitively
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// HasAllergen reports whether the recipe declares the allergen, case-insensitively
func (r Recipe) HasAllergen(allergen string) bool {
	for _, a := range r.Allergens {
		if strings.EqualFold(strings.TrimSpace(a), allergen) {
			return true
		}
	}
	return false
}

// SearchText returns title and description lower-cased for keyword matching
func (r Recipe) SearchText() string {
	return strings.ToLower(r.Title + " " + r.Description)
}

// CandidateRecipe joins a recipe with its inventory snapshot
type CandidateRecipe struct {
	Recipe    Recipe
	Inventory InventoryState
}

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }
