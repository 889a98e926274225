// Package scoring ranks inventory-backed recipes against a nutrition profile.
// Everything in this package is a pure function over an in-memory snapshot.
package scoring

import (
	"errors"
	"sort"
	"strings"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
)

const (
	MinLimit = 3
	MaxLimit = 5
)

// ErrInventoryEmpty is returned when no candidate survives filtering
var ErrInventoryEmpty = errors.New("no available meals match this profile")

// ClampLimit applies the default when the request leaves the limit unset and
// keeps the result within [MinLimit, MaxLimit].
func ClampLimit(requested, fallback int) int {
	n := requested
	if n <= 0 {
		n = fallback
	}
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Filter narrows the catalog to available, allergen-safe candidates. IN_STOCK
// items come first in catalog order; LOW_STOCK items only backfill up to n.
func Filter(items []catalog.CandidateRecipe, p *profile.Profile, n int) ([]catalog.CandidateRecipe, error) {
	allergens := p.AllergenSet()

	var inStock, lowStock []catalog.CandidateRecipe
	for _, item := range items {
		if !item.Inventory.Available() {
			continue
		}
		if conflictsWith(item.Recipe, allergens) {
			continue
		}
		switch item.Inventory.Status {
		case catalog.InventoryInStock:
			inStock = append(inStock, item)
		case catalog.InventoryLowStock:
			lowStock = append(lowStock, item)
		}
	}

	candidates := inStock
	if missing := n - len(inStock); missing > 0 && len(lowStock) > 0 {
		sort.SliceStable(lowStock, func(i, j int) bool {
			a, b := lowStock[i], lowStock[j]
			if a.Inventory.Quantity != b.Inventory.Quantity {
				return a.Inventory.Quantity > b.Inventory.Quantity
			}
			return a.Recipe.Title < b.Recipe.Title
		})
		if missing > len(lowStock) {
			missing = len(lowStock)
		}
		candidates = append(candidates, lowStock[:missing]...)
	}

	if len(candidates) == 0 {
		return nil, ErrInventoryEmpty
	}
	return candidates, nil
}

func conflictsWith(r catalog.Recipe, allergens map[string]struct{}) bool {
	if len(allergens) == 0 {
		return false
	}
	for _, a := range r.Allergens {
		if _, ok := allergens[strings.ToLower(strings.TrimSpace(a))]; ok {
			return true
		}
	}
	return false
}
