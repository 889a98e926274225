package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInventoryStatus(t *testing.T) {
	assert.Equal(t, InventoryInStock, ParseInventoryStatus("in_stock"))
	assert.Equal(t, InventoryLowStock, ParseInventoryStatus(" LOW_STOCK "))
	assert.Equal(t, InventoryOutOfStock, ParseInventoryStatus("OUT_OF_STOCK"))
	assert.Equal(t, InventoryOutOfStock, ParseInventoryStatus("discontinued"))
}

func TestInventoryState_Available(t *testing.T) {
	assert.True(t, InventoryState{Status: InventoryInStock, Quantity: 1}.Available())
	assert.True(t, InventoryState{Status: InventoryLowStock, Quantity: 2}.Available())
	assert.False(t, InventoryState{Status: InventoryInStock, Quantity: 0}.Available())
	assert.False(t, InventoryState{Status: InventoryOutOfStock, Quantity: 12}.Available())
}

func TestMacros_Label(t *testing.T) {
	m := Macros{Calories: Int(520), ProteinGrams: Float(41.6), FatGrams: Float(12)}
	assert.Equal(t, "520 kcal · 42g protein · 12g fat", m.Label())
	assert.Equal(t, "macros unavailable", Macros{}.Label())
}

func TestRecipe_Matching(t *testing.T) {
	r := Recipe{
		Title:       "Harissa Chicken Bowl",
		Description: "Grilled chicken with LEMON yogurt",
		Tags:        []string{"High-Protein", " gluten-free"},
		Allergens:   []string{"Dairy"},
	}

	assert.True(t, r.HasTag("high-protein"))
	assert.True(t, r.HasTag("gluten-free"))
	assert.False(t, r.HasTag("vegan"))
	assert.True(t, r.HasAllergen("dairy"))
	assert.Contains(t, r.SearchText(), "lemon yogurt")
}
