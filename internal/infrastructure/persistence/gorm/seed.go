package gorm

import (
	"fmt"

	"gorm.io/gorm"
)

type seedRecipe struct {
	recipe   RecipeModel
	status   string
	quantity int
}

// SeedDemoData populates the database with a demo user and a small system pantry
func SeedDemoData(db *gorm.DB, pantrySlug string) error {
	// Check if data already exists
	var userCount int64
	if err := db.Model(&UserModel{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil // Already seeded
	}

	return db.Transaction(func(tx *gorm.DB) error {
		budget := 1400
		user := UserModel{
			Email: "demo@alchemorsel.com",
			Name:  "Demo Member",
			Profile: &NutritionProfileModel{
				Goals:              StringSlice{"LEAN_MUSCLE"},
				Allergens:          StringSlice{"peanut"},
				DietaryPreferences: StringSlice{"HIGH_PROTEIN"},
				TastePreferences:   StringSlice{"SPICY", "SAVORY"},
				BudgetTargetCents:  &budget,
			},
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}

		pantry := PantryModel{Slug: pantrySlug, Name: "System Pantry"}
		if err := tx.Create(&pantry).Error; err != nil {
			return fmt.Errorf("failed to create system pantry: %w", err)
		}

		for _, s := range demoCatalog() {
			recipe := s.recipe
			if err := tx.Create(&recipe).Error; err != nil {
				return fmt.Errorf("failed to create demo recipe %q: %w", recipe.Title, err)
			}

			item := InventoryItemModel{
				PantryID: pantry.ID,
				RecipeID: recipe.ID,
				Status:   s.status,
				Quantity: s.quantity,
				Unit:     "portion",
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to stock demo recipe %q: %w", recipe.Title, err)
			}
		}

		return nil
	})
}

func demoCatalog() []seedRecipe {
	return []seedRecipe{
		{
			recipe: RecipeModel{
				Title:        "Harissa Chicken Power Bowl",
				Description:  "Grilled chicken thigh, spicy harissa, quinoa and charred peppers",
				PriceCents:   1250,
				Calories:     intPtr(560),
				ProteinGrams: floatPtr(46),
				CarbsGrams:   floatPtr(42),
				FatGrams:     floatPtr(18),
				Tags:         StringSlice{"high-protein", "gluten-free"},
				Highlights:   StringSlice{"46g protein", "Ready in 2 minutes"},
			},
			status:   "IN_STOCK",
			quantity: 42,
		},
		{
			recipe: RecipeModel{
				Title:        "Miso Glazed Salmon",
				Description:  "Roasted salmon with miso glaze, brown rice and sesame greens",
				PriceCents:   1490,
				Calories:     intPtr(610),
				ProteinGrams: floatPtr(38),
				CarbsGrams:   floatPtr(48),
				FatGrams:     floatPtr(24),
				Tags:         StringSlice{"pescatarian", "high-protein", "omega-3"},
				Allergens:    StringSlice{"fish", "soy", "sesame"},
				Highlights:   StringSlice{"Omega-3 rich salmon"},
			},
			status:   "IN_STOCK",
			quantity: 18,
		},
		{
			recipe: RecipeModel{
				Title:        "Turkey Chili",
				Description:  "Hearty turkey and bean chili with chipotle and lime",
				PriceCents:   1090,
				Calories:     intPtr(480),
				ProteinGrams: floatPtr(36),
				CarbsGrams:   floatPtr(40),
				FatGrams:     floatPtr(12),
				Tags:         StringSlice{"high-protein", "dairy-free"},
			},
			status:   "LOW_STOCK",
			quantity: 4,
		},
		{
			recipe: RecipeModel{
				Title:        "Garlic Tofu Stir Fry",
				Description:  "Crisp tofu, broccoli and snap peas in a garlic ginger sauce",
				PriceCents:   990,
				Calories:     intPtr(430),
				ProteinGrams: floatPtr(24),
				CarbsGrams:   floatPtr(38),
				FatGrams:     floatPtr(16),
				Tags:         StringSlice{"vegan", "vegetarian", "dairy-free"},
				Allergens:    StringSlice{"soy"},
			},
			status:   "IN_STOCK",
			quantity: 12,
		},
		{
			recipe: RecipeModel{
				Title:        "Blueberry Walnut Overnight Oats",
				Description:  "Oats soaked in almond milk with blueberries, walnuts and maple",
				PriceCents:   650,
				Calories:     intPtr(390),
				ProteinGrams: floatPtr(14),
				CarbsGrams:   floatPtr(58),
				FatGrams:     floatPtr(14),
				Tags:         StringSlice{"vegetarian", "brain-food"},
				Allergens:    StringSlice{"tree nut"},
				Highlights:   StringSlice{"Blueberries and walnuts"},
			},
			status:   "LOW_STOCK",
			quantity: 9,
		},
		{
			recipe: RecipeModel{
				Title:        "Spicy Peanut Noodles",
				Description:  "Rice noodles tossed in a sriracha peanut sauce",
				PriceCents:   950,
				Calories:     intPtr(720),
				ProteinGrams: floatPtr(20),
				CarbsGrams:   floatPtr(84),
				FatGrams:     floatPtr(32),
				Tags:         StringSlice{"vegetarian"},
				Allergens:    StringSlice{"peanut", "soy"},
			},
			status:   "IN_STOCK",
			quantity: 25,
		},
		{
			recipe: RecipeModel{
				Title:        "Steak Frites",
				Description:  "Seared sirloin with fries and herb butter",
				PriceCents:   1890,
				Calories:     intPtr(920),
				ProteinGrams: floatPtr(44),
				CarbsGrams:   floatPtr(62),
				FatGrams:     floatPtr(48),
				Allergens:    StringSlice{"dairy"},
			},
			status:   "OUT_OF_STOCK",
			quantity: 0,
		},
		{
			recipe: RecipeModel{
				Title:       "Seasonal Soup",
				Description: "Chef's rotating vegetable soup",
				PriceCents:  700,
				Tags:        StringSlice{"vegan"},
			},
			status:   "IN_STOCK",
			quantity: 6,
		},
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
