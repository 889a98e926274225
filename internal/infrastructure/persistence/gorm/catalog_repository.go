package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository implements the catalog repository interface using GORM
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) outbound.CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCandidates returns the pantry's inventory joined with recipes, ordered by title
func (r *CatalogRepository) ListCandidates(ctx context.Context, pantryID uuid.UUID) ([]catalog.CandidateRecipe, error) {
	var models []InventoryItemModel

	result := r.db.WithContext(ctx).
		Joins("Recipe").
		Where("inventory_items.pantry_id = ?", pantryID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "Recipe", Name: "title"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "inventory_items", Name: "recipe_id"}}).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("list candidates: %w", result.Error)
	}

	candidates := make([]catalog.CandidateRecipe, 0, len(models))
	for i := range models {
		candidates = append(candidates, ModelToCandidate(&models[i]))
	}

	return candidates, nil
}

// FindRecipesByIDs loads the recipes that exist among ids
func (r *CatalogRepository) FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Recipe, error) {
	recipes := make(map[uuid.UUID]catalog.Recipe, len(ids))
	if len(ids) == 0 {
		return recipes, nil
	}

	var models []RecipeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}

	for i := range models {
		recipes[models[i].ID] = ModelToRecipe(&models[i])
	}

	return recipes, nil
}

// FindPantryIDBySlug resolves a pantry slug to its id
func (r *CatalogRepository) FindPantryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	var model PantryModel

	result := r.db.WithContext(ctx).Select("id").First(&model, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return uuid.Nil, catalog.ErrPantryNotFound
		}
		return uuid.Nil, fmt.Errorf("find pantry: %w", result.Error)
	}

	return model.ID, nil
}
