package recommendation

import (
	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	domain "github.com/alchemorsel/personalization/internal/domain/recommendation"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
	"github.com/google/uuid"
)

func toDTO(rec *domain.Recommendation, c scoring.ScoredCandidate, titles map[uuid.UUID]string) inbound.RecommendationDTO {
	r := c.Recipe
	dto := inbound.RecommendationDTO{
		RecommendationID: rec.ID,
		RecipeID:         r.ID,
		Title:            r.Title,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		PriceCents:       r.PriceCents,
		Macros:           macrosDTO(r.Macros),
		Tags:             nonNil(r.Tags),
		Highlights:       nonNil(r.Highlights),
		Allergens:        nonNil(r.Allergens),
		Inventory: inbound.InventoryDTO{
			Status:   string(c.Inventory.Status),
			Quantity: c.Inventory.Quantity,
			Unit:     c.Inventory.Unit,
		},
		Rationale: rec.Rationale,
		Metadata: inbound.MetadataDTO{
			RankingSource: string(rec.Metadata.RankingSource),
			BaseScore:     rec.Metadata.Score,
			Adjustments:   make([]inbound.AdjustmentDTO, 0, len(rec.Metadata.Adjustments)),
		},
	}
	if rec.HealthySwapRationale != nil {
		dto.HealthySwapCopy = *rec.HealthySwapRationale
	}
	if rec.HealthySwapRecipeID != nil {
		dto.SwapRecipe = &inbound.SwapRecipeDTO{
			RecipeID: *rec.HealthySwapRecipeID,
			Title:    titles[*rec.HealthySwapRecipeID],
		}
	}
	for _, adj := range rec.Metadata.Adjustments {
		dto.Metadata.Adjustments = append(dto.Metadata.Adjustments, inbound.AdjustmentDTO{
			Reason: adj.Reason,
			Delta:  adj.Delta,
		})
	}
	return dto
}

func macrosDTO(m catalog.Macros) inbound.MacrosDTO {
	return inbound.MacrosDTO{
		Calories:     m.Calories,
		ProteinGrams: m.ProteinGrams,
		CarbsGrams:   m.CarbsGrams,
		FatGrams:     m.FatGrams,
		Label:        m.Label(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
