package rerank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/alchemorsel/personalization/internal/domain/profile"
)

const systemPrompt = `You are a nutrition-aware meal curator for a prepared-meal service.
You reorder a fixed list of candidate meals for one customer and explain each pick in one short sentence.

Rules:
- Only use recipeId values from the candidate list. Never invent meals.
- Return at most the requested number of picks, best first.
- "healthySwap" is an optional short idea to make the meal healthier.
- "swapRecipeId" is optional and must be another candidate's recipeId.

Respond with ONLY a JSON object in exactly this format, with no other text:
{"recommendations":[{"recipeId":"<id>","rationale":"<one sentence>","healthySwap":"<idea or null>","swapRecipeId":"<id or null>"}]}`

type promptProfile struct {
	Goals              []string `json:"goals"`
	Allergens          []string `json:"allergens"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	TastePreferences   []string `json:"tastePreferences"`
	BudgetTargetCents  *int     `json:"budgetTargetCents,omitempty"`
}

type promptCandidate struct {
	RecipeID        string   `json:"recipeId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PriceCents      int      `json:"priceCents"`
	Macros          string   `json:"macros"`
	Tags            []string `json:"tags"`
	Highlights      []string `json:"highlights"`
	Score           int      `json:"score"`
	InventoryStatus string   `json:"inventoryStatus"`
}

type promptBody struct {
	Requested  int               `json:"requested"`
	Profile    promptProfile     `json:"profile"`
	Candidates []promptCandidate `json:"candidates"`
}

// buildUserPrompt serializes the profile summary and every scored candidate
func buildUserPrompt(p *profile.Profile, candidates []scoring.ScoredCandidate, limit int) (string, error) {
	body := promptBody{
		Requested: limit,
		Profile: promptProfile{
			Allergens:         nonNil(p.Allergens),
			BudgetTargetCents: p.BudgetTargetCents,
		},
		Candidates: make([]promptCandidate, 0, len(candidates)),
	}
	for _, g := range p.Goals {
		body.Profile.Goals = append(body.Profile.Goals, string(g))
	}
	for _, d := range p.DietaryPreferences {
		body.Profile.DietaryPreferences = append(body.Profile.DietaryPreferences, string(d))
	}
	for _, t := range p.TastePreferences {
		body.Profile.TastePreferences = append(body.Profile.TastePreferences, string(t))
	}

	for _, c := range candidates {
		body.Candidates = append(body.Candidates, promptCandidate{
			RecipeID:        c.Recipe.ID.String(),
			Title:           c.Recipe.Title,
			Description:     c.Recipe.Description,
			PriceCents:      c.Recipe.PriceCents,
			Macros:          c.MacrosLabel,
			Tags:            nonNil(c.Recipe.Tags),
			Highlights:      nonNil(c.Recipe.Highlights),
			Score:           c.Score,
			InventoryStatus: string(c.Inventory.Status),
		})
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode rerank prompt: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pick the best %d meals for this customer.\n\n", limit)
	b.Write(encoded)
	return b.String(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
