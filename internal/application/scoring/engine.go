package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
	"github.com/alchemorsel/personalization/internal/domain/recommendation"
)

// BaseScore is the starting score for every candidate
const BaseScore = 62

const (
	lowStockCritical  = 4
	lowStockThreshold = 10
	plentifulStock    = 35
	midStock          = 15

	budgetCushionCents = 100
	budgetRewardCap    = 8
	budgetPenaltyCap   = 10
)

// brainFoods are tag or highlight fragments that count as brain-friendly ingredients
var brainFoods = []string{"omega-3", "salmon", "sardine", "walnut", "blueberr", "leafy", "brain"}

// ScoredCandidate is a candidate with its score and explanation. It is
// computed fresh per request and never persisted directly.
type ScoredCandidate struct {
	catalog.CandidateRecipe
	Score       int
	Adjustments []recommendation.Adjustment
	MacrosLabel string
	Rationale   string
	SwapCopy    string
}

// rule contributes adjustments for one scoring concern
type rule func(c catalog.CandidateRecipe, p *profile.Profile) []recommendation.Adjustment

// rules run in this order; the order is the order of the adjustment list
var rules = []rule{
	inventoryRule,
	goalRule,
	calorieDensityRule,
	dietaryRule,
	tasteRule,
	budgetRule,
	macroBalanceRule,
}

// Score applies every rule to one candidate. Deltas sum against BaseScore
// without clamping.
func Score(c catalog.CandidateRecipe, p *profile.Profile) ScoredCandidate {
	score := BaseScore
	var adjustments []recommendation.Adjustment
	for _, r := range rules {
		for _, adj := range r(c, p) {
			if adj.Delta == 0 {
				continue
			}
			score += adj.Delta
			adjustments = append(adjustments, adj)
		}
	}

	return ScoredCandidate{
		CandidateRecipe: c,
		Score:           score,
		Adjustments:     adjustments,
		MacrosLabel:     c.Recipe.Macros.Label(),
		Rationale:       ComposeRationale(c, p),
		SwapCopy:        ComposeSwap(c, p),
	}
}

// Rank scores every candidate and orders them deterministically
func Rank(candidates []catalog.CandidateRecipe, p *profile.Profile) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Score(c, p))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Inventory.Status != b.Inventory.Status {
			return a.Inventory.Status == catalog.InventoryInStock
		}
		if a.Inventory.Quantity != b.Inventory.Quantity {
			return a.Inventory.Quantity > b.Inventory.Quantity
		}
		if a.Recipe.Title != b.Recipe.Title {
			return a.Recipe.Title < b.Recipe.Title
		}
		return a.Recipe.ID.String() < b.Recipe.ID.String()
	})
	return scored
}

func adjust(reason string, delta int) recommendation.Adjustment {
	return recommendation.Adjustment{Reason: reason, Delta: delta}
}

func inventoryRule(c catalog.CandidateRecipe, _ *profile.Profile) []recommendation.Adjustment {
	qty := c.Inventory.Quantity
	switch c.Inventory.Status {
	case catalog.InventoryOutOfStock:
		return []recommendation.Adjustment{adjust("out of stock", -100)}
	case catalog.InventoryLowStock:
		switch {
		case qty <= lowStockCritical:
			return []recommendation.Adjustment{adjust("almost sold out", -12)}
		case qty <= lowStockThreshold:
			return []recommendation.Adjustment{adjust("limited stock", -7)}
		default:
			return []recommendation.Adjustment{adjust("low stock", -3)}
		}
	case catalog.InventoryInStock:
		switch {
		case qty >= plentifulStock:
			return []recommendation.Adjustment{adjust("plenty in stock", 10)}
		case qty >= midStock:
			return []recommendation.Adjustment{adjust("well stocked", 6)}
		default:
			return []recommendation.Adjustment{adjust("in stock", 3)}
		}
	}
	return nil
}

func goalRule(c catalog.CandidateRecipe, p *profile.Profile) []recommendation.Adjustment {
	var out []recommendation.Adjustment
	for _, g := range p.Goals {
		out = append(out, goalAdjustments(g, c.Recipe)...)
	}
	return out
}

// goalAdjustments dispatches on the closed goal set. Unknown goals yield nothing.
func goalAdjustments(g profile.Goal, r catalog.Recipe) []recommendation.Adjustment {
	switch g {
	case profile.GoalLeanMuscle:
		return leanMuscleRule(r.Macros)
	case profile.GoalEnergy:
		return energyRule(r.Macros)
	case profile.GoalMetabolicReset:
		return metabolicResetRule(r.Macros)
	case profile.GoalBrainCare:
		return brainCareRule(r)
	default:
		return nil
	}
}

func leanMuscleRule(m catalog.Macros) []recommendation.Adjustment {
	var out []recommendation.Adjustment
	if protein, ok := grams(m.ProteinGrams); ok {
		switch {
		case protein >= 40:
			out = append(out, adjust("high protein density", 18))
		case protein >= 28:
			out = append(out, adjust("solid protein for lean muscle", 10))
		case protein < 20:
			out = append(out, adjust("light on protein for lean muscle", -10))
		}
	}
	if fat, ok := grams(m.FatGrams); ok && fat > 30 {
		out = append(out, adjust("fat heavy for lean muscle", -6))
	}
	return out
}

func energyRule(m catalog.Macros) []recommendation.Adjustment {
	var out []recommendation.Adjustment
	if carbs, ok := grams(m.CarbsGrams); ok {
		switch {
		case carbs >= 40 && carbs <= 75:
			out = append(out, adjust("steady carbs for energy", 12))
		case carbs < 25:
			out = append(out, adjust("too few carbs for energy", -6))
		}
	}
	if protein, ok := grams(m.ProteinGrams); ok && protein >= 20 {
		out = append(out, adjust("protein to sustain energy", 4))
	}
	return out
}

func metabolicResetRule(m catalog.Macros) []recommendation.Adjustment {
	var out []recommendation.Adjustment
	if carbs, ok := grams(m.CarbsGrams); ok {
		switch {
		case carbs <= 30:
			out = append(out, adjust("low carb for metabolic reset", 14))
		case carbs > 60:
			out = append(out, adjust("carb heavy for metabolic reset", -12))
		}
	}
	if m.Calories != nil && *m.Calories > 0 && *m.Calories <= 550 {
		out = append(out, adjust("calorie conscious", 6))
	}
	return out
}

func brainCareRule(r catalog.Recipe) []recommendation.Adjustment {
	var out []recommendation.Adjustment
	if fat, ok := grams(r.Macros.FatGrams); ok && fat >= 15 && fat <= 30 {
		out = append(out, adjust("healthy fats for brain care", 8))
	}
	if HasBrainFood(r) {
		out = append(out, adjust("brain-friendly ingredients", 10))
	}
	if carbs, ok := grams(r.Macros.CarbsGrams); ok && carbs > 70 {
		out = append(out, adjust("carb heavy for brain care", -6))
	}
	return out
}

// HasBrainFood reports whether any tag or highlight names a brain-friendly ingredient
func HasBrainFood(r catalog.Recipe) bool {
	for _, field := range [][]string{r.Tags, r.Highlights} {
		for _, v := range field {
			lower := strings.ToLower(v)
			for _, food := range brainFoods {
				if strings.Contains(lower, food) {
					return true
				}
			}
		}
	}
	return false
}

func calorieDensityRule(c catalog.CandidateRecipe, _ *profile.Profile) []recommendation.Adjustment {
	cal := c.Recipe.Macros.Calories
	if cal == nil || *cal <= 0 {
		return nil
	}
	switch {
	case *cal > 800:
		return []recommendation.Adjustment{adjust("very high calories", -10)}
	case *cal <= 550:
		return []recommendation.Adjustment{adjust("modest calories", 5)}
	}
	return nil
}

func dietaryRule(c catalog.CandidateRecipe, p *profile.Profile) []recommendation.Adjustment {
	var out []recommendation.Adjustment
	for _, pref := range p.DietaryPreferences {
		tags := pref.AcceptableTags()
		if len(tags) == 0 {
			continue
		}
		matched := false
		for _, tag := range tags {
			if c.Recipe.HasTag(tag) {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, adjust("matches "+pref.Label(), 8))
		} else {
			out = append(out, adjust("not "+pref.Label(), -6))
		}
	}
	return out
}

func tasteRule(c catalog.CandidateRecipe, p *profile.Profile) []recommendation.Adjustment {
	if len(p.TastePreferences) == 0 {
		return nil
	}
	text := c.Recipe.SearchText()
	var out []recommendation.Adjustment
	for _, taste := range p.TastePreferences {
		for _, kw := range taste.Keywords() {
			if strings.Contains(text, kw) {
				out = append(out, adjust(taste.Label()+" flavor match", 4))
				break
			}
		}
	}
	return out
}

func budgetRule(c catalog.CandidateRecipe, p *profile.Profile) []recommendation.Adjustment {
	if p.BudgetTargetCents == nil || *p.BudgetTargetCents <= 0 {
		return nil
	}
	target := *p.BudgetTargetCents
	price := c.Recipe.PriceCents

	if price <= target+budgetCushionCents {
		savings := target - price
		if savings < 0 {
			savings = 0
		}
		delta := 2 + savings/250
		if delta > budgetRewardCap {
			delta = budgetRewardCap
		}
		return []recommendation.Adjustment{adjust("within budget", delta)}
	}

	overage := price - target
	delta := 2 + overage/200
	if delta > budgetPenaltyCap {
		delta = budgetPenaltyCap
	}
	return []recommendation.Adjustment{adjust(fmt.Sprintf("over budget by $%.2f", float64(overage)/100), -delta)}
}

func macroBalanceRule(c catalog.CandidateRecipe, _ *profile.Profile) []recommendation.Adjustment {
	m := c.Recipe.Macros
	var out []recommendation.Adjustment
	protein, hasProtein := grams(m.ProteinGrams)
	carbs, hasCarbs := grams(m.CarbsGrams)
	fat, hasFat := grams(m.FatGrams)

	if hasProtein && hasCarbs && hasFat && protein >= 30 && carbs <= 45 && fat <= 20 {
		out = append(out, adjust("balanced macros", 5))
	}
	if hasFat && fat >= 35 {
		out = append(out, adjust("high fat", -8))
	}
	return out
}

func grams(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
