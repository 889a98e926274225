package profile

import "strings"

// Goal represents a nutrition goal a user can declare
type Goal string

const (
	GoalUnknown        Goal = ""
	GoalLeanMuscle     Goal = "LEAN_MUSCLE"
	GoalEnergy         Goal = "ENERGY"
	GoalMetabolicReset Goal = "METABOLIC_RESET"
	GoalBrainCare      Goal = "BRAIN_CARE"
)

var goals = []Goal{GoalLeanMuscle, GoalEnergy, GoalMetabolicReset, GoalBrainCare}

// ParseGoal resolves free-form goal text to a known goal.
// Unknown values return GoalUnknown and false.
func ParseGoal(raw string) (Goal, bool) {
	key := normalizeKey(raw)
	for _, g := range goals {
		if string(g) == key {
			return g, true
		}
	}
	return GoalUnknown, false
}

// Label returns the lower-case phrase used in user-facing copy
func (g Goal) Label() string {
	switch g {
	case GoalLeanMuscle:
		return "lean muscle"
	case GoalEnergy:
		return "steady energy"
	case GoalMetabolicReset:
		return "metabolic reset"
	case GoalBrainCare:
		return "brain care"
	default:
		return ""
	}
}

// DietaryPreference represents a declared eating pattern
type DietaryPreference string

const (
	DietaryUnknown     DietaryPreference = ""
	DietaryVegan       DietaryPreference = "VEGAN"
	DietaryVegetarian  DietaryPreference = "VEGETARIAN"
	DietaryPescatarian DietaryPreference = "PESCATARIAN"
	DietaryGlutenFree  DietaryPreference = "GLUTEN_FREE"
	DietaryDairyFree   DietaryPreference = "DAIRY_FREE"
	DietaryKeto        DietaryPreference = "KETO"
	DietaryPaleo       DietaryPreference = "PALEO"
	DietaryLowCarb     DietaryPreference = "LOW_CARB"
	DietaryHighProtein DietaryPreference = "HIGH_PROTEIN"
)

// acceptableTags lists the recipe tags that satisfy each preference
var acceptableTags = map[DietaryPreference][]string{
	DietaryVegan:       {"vegan"},
	DietaryVegetarian:  {"vegetarian", "vegan"},
	DietaryPescatarian: {"pescatarian", "seafood", "vegetarian", "vegan"},
	DietaryGlutenFree:  {"gluten-free"},
	DietaryDairyFree:   {"dairy-free", "vegan"},
	DietaryKeto:        {"keto", "low-carb"},
	DietaryPaleo:       {"paleo"},
	DietaryLowCarb:     {"low-carb", "keto"},
	DietaryHighProtein: {"high-protein"},
}

// ParseDietaryPreference resolves free-form text to a known preference
func ParseDietaryPreference(raw string) (DietaryPreference, bool) {
	p := DietaryPreference(normalizeKey(raw))
	if _, ok := acceptableTags[p]; ok {
		return p, true
	}
	return DietaryUnknown, false
}

// AcceptableTags returns the normalized tags that satisfy the preference.
// Unknown preferences have no acceptable tags.
func (p DietaryPreference) AcceptableTags() []string {
	return acceptableTags[p]
}

// Label returns the preference as lower-case words
func (p DietaryPreference) Label() string {
	return strings.ToLower(strings.ReplaceAll(string(p), "_", " "))
}

// TastePreference represents a flavour a user enjoys
type TastePreference string

const (
	TasteUnknown TastePreference = ""
	TasteSpicy   TastePreference = "SPICY"
	TasteSavory  TastePreference = "SAVORY"
	TasteSweet   TastePreference = "SWEET"
	TasteTangy   TastePreference = "TANGY"
	TasteSmoky   TastePreference = "SMOKY"
	TasteFresh   TastePreference = "FRESH"
	TasteComfort TastePreference = "COMFORT"
)

var tasteKeywords = map[TastePreference][]string{
	TasteSpicy:   {"spicy", "chili", "jalapeno", "sriracha", "harissa", "gochujang", "curry"},
	TasteSavory:  {"savory", "umami", "roasted", "garlic", "miso"},
	TasteSweet:   {"sweet", "honey", "maple", "teriyaki", "glazed"},
	TasteTangy:   {"tangy", "citrus", "lemon", "lime", "vinaigrette", "pickled"},
	TasteSmoky:   {"smoky", "bbq", "grilled", "chipotle", "charred"},
	TasteFresh:   {"fresh", "salad", "crisp", "herb"},
	TasteComfort: {"comfort", "creamy", "hearty", "cheesy", "baked"},
}

// ParseTastePreference resolves free-form text to a known taste
func ParseTastePreference(raw string) (TastePreference, bool) {
	t := TastePreference(normalizeKey(raw))
	if _, ok := tasteKeywords[t]; ok {
		return t, true
	}
	return TasteUnknown, false
}

// Keywords returns the lower-case keywords that indicate the taste
func (t TastePreference) Keywords() []string {
	return tasteKeywords[t]
}

// Label returns the taste as a lower-case word
func (t TastePreference) Label() string {
	return strings.ToLower(string(t))
}

func normalizeKey(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(key)
}
