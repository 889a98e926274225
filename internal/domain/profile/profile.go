// Package profile defines the nutrition profile a user declares for personalization
package profile

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("nutrition profile not found")
)

// User is the minimal account view personalization needs
type User struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Profile is a user's nutrition profile. It is read-only to scoring.
type Profile struct {
	UserID             uuid.UUID
	Goals              []Goal
	Allergens          []string
	DietaryPreferences []DietaryPreference
	TastePreferences   []TastePreference
	BudgetTargetCents  *int

	// UnrecognizedPrimary is set when the first declared goal did not parse.
	// The primary goal is then unknown even if later goals are recognized.
	UnrecognizedPrimary bool
}

// RawProfile carries unparsed profile values as stored
type RawProfile struct {
	UserID             uuid.UUID
	Goals              []string
	Allergens          []string
	DietaryPreferences []string
	TastePreferences   []string
	BudgetTargetCents  *int
}

// Build parses raw values into a Profile. Unknown goals and preferences are
// dropped and returned so callers can report them.
func Build(raw RawProfile) (*Profile, []string) {
	p := &Profile{
		UserID:            raw.UserID,
		BudgetTargetCents: raw.BudgetTargetCents,
	}
	var unknown []string

	seenGoals := make(map[Goal]bool)
	for i, g := range raw.Goals {
		goal, ok := ParseGoal(g)
		if !ok {
			if i == 0 {
				p.UnrecognizedPrimary = true
			}
			unknown = append(unknown, g)
			continue
		}
		if !seenGoals[goal] {
			seenGoals[goal] = true
			p.Goals = append(p.Goals, goal)
		}
	}

	seenAllergens := make(map[string]bool)
	for _, a := range raw.Allergens {
		key := NormalizeAllergen(a)
		if key != "" && !seenAllergens[key] {
			seenAllergens[key] = true
			p.Allergens = append(p.Allergens, key)
		}
	}

	seenDiet := make(map[DietaryPreference]bool)
	for _, d := range raw.DietaryPreferences {
		pref, ok := ParseDietaryPreference(d)
		if !ok {
			unknown = append(unknown, d)
			continue
		}
		if !seenDiet[pref] {
			seenDiet[pref] = true
			p.DietaryPreferences = append(p.DietaryPreferences, pref)
		}
	}

	seenTaste := make(map[TastePreference]bool)
	for _, t := range raw.TastePreferences {
		taste, ok := ParseTastePreference(t)
		if !ok {
			unknown = append(unknown, t)
			continue
		}
		if !seenTaste[taste] {
			seenTaste[taste] = true
			p.TastePreferences = append(p.TastePreferences, taste)
		}
	}

	return p, unknown
}

// PrimaryGoal returns the first declared goal, or GoalUnknown when none was
// declared or the first one was not recognized
func (p *Profile) PrimaryGoal() Goal {
	if p == nil || p.UnrecognizedPrimary || len(p.Goals) == 0 {
		return GoalUnknown
	}
	return p.Goals[0]
}

// HasGoal reports whether the goal is declared anywhere in the list
func (p *Profile) HasGoal(goal Goal) bool {
	for _, g := range p.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

// Prefers reports whether the dietary preference is declared
func (p *Profile) Prefers(pref DietaryPreference) bool {
	for _, d := range p.DietaryPreferences {
		if d == pref {
			return true
		}
	}
	return false
}

// AllergenSet returns the normalized allergens as a set
func (p *Profile) AllergenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Allergens))
	for _, a := range p.Allergens {
		set[NormalizeAllergen(a)] = struct{}{}
	}
	return set
}

// NormalizeAllergen lower-cases and trims an allergen name
func NormalizeAllergen(a string) string {
	return strings.ToLower(strings.TrimSpace(a))
}
