package alignment

import (
	"math"

	"github.com/alchemorsel/personalization/internal/application/scoring"
	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/domain/profile"
)

const (
	baseScore = 50
	minScore  = 0
	maxScore  = 100

	noSignalNote = "No strong signals for this goal"
)

type signal struct {
	note  string
	delta int
}

// ScoreMeal rates one recipe against a goal on a 0-100 scale and returns the
// note of the strongest signal. Unknown goals only get the generic signals.
func ScoreMeal(goal profile.Goal, r catalog.Recipe) (int, string) {
	signals := append(goalSignals(goal, r.Macros, r), genericSignals(r.Macros)...)

	score := baseScore
	note := noSignalNote
	strongest := 0
	for _, s := range signals {
		score += s.delta
		if abs(s.delta) > strongest {
			strongest = abs(s.delta)
			note = s.note
		}
	}
	return clamp(score), note
}

func goalSignals(goal profile.Goal, m catalog.Macros, r catalog.Recipe) []signal {
	switch goal {
	case profile.GoalLeanMuscle:
		return leanMuscleSignals(m)
	case profile.GoalEnergy:
		return energySignals(m)
	case profile.GoalMetabolicReset:
		return metabolicResetSignals(m)
	case profile.GoalBrainCare:
		return brainCareSignals(m, r)
	default:
		return nil
	}
}

func leanMuscleSignals(m catalog.Macros) []signal {
	var out []signal
	if protein, ok := value(m.ProteinGrams); ok {
		switch {
		case protein >= 35:
			out = append(out, signal{"Protein-rich enough to build lean muscle", 30})
		case protein >= 25:
			out = append(out, signal{"Decent protein for lean muscle", 15})
		case protein < 15:
			out = append(out, signal{"Too little protein for lean muscle", -20})
		}
	}
	if fat, ok := value(m.FatGrams); ok && fat > 30 {
		out = append(out, signal{"Fat heavy for a lean muscle plan", -10})
	}
	return out
}

func energySignals(m catalog.Macros) []signal {
	var out []signal
	if carbs, ok := value(m.CarbsGrams); ok {
		switch {
		case carbs >= 45 && carbs <= 80:
			out = append(out, signal{"Carbs sized for steady energy", 25})
		case carbs < 30:
			out = append(out, signal{"Too few carbs to fuel energy", -15})
		}
	}
	if cal, ok := calories(m); ok && cal >= 400 && cal <= 700 {
		out = append(out, signal{"Energy-friendly portion", 10})
	}
	return out
}

func metabolicResetSignals(m catalog.Macros) []signal {
	var out []signal
	if carbs, ok := value(m.CarbsGrams); ok {
		switch {
		case carbs <= 30:
			out = append(out, signal{"Low carb supports a metabolic reset", 30})
		case carbs <= 45:
			out = append(out, signal{"Moderate carbs for a metabolic reset", 10})
		case carbs > 60:
			out = append(out, signal{"Carb heavy for a metabolic reset", -25})
		}
	}
	if cal, ok := calories(m); ok && cal <= 550 {
		out = append(out, signal{"Calorie conscious", 10})
	}
	return out
}

func brainCareSignals(m catalog.Macros, r catalog.Recipe) []signal {
	var out []signal
	if fat, ok := value(m.FatGrams); ok && fat >= 15 && fat <= 35 {
		out = append(out, signal{"Healthy fats for brain care", 15})
	}
	if scoring.HasBrainFood(r) {
		out = append(out, signal{"Brain-friendly ingredients", 20})
	}
	if carbs, ok := value(m.CarbsGrams); ok && carbs > 70 {
		out = append(out, signal{"Carb heavy for brain care", -10})
	}
	return out
}

func genericSignals(m catalog.Macros) []signal {
	cal, ok := calories(m)
	if !ok {
		return nil
	}
	switch {
	case cal > 900:
		return []signal{{"Very calorie dense", -15}}
	case cal >= 300 && cal <= 650:
		return []signal{{"Sensible portion size", 5}}
	default:
		return nil
	}
}

func value(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func calories(m catalog.Macros) (int, bool) {
	if m.Calories == nil {
		return 0, false
	}
	return *m.Calories, true
}

func clamp(score int) int {
	return int(math.Max(minScore, math.Min(maxScore, float64(score))))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
