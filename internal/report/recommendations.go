package report

import "nutrilog/internal/core"

// Advisory thresholds. These are fixed constants of the report design,
// not configuration.
const (
	lowCalories     = 1500
	highCalories    = 2500
	lowProtein      = 50
	highProtein     = 150
	minMealsPerDay  = 2
	minProteinShare = 15
	maxCarbsShare   = 60
)

// Recommendations evaluates the advisory rules over the window totals, in
// order. Rules are independent; several can fire in one report. When none
// fires the report still gets a single affirmation line.
func Recommendations(totals core.Totals, records []core.MealRecord, windowDays int) []string {
	var out []string
	days := float64(windowDays)

	avgCalories := totals.Calories / days
	if avgCalories < lowCalories {
		out = append(out, "Your average calorie intake is quite low. Consider increasing portion sizes.")
	} else if avgCalories > highCalories {
		out = append(out, "Your calorie intake is high. Consider reducing portion sizes if weight management is a goal.")
	}

	avgProtein := totals.Protein / days
	if avgProtein < lowProtein {
		out = append(out, "Consider increasing protein intake. Aim for lean meats, fish, eggs, or plant-based sources.")
	} else if avgProtein > highProtein {
		out = append(out, "Protein intake is very high. Ensure you're balancing with other nutrients.")
	}

	if float64(len(records))/days < minMealsPerDay {
		out = append(out, "Try to have at least 3 balanced meals per day for better nutrition.")
	}

	split := core.MacroPercentages(totals)
	if totals.Protein+totals.Carbs+totals.Fat > 0 {
		if split.ProteinPct < minProteinShare {
			out = append(out, "Consider increasing protein-rich foods in your diet.")
		}
		if split.CarbsPct > maxCarbsShare {
			out = append(out, "Your carbohydrate intake is high. Consider balancing with more protein and healthy fats.")
		}
	}

	if len(out) == 0 {
		out = append(out, "Your nutrition looks balanced! Keep up the good work.")
	}
	return out
}
