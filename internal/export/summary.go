package export

import (
	"encoding/json"
	"os"
	"time"

	"nutrilog/internal/core"
)

// Summary is the machine-readable digest of a record set.
type Summary struct {
	GeneratedAt     string             `json:"generated_at"`
	TotalMeals      int                `json:"total_meals"`
	DateRange       core.DateRange     `json:"date_range"`
	MealTypes       map[string]int     `json:"meal_types"`
	NutritionTotals map[string]float64 `json:"nutrition_totals"`
	DailyAverages   map[string]float64 `json:"daily_averages"`
}

// BuildSummary derives the summary document. Daily averages divide by the
// number of distinct calendar dates present, not by a fixed window.
func BuildSummary(records []core.MealRecord, now time.Time) (Summary, error) {
	rng, err := core.Range(records)
	if err != nil {
		return Summary{}, err
	}
	avg, err := core.AverageOverObservedDays(records)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		GeneratedAt:     now.Format(time.RFC3339),
		TotalMeals:      len(records),
		DateRange:       rng,
		MealTypes:       core.MealTypeFrequency(records),
		NutritionTotals: totalsMap(core.SumTotals(records)),
		DailyAverages:   totalsMap(avg),
	}, nil
}

// SummaryJSONFile writes the summary document to path, indented.
func SummaryJSONFile(path string, records []core.MealRecord, now time.Time) error {
	summary, err := BuildSummary(records, now)
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	})
}

func totalsMap(t core.Totals) map[string]float64 {
	return map[string]float64{
		"calories": core.Round2(t.Calories),
		"protein":  core.Round2(t.Protein),
		"carbs":    core.Round2(t.Carbs),
		"fat":      core.Round2(t.Fat),
		"fiber":    core.Round2(t.Fiber),
		"sugar":    core.Round2(t.Sugar),
	}
}
