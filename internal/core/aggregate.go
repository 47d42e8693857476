package core

import (
	"math"
	"sort"
	"time"
)

type (
	// Totals holds nutrition sums over a set of meals. Values are kept at
	// full precision; rounding happens only at render time.
	Totals struct {
		Calories float64
		Protein  float64
		Carbs    float64
		Fat      float64
		Fiber    float64
		Sugar    float64
	}

	// DayTotals is the per-calendar-day aggregate used by daily breakdowns.
	DayTotals struct {
		Count    int
		Calories float64
		Protein  float64
		Carbs    float64
		Fat      float64
	}

	// MacroSplit is the percentage distribution of macro grams.
	MacroSplit struct {
		ProteinPct float64
		CarbsPct   float64
		FatPct     float64
	}

	// FoodStat aggregates one food label across all compositions.
	FoodStat struct {
		Food        string
		Count       int
		AvgCalories float64
		AvgProtein  float64
	}

	// DateRange spans the min and max calendar dates of a record set.
	// Both fields are nil for an empty set.
	DateRange struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	}
)

const dayLayout = "2006-01-02"

// FilterByRecency returns the records consumed strictly after
// now - windowDays. A record exactly on the boundary is excluded.
func FilterByRecency(records []MealRecord, windowDays int, now time.Time) ([]MealRecord, error) {
	cutoff := now.AddDate(0, 0, -windowDays)
	var out []MealRecord
	for _, m := range records {
		t, err := m.Consumed()
		if err != nil {
			return nil, err
		}
		if t.After(cutoff) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SumTotals sums calories and macros across records. Missing fields
// contribute zero, so an empty or sparse set never fails.
func SumTotals(records []MealRecord) Totals {
	var t Totals
	for _, m := range records {
		totals := m.Analysis.Totals
		t.Calories += totals.Calories
		t.Protein += totals.Macros.Protein
		t.Carbs += totals.Macros.Carbs
		t.Fat += totals.Macros.Fat
		t.Fiber += totals.Macros.Fiber
		t.Sugar += totals.Macros.Sugar
	}
	return t
}

// AverageOverWindow divides totals by a fixed window length, the convention
// used by the weekly report. It is deliberately distinct from
// AverageOverObservedDays; the two divisors must never be conflated.
func AverageOverWindow(t Totals, days int) Totals {
	if days <= 0 {
		return Totals{}
	}
	d := float64(days)
	return Totals{
		Calories: t.Calories / d,
		Protein:  t.Protein / d,
		Carbs:    t.Carbs / d,
		Fat:      t.Fat / d,
		Fiber:    t.Fiber / d,
		Sugar:    t.Sugar / d,
	}
}

// AverageOverObservedDays divides totals by the number of distinct calendar
// dates present in the records, the convention used by the export summary.
func AverageOverObservedDays(records []MealRecord) (Totals, error) {
	days := map[string]struct{}{}
	for _, m := range records {
		t, err := m.Consumed()
		if err != nil {
			return Totals{}, err
		}
		days[t.Format(dayLayout)] = struct{}{}
	}
	if len(days) == 0 {
		return Totals{}, nil
	}
	return AverageOverWindow(SumTotals(records), len(days)), nil
}

// GroupByCalendarDay buckets records by the calendar date of consumedAt,
// derived in the timestamp's own offset. Iteration order is up to the
// caller; sort the keys either direction as needed.
func GroupByCalendarDay(records []MealRecord) (map[string]DayTotals, error) {
	out := make(map[string]DayTotals)
	for _, m := range records {
		t, err := m.Consumed()
		if err != nil {
			return nil, err
		}
		key := t.Format(dayLayout)
		day := out[key]
		day.Count++
		day.Calories += m.Analysis.Totals.Calories
		day.Protein += m.Analysis.Totals.Macros.Protein
		day.Carbs += m.Analysis.Totals.Macros.Carbs
		day.Fat += m.Analysis.Totals.Macros.Fat
		out[key] = day
	}
	return out, nil
}

// MacroPercentages computes each macro's share of total macro grams.
// An all-zero input yields all-zero percentages, never NaN.
func MacroPercentages(t Totals) MacroSplit {
	total := t.Protein + t.Carbs + t.Fat
	if total == 0 {
		return MacroSplit{}
	}
	return MacroSplit{
		ProteinPct: t.Protein / total * 100,
		CarbsPct:   t.Carbs / total * 100,
		FatPct:     t.Fat / total * 100,
	}
}

// MealTypeFrequency counts records per meal type, filing untyped records
// under MealTypeUnknown.
func MealTypeFrequency(records []MealRecord) map[string]int {
	freq := make(map[string]int)
	for _, m := range records {
		freq[m.Type()]++
	}
	return freq
}

// DefaultTopFoods is the ranking size used when callers pass limit <= 0.
const DefaultTopFoods = 10

// TopFoods ranks food labels by occurrence count across all compositions,
// descending, ties kept in first-encountered order. The result is truncated
// to limit entries.
func TopFoods(records []MealRecord, limit int) []FoodStat {
	if limit <= 0 {
		limit = DefaultTopFoods
	}
	type acc struct {
		count    int
		calories float64
		protein  float64
	}
	byLabel := make(map[string]*acc)
	var order []string
	for _, m := range records {
		for _, item := range m.Analysis.Composition {
			label := item.Label
			if label == "" {
				label = MealTypeUnknown
			}
			a, ok := byLabel[label]
			if !ok {
				a = &acc{}
				byLabel[label] = a
				order = append(order, label)
			}
			a.count++
			a.calories += item.Nutrition.Calories
			a.protein += item.Nutrition.Macros.Protein
		}
	}

	stats := make([]FoodStat, 0, len(order))
	for _, label := range order {
		a := byLabel[label]
		stats = append(stats, FoodStat{
			Food:        label,
			Count:       a.count,
			AvgCalories: a.calories / float64(a.count),
			AvgProtein:  a.protein / float64(a.count),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })

	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// Range returns the min and max calendar dates across all records, or a
// nil/nil range for an empty set.
func Range(records []MealRecord) (DateRange, error) {
	var min, max time.Time
	for i, m := range records {
		t, err := m.Consumed()
		if err != nil {
			return DateRange{}, err
		}
		if i == 0 || t.Before(min) {
			min = t
		}
		if i == 0 || t.After(max) {
			max = t
		}
	}
	if len(records) == 0 {
		return DateRange{}, nil
	}
	start := min.Format(dayLayout)
	end := max.Format(dayLayout)
	return DateRange{Start: &start, End: &end}, nil
}

// Round2 rounds to two decimal places for display and export.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
