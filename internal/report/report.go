// Package report renders the weekly nutrition report and the analysis
// summary from aggregated meal data.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"nutrilog/internal/core"
)

const (
	wideRule   = 80
	narrowRule = 60

	// WindowDays is the fixed reporting window. The weekly report always
	// divides averages by this constant, not by observed days.
	WindowDays = 7
)

// Weekly builds the full weekly report over the records consumed in the
// last WindowDays before now. A record with an unparseable timestamp aborts
// the whole report; a partial report is worse than none.
func Weekly(records []core.MealRecord, now time.Time) (string, error) {
	var b strings.Builder
	rule := strings.Repeat("=", wideRule)
	sep := strings.Repeat("-", wideRule)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, center("WEEKLY NUTRITION REPORT", wideRule))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	recent, err := core.FilterByRecency(records, WindowDays, now)
	if err != nil {
		return "", err
	}
	if len(recent) == 0 {
		fmt.Fprintf(&b, "No meals found in the last %d days\n", WindowDays)
		return b.String(), nil
	}

	fmt.Fprintln(&b, "OVERVIEW")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Total Meals: %d\n", len(recent))
	fmt.Fprintf(&b, "Average Meals per Day: %.1f\n\n", float64(len(recent))/WindowDays)

	days, err := core.GroupByCalendarDay(recent)
	if err != nil {
		return "", err
	}
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	fmt.Fprintln(&b, "DAILY BREAKDOWN")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "%-12s %-8s %-12s %-10s %-10s %-10s\n", "Date", "Meals", "Calories", "Protein", "Carbs", "Fat")
	fmt.Fprintln(&b, sep)
	for _, d := range dates {
		day := days[d]
		fmt.Fprintf(&b, "%-12s %-8d %-12.0f %-10.1f %-10.1f %-10.1f\n",
			d, day.Count, day.Calories, day.Protein, day.Carbs, day.Fat)
	}
	fmt.Fprintln(&b)

	totals := core.SumTotals(recent)
	fmt.Fprintln(&b, "WEEKLY TOTALS")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Total Calories: %.0f kcal\n", totals.Calories)
	fmt.Fprintf(&b, "Total Protein: %.1fg\n", totals.Protein)
	fmt.Fprintf(&b, "Total Carbs: %.1fg\n", totals.Carbs)
	fmt.Fprintf(&b, "Total Fat: %.1fg\n\n", totals.Fat)

	avg := core.AverageOverWindow(totals, WindowDays)
	fmt.Fprintln(&b, "DAILY AVERAGES")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Average Calories: %.0f kcal/day\n", avg.Calories)
	fmt.Fprintf(&b, "Average Protein: %.1fg/day\n", avg.Protein)
	fmt.Fprintf(&b, "Average Carbs: %.1fg/day\n", avg.Carbs)
	fmt.Fprintf(&b, "Average Fat: %.1fg/day\n\n", avg.Fat)

	split := core.MacroPercentages(totals)
	if totals.Protein+totals.Carbs+totals.Fat > 0 {
		fmt.Fprintln(&b, "MACRONUTRIENT DISTRIBUTION")
		fmt.Fprintln(&b, sep)
		fmt.Fprintf(&b, "Protein: %.1f%% %s\n", split.ProteinPct, RenderBar(split.ProteinPct, BarWidth))
		fmt.Fprintf(&b, "Carbs:   %.1f%% %s\n", split.CarbsPct, RenderBar(split.CarbsPct, BarWidth))
		fmt.Fprintf(&b, "Fat:     %.1f%% %s\n\n", split.FatPct, RenderBar(split.FatPct, BarWidth))
	}

	freq := core.MealTypeFrequency(recent)
	if len(freq) > 0 {
		types := make([]string, 0, len(freq))
		for mt := range freq {
			types = append(types, mt)
		}
		sort.Strings(types)

		fmt.Fprintln(&b, "MEAL TYPE DISTRIBUTION")
		fmt.Fprintln(&b, sep)
		for _, mt := range types {
			count := freq[mt]
			pct := float64(count) / float64(len(recent)) * 100
			fmt.Fprintf(&b, "%-12s: %3d meals (%.1f%%)\n", capitalize(mt), count, pct)
		}
		fmt.Fprintln(&b)
	}

	if foods := core.TopFoods(recent, core.DefaultTopFoods); len(foods) > 0 {
		fmt.Fprintln(&b, "TOP 10 FOODS")
		fmt.Fprintln(&b, sep)
		for i, f := range foods {
			fmt.Fprintf(&b, "%2d. %-30s - %d times (avg %.0f kcal)\n",
				i+1, f.Food, f.Count, f.AvgCalories)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "RECOMMENDATIONS")
	fmt.Fprintln(&b, sep)
	for _, rec := range Recommendations(totals, recent, WindowDays) {
		fmt.Fprintf(&b, "• %s\n", rec)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	return b.String(), nil
}

// Summary builds the analyzer overview across the whole dataset, plus
// 7-day averages relative to now.
func Summary(records []core.MealRecord, now time.Time) (string, error) {
	var b strings.Builder
	rule := strings.Repeat("=", narrowRule)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "NUTRITION ANALYSIS SUMMARY")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "\nTotal Meals Analyzed: %d\n", len(records))

	totals := core.SumTotals(records)
	split := core.MacroPercentages(totals)
	fmt.Fprintln(&b, "\n--- MACRONUTRIENT DISTRIBUTION ---")
	fmt.Fprintf(&b, "Total Calories: %v kcal\n", core.Round2(totals.Calories))
	fmt.Fprintf(&b, "Total Protein: %vg (%v%%)\n", core.Round2(totals.Protein), core.Round2(split.ProteinPct))
	fmt.Fprintf(&b, "Total Carbs: %vg (%v%%)\n", core.Round2(totals.Carbs), core.Round2(split.CarbsPct))
	fmt.Fprintf(&b, "Total Fat: %vg (%v%%)\n", core.Round2(totals.Fat), core.Round2(split.FatPct))

	fmt.Fprintln(&b, "\n--- MEAL TYPE FREQUENCY ---")
	for _, tc := range sortedByCount(core.MealTypeFrequency(records)) {
		fmt.Fprintf(&b, "%s: %d meals\n", capitalize(tc.mealType), tc.count)
	}

	recent, err := core.FilterByRecency(records, WindowDays, now)
	if err != nil {
		return "", err
	}
	avg := core.AverageOverWindow(core.SumTotals(recent), WindowDays)
	fmt.Fprintln(&b, "\n--- 7-DAY DAILY AVERAGES ---")
	fmt.Fprintf(&b, "Calories: %v kcal/day\n", core.Round2(avg.Calories))
	fmt.Fprintf(&b, "Protein: %vg/day\n", core.Round2(avg.Protein))
	fmt.Fprintf(&b, "Carbs: %vg/day\n", core.Round2(avg.Carbs))
	fmt.Fprintf(&b, "Fat: %vg/day\n", core.Round2(avg.Fat))

	fmt.Fprintln(&b, "\n--- TOP 10 FOODS ---")
	for i, f := range core.TopFoods(records, core.DefaultTopFoods) {
		fmt.Fprintf(&b, "%d. %s: %d times (avg %v kcal, %vg protein)\n",
			i+1, f.Food, f.Count, core.Round2(f.AvgCalories), core.Round2(f.AvgProtein))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	return b.String(), nil
}

type typeCount struct {
	mealType string
	count    int
}

func sortedByCount(freq map[string]int) []typeCount {
	out := make([]typeCount, 0, len(freq))
	for mt, c := range freq {
		out = append(out, typeCount{mt, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].mealType < out[j].mealType
	})
	return out
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
