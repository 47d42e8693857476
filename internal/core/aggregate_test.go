package core

import (
	"errors"
	"testing"
	"time"
)

func meal(id, mealType, consumedAt string, calories, protein, carbs, fat float64) MealRecord {
	return MealRecord{
		ID:         id,
		MealType:   mealType,
		ConsumedAt: consumedAt,
		Analysis: AnalysisData{
			Totals: NutritionTotals{
				Calories: calories,
				Macros:   Macros{Protein: protein, Carbs: carbs, Fat: fat},
			},
		},
	}
}

func TestSumTotalsEmpty(t *testing.T) {
	if got := SumTotals(nil); got != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestSumTotalsAndWindowAverage(t *testing.T) {
	records := []MealRecord{
		meal("a", Breakfast, "2024-01-01T08:00:00Z", 500, 30, 50, 15),
		meal("b", Lunch, "2024-01-02T08:00:00Z", 650, 35, 60, 25),
	}

	got := SumTotals(records)
	want := Totals{Calories: 1150, Protein: 65, Carbs: 110, Fat: 40}
	if got != want {
		t.Fatalf("totals mismatch: got %+v want %+v", got, want)
	}

	avg := AverageOverWindow(got, 7)
	if Round2(avg.Calories) != 164.29 {
		t.Fatalf("avg calories: got %v want 164.29", Round2(avg.Calories))
	}
	if Round2(avg.Protein) != 9.29 {
		t.Fatalf("avg protein: got %v want 9.29", Round2(avg.Protein))
	}
}

func TestAverageOverWindowZeroDays(t *testing.T) {
	if got := AverageOverWindow(Totals{Calories: 100}, 0); got != (Totals{}) {
		t.Fatalf("expected zero totals for zero-day window, got %+v", got)
	}
}

func TestAverageOverObservedDays(t *testing.T) {
	// Three meals over two distinct dates: divisor must be 2, not 3.
	records := []MealRecord{
		meal("a", Breakfast, "2024-01-01T08:00:00Z", 300, 10, 0, 0),
		meal("b", Dinner, "2024-01-01T20:00:00Z", 500, 20, 0, 0),
		meal("c", Lunch, "2024-01-02T12:00:00Z", 400, 30, 0, 0),
	}
	avg, err := AverageOverObservedDays(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg.Calories != 600 || avg.Protein != 30 {
		t.Fatalf("observed-day average mismatch: %+v", avg)
	}

	empty, err := AverageOverObservedDays(nil)
	if err != nil || empty != (Totals{}) {
		t.Fatalf("empty set: got %+v, %v", empty, err)
	}
}

func TestFilterByRecencyBoundary(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	records := []MealRecord{
		meal("boundary", Lunch, "2024-01-03T00:00:00Z", 100, 0, 0, 0),
		meal("inside", Lunch, "2024-01-03T00:00:01Z", 200, 0, 0, 0),
		meal("old", Lunch, "2024-01-01T00:00:00Z", 300, 0, 0, 0),
	}
	got, err := FilterByRecency(records, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "inside" {
		t.Fatalf("expected only the record inside the window, got %+v", got)
	}
}

func TestFilterByRecencyMalformed(t *testing.T) {
	records := []MealRecord{meal("bad", Lunch, "not-a-date", 0, 0, 0, 0)}
	_, err := FilterByRecency(records, 7, time.Now())
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if malformed.ID != "bad" {
		t.Fatalf("expected record id in error, got %q", malformed.ID)
	}
}

func TestGroupByCalendarDayConservation(t *testing.T) {
	records := []MealRecord{
		meal("a", Breakfast, "2024-01-01T08:00:00Z", 500, 30, 50, 15),
		meal("b", Dinner, "2024-01-01T19:30:00Z", 700, 40, 60, 20),
		meal("c", Lunch, "2024-01-02T12:00:00Z", 650, 35, 60, 25),
	}
	days, err := GroupByCalendarDay(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days["2024-01-01"].Count != 2 {
		t.Fatalf("expected 2 meals on 2024-01-01, got %d", days["2024-01-01"].Count)
	}

	var calories float64
	var count int
	for _, d := range days {
		calories += d.Calories
		count += d.Count
	}
	if calories != SumTotals(records).Calories {
		t.Fatalf("grouping dropped calories: %v != %v", calories, SumTotals(records).Calories)
	}
	if count != len(records) {
		t.Fatalf("grouping dropped records: %d != %d", count, len(records))
	}
}

func TestGroupByCalendarDayKeepsOffset(t *testing.T) {
	// 23:30 at +02:00 is the previous day in UTC; the key must follow the
	// record's own offset.
	records := []MealRecord{meal("a", Dinner, "2024-03-05T23:30:00+02:00", 100, 0, 0, 0)}
	days, err := GroupByCalendarDay(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := days["2024-03-05"]; !ok {
		t.Fatalf("expected key 2024-03-05, got %v", days)
	}
}

func TestMacroPercentages(t *testing.T) {
	if got := MacroPercentages(Totals{}); got != (MacroSplit{}) {
		t.Fatalf("zero totals must yield zero percentages, got %+v", got)
	}

	got := MacroPercentages(Totals{Protein: 25, Carbs: 50, Fat: 25})
	if got.ProteinPct != 25 || got.CarbsPct != 50 || got.FatPct != 25 {
		t.Fatalf("percentage mismatch: %+v", got)
	}
}

func TestMealTypeFrequency(t *testing.T) {
	records := []MealRecord{
		meal("a", Breakfast, "", 0, 0, 0, 0),
		meal("b", Breakfast, "", 0, 0, 0, 0),
		meal("c", "", "", 0, 0, 0, 0),
	}
	freq := MealTypeFrequency(records)
	if freq[Breakfast] != 2 || freq[MealTypeUnknown] != 1 {
		t.Fatalf("frequency mismatch: %v", freq)
	}
}

func TestTopFoods(t *testing.T) {
	item := func(label string, calories, protein float64) FoodItem {
		return FoodItem{
			Label: label,
			Nutrition: ItemNutrition{
				Calories: calories,
				Macros:   Macros{Protein: protein},
			},
		}
	}
	records := []MealRecord{
		{ID: "a", Analysis: AnalysisData{Composition: []FoodItem{
			item("rice", 200, 4), item("chicken", 300, 30),
		}}},
		{ID: "b", Analysis: AnalysisData{Composition: []FoodItem{
			item("rice", 180, 4), item("broccoli", 50, 4),
		}}},
	}

	foods := TopFoods(records, 2)
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(foods))
	}
	if foods[0].Food != "rice" || foods[0].Count != 2 {
		t.Fatalf("expected rice first, got %+v", foods[0])
	}
	if foods[0].AvgCalories != 190 {
		t.Fatalf("rice avg calories: got %v want 190", foods[0].AvgCalories)
	}
	// Ties keep first-encountered order: chicken before broccoli.
	if foods[1].Food != "chicken" {
		t.Fatalf("expected chicken second, got %+v", foods[1])
	}

	// Counts across the full ranking equal the total composition entries.
	all := TopFoods(records, 100)
	var total int
	for _, f := range all {
		total += f.Count
	}
	if total != 4 {
		t.Fatalf("food counts must cover all composition entries: got %d want 4", total)
	}
}

func TestRange(t *testing.T) {
	empty, err := Range(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Start != nil || empty.End != nil {
		t.Fatalf("empty set must have nil range, got %+v", empty)
	}

	records := []MealRecord{
		meal("a", Lunch, "2024-01-05T12:00:00Z", 0, 0, 0, 0),
		meal("b", Lunch, "2024-01-02T12:00:00Z", 0, 0, 0, 0),
		meal("c", Lunch, "2024-01-09T12:00:00Z", 0, 0, 0, 0),
	}
	rng, err := Range(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rng.Start != "2024-01-02" || *rng.End != "2024-01-09" {
		t.Fatalf("range mismatch: %s..%s", *rng.Start, *rng.End)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{164.2857142857, 164.29},
		{9.285714, 9.29},
		{0, 0},
		{12.344, 12.34},
	}
	for i, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}
