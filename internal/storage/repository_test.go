package storage

import (
	"context"
	"path/filepath"
	"testing"

	"nutrilog/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "meals.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestExportMeals(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	records := []core.MealRecord{
		{
			ID:         "m1",
			MealType:   core.Breakfast,
			ConsumedAt: "2024-01-01T08:00:00Z",
			Analysis: core.AnalysisData{
				Totals: core.NutritionTotals{
					Calories: 500,
					Macros:   core.Macros{Protein: 30, Carbs: 50, Fat: 15},
				},
				Composition: []core.FoodItem{
					{Label: "oatmeal", Confidence: 0.9, Nutrition: core.ItemNutrition{Calories: 300}},
				},
			},
		},
		{
			ID:         "m2",
			ConsumedAt: "2024-01-02T13:00:00Z",
			Analysis: core.AnalysisData{
				Totals: core.NutritionTotals{Calories: 650},
			},
		},
	}

	if err := repo.ExportMeals(ctx, records); err != nil {
		t.Fatalf("export: %v", err)
	}

	n, err := repo.CountMeals(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 meals, got %d", n)
	}

	total, err := repo.SumCalories(ctx)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != core.SumTotals(records).Calories {
		t.Fatalf("calorie sum mismatch: %v", total)
	}
}

func TestExportMealsReplaces(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := []core.MealRecord{{ID: "a", ConsumedAt: "2024-01-01T08:00:00Z"}}
	if err := repo.ExportMeals(ctx, first); err != nil {
		t.Fatalf("first export: %v", err)
	}
	second := []core.MealRecord{
		{ID: "b", ConsumedAt: "2024-01-02T08:00:00Z"},
		{ID: "c", ConsumedAt: "2024-01-03T08:00:00Z"},
	}
	if err := repo.ExportMeals(ctx, second); err != nil {
		t.Fatalf("second export: %v", err)
	}
	n, err := repo.CountMeals(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("re-export must replace contents, got %d rows", n)
	}
}
