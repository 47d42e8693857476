package sheets

import (
	"context"

	"nutrilog/internal/core"
)

// Ports for outbound adapters.
type (
	// MealAppender pushes a single meal row to the spreadsheet target.
	MealAppender interface {
		AppendMeal(ctx context.Context, m core.MealRecord) (rowRef string, err error)
	}

	// MealExporter pushes a whole record set in one call.
	MealExporter interface {
		ExportMeals(ctx context.Context, records []core.MealRecord) (int, error)
	}
)
