package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nutrilog/internal/core"
)

var summaryHeader = []string{
	"Date", "Time", "Meal Type", "Meal Name",
	"Calories (kcal)", "Protein (g)", "Carbs (g)", "Fat (g)",
	"Fiber (g)", "Sugar (g)", "Sodium (mg)", "Items Count",
}

var detailedHeader = []string{
	"Date", "Meal Type", "Food Item", "Confidence",
	"Weight (g)", "Calories", "Protein", "Carbs", "Fat",
	"Fiber", "Sugar", "Sodium", "Allergens",
}

// WriteSummaryCSV writes one row per meal. A malformed timestamp aborts
// the export; no row is silently dropped.
func WriteSummaryCSV(w io.Writer, records []core.MealRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range records {
		consumed, err := m.Consumed()
		if err != nil {
			return err
		}
		totals := m.Analysis.Totals
		row := []string{
			consumed.Format("2006-01-02"),
			consumed.Format("15:04:05"),
			m.MealType,
			m.Name,
			num(totals.Calories),
			num(totals.Macros.Protein),
			num(totals.Macros.Carbs),
			num(totals.Macros.Fat),
			num(totals.Macros.Fiber),
			num(totals.Macros.Sugar),
			num(totals.Micros.Sodium),
			strconv.Itoa(len(m.Analysis.Composition)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailedCSV writes one row per food item within each meal's
// composition.
func WriteDetailedCSV(w io.Writer, records []core.MealRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range records {
		consumed, err := m.Consumed()
		if err != nil {
			return err
		}
		date := consumed.Format("2006-01-02")
		for _, item := range m.Analysis.Composition {
			n := item.Nutrition
			row := []string{
				date,
				m.MealType,
				item.Label,
				fmt.Sprintf("%.1f%%", item.Confidence*100),
				num(item.ServingEst),
				num(n.Calories),
				num(n.Macros.Protein),
				num(n.Macros.Carbs),
				num(n.Macros.Fat),
				num(n.Macros.Fiber),
				num(n.Macros.Sugar),
				num(n.Micros.Sodium),
				strings.Join(n.Allergens, ", "),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// SummaryCSVFile writes the summary CSV to path.
func SummaryCSVFile(path string, records []core.MealRecord) error {
	return writeFile(path, func(f *os.File) error {
		return WriteSummaryCSV(f, records)
	})
}

// DetailedCSVFile writes the detailed composition CSV to path.
func DetailedCSVFile(path string, records []core.MealRecord) error {
	return writeFile(path, func(f *os.File) error {
		return WriteDetailedCSV(f, records)
	})
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
