// Package google pushes meal rows to a Google Sheet using Service Account
// credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nutrilog/internal/core"
	ports "nutrilog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	mealsSheet    string
}

// Ensure interface conformance
var (
	_ ports.MealAppender = (*Client)(nil)
	_ ports.MealExporter = (*Client)(nil)
)

// Header is the column layout of the meals sheet, matching the summary CSV.
var Header = []any{
	"Date", "Time", "Meal Type", "Meal Name",
	"Calories (kcal)", "Protein (g)", "Carbs (g)", "Fat (g)",
	"Fiber (g)", "Sugar (g)", "Sodium (mg)", "Items Count",
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Meals"), plus Service Account
// credentials via GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Meals"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		mealsSheet:    sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendMeal appends one meal row after the current contents of the sheet.
func (c *Client) AppendMeal(ctx context.Context, m core.MealRecord) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	row, err := MealRow(m)
	if err != nil {
		return "", err
	}

	rng := fmt.Sprintf("%s!A:L", c.mealsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append meal to sheet %s: %w", c.mealsSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Meal appended to Google Sheets",
		"meal_id", m.ID, "sheet", c.mealsSheet, "range", ref)
	return ref, nil
}

// ExportMeals rewrites the sheet with a header row followed by one row per
// meal, oldest last (journal order). Returns the number of meal rows.
func (c *Client) ExportMeals(ctx context.Context, records []core.MealRecord) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(records)+1)
	values = append(values, Header)
	for _, m := range records {
		row, err := MealRow(m)
		if err != nil {
			return 0, err
		}
		values = append(values, row)
	}

	clearRng := fmt.Sprintf("%s!A:L", c.mealsSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("clear sheet %s: %w", c.mealsSheet, err)
	}

	rng := fmt.Sprintf("%s!A1", c.mealsSheet)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("update sheet %s: %w", c.mealsSheet, err)
	}

	slog.InfoContext(ctx, "Meals exported to Google Sheets",
		"records", len(records), "sheet", c.mealsSheet)
	return len(records), nil
}

// MealRow renders one meal as a sheet row in Header order.
func MealRow(m core.MealRecord) ([]any, error) {
	consumed, err := m.Consumed()
	if err != nil {
		return nil, err
	}
	totals := m.Analysis.Totals
	return []any{
		consumed.Format("2006-01-02"),
		consumed.Format("15:04:05"),
		m.Type(),
		m.Name,
		totals.Calories,
		totals.Macros.Protein,
		totals.Macros.Carbs,
		totals.Macros.Fat,
		totals.Macros.Fiber,
		totals.Macros.Sugar,
		totals.Micros.Sodium,
		len(m.Analysis.Composition),
	}, nil
}
