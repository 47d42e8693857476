// Package storage holds the SQLite export target: the exporter mirrors the
// journal into a relational schema, one meals row per record and one
// meal_items row per composition entry.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nutrilog/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ExportMeals replaces the database contents with the given record set.
// The write is transactional; a failure leaves the previous contents alone.
func (r *SQLiteRepository) ExportMeals(ctx context.Context, records []core.MealRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM meal_items`); err != nil {
		return fmt.Errorf("clear meal_items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meals`); err != nil {
		return fmt.Errorf("clear meals: %w", err)
	}

	for _, m := range records {
		if err := insertMeal(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}

	slog.InfoContext(ctx, "Meals exported to SQLite", "records", len(records))
	return nil
}

// CountMeals returns the number of exported meal rows.
func (r *SQLiteRepository) CountMeals(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count meals: %w", err)
	}
	return n, nil
}

// SumCalories returns the calorie total across exported meals; used to
// sanity-check an export against the in-memory aggregation.
func (r *SQLiteRepository) SumCalories(ctx context.Context) (float64, error) {
	var total sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `SELECT SUM(calories_kcal) FROM meals`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum calories: %w", err)
	}
	return total.Float64, nil
}

func insertMeal(ctx context.Context, tx *sql.Tx, m core.MealRecord) error {
	totals := m.Analysis.Totals
	_, err := tx.ExecContext(ctx, `
		INSERT INTO meals (
			id, meal_type, name, notes, consumed_at, created_at,
			calories_kcal, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Type(), m.Name, m.Notes, m.ConsumedAt, m.CreatedAt,
		totals.Calories, totals.Macros.Protein, totals.Macros.Carbs,
		totals.Macros.Fat, totals.Macros.Fiber, totals.Macros.Sugar,
		totals.Micros.Sodium,
	)
	if err != nil {
		return fmt.Errorf("insert meal %s: %w", m.ID, err)
	}

	for _, item := range m.Analysis.Composition {
		n := item.Nutrition
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meal_items (
				meal_id, label, confidence, serving_est_g,
				calories_kcal, protein_g, carbs_g, fat_g, allergens
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, item.Label, item.Confidence, item.ServingEst,
			n.Calories, n.Macros.Protein, n.Macros.Carbs, n.Macros.Fat,
			strings.Join(n.Allergens, ", "),
		)
		if err != nil {
			return fmt.Errorf("insert item %q of meal %s: %w", item.Label, m.ID, err)
		}
	}
	return nil
}
