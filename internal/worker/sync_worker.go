// Package worker pushes journal meals to the spreadsheet target in response
// to AMQP sync messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"nutrilog/internal/amqp"
	"nutrilog/internal/core"
	"nutrilog/internal/journal"
	"nutrilog/internal/sheets"
)

// MealSource resolves a meal by id. The journal satisfies it; tests use a
// map-backed fake.
type MealSource interface {
	FindMeal(id string) (core.MealRecord, bool, error)
}

// JournalSource adapts the journal file to MealSource, re-reading the file
// per lookup so the worker always sees the tracker's latest write.
type JournalSource struct {
	Path string
}

func (s JournalSource) FindMeal(id string) (core.MealRecord, bool, error) {
	j, err := journal.Open(s.Path)
	if err != nil {
		return core.MealRecord{}, false, err
	}
	for _, m := range j.Records() {
		if m.ID == id {
			return m, true, nil
		}
	}
	return core.MealRecord{}, false, nil
}

// SyncWorker handles synchronization of meals from the journal to the
// spreadsheet target.
type SyncWorker struct {
	source MealSource
	sheets sheets.MealAppender
}

func NewSyncWorker(source MealSource, appender sheets.MealAppender) *SyncWorker {
	return &SyncWorker{
		source: source,
		sheets: appender,
	}
}

// HandleSyncMessage processes a single meal sync message. A meal missing
// from the journal (deleted before the worker caught up) is logged and
// acked, not retried forever.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.MealSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "meal_id", msg.MealID)

	meal, found, err := w.source.FindMeal(msg.MealID)
	if err != nil {
		return fmt.Errorf("resolve meal %s: %w", msg.MealID, err)
	}
	if !found {
		slog.WarnContext(ctx, "Meal no longer in journal, skipping sync", "meal_id", msg.MealID)
		return nil
	}

	ref, err := w.sheets.AppendMeal(ctx, meal)
	if err != nil {
		return fmt.Errorf("append meal %s to sheets: %w", msg.MealID, err)
	}

	slog.InfoContext(ctx, "Meal synced",
		"meal_id", msg.MealID,
		"sheets_ref", ref,
		"meal_type", meal.Type(),
		"calories_kcal", meal.Analysis.Totals.Calories)
	return nil
}
