// Package memory is an in-process stand-in for the Sheets target, used by
// tests and by the worker when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"nutrilog/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.MealRecord
}

func New() *Store {
	return &Store{}
}

// AppendMeal stores the meal and returns a synthetic row reference.
func (s *Store) AppendMeal(_ context.Context, m core.MealRecord) (string, error) {
	if _, err := m.Consumed(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, m)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// ExportMeals replaces the stored rows with the given record set.
func (s *Store) ExportMeals(_ context.Context, records []core.MealRecord) (int, error) {
	for _, m := range records {
		if _, err := m.Consumed(); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.MealRecord(nil), records...)
	return len(records), nil
}

// Meals returns a copy of the stored rows.
func (s *Store) Meals() []core.MealRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MealRecord(nil), s.items...)
}
