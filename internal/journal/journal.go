// Package journal persists the meal dataset: a single JSON array file,
// rewritten whole on every mutation.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutrilog/internal/core"
)

var (
	// ErrSourceNotFound marks a missing input file.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrMalformedSource marks a file that exists but does not parse as a
	// JSON array of meal records.
	ErrMalformedSource = errors.New("malformed source file")
	// ErrEmpty is returned by DeleteLast on an empty journal.
	ErrEmpty = errors.New("journal is empty")
)

// Journal holds the in-memory record sequence bound to its backing file.
// Newest records sit at the front.
type Journal struct {
	path    string
	records []core.MealRecord
}

// Open loads an existing journal file. A missing file is ErrSourceNotFound;
// analysis and export commands treat that as fatal.
func Open(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []core.MealRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}
	return &Journal{path: path, records: records}, nil
}

// OpenOrCreate loads the journal, starting empty when the file does not
// exist yet. The tracker uses this so a first `add` works on a fresh setup.
func OpenOrCreate(path string) (*Journal, error) {
	j, err := Open(path)
	if errors.Is(err, ErrSourceNotFound) {
		return &Journal{path: path}, nil
	}
	return j, err
}

// Records returns the record sequence, newest first.
func (j *Journal) Records() []core.MealRecord {
	return j.records
}

// Len returns the number of records.
func (j *Journal) Len() int {
	return len(j.records)
}

// Path returns the backing file path.
func (j *Journal) Path() string {
	return j.path
}

// AddInput carries the explicit numeric inputs of a manual meal entry.
// Micros and composition start zeroed; only analyzed meals carry those.
type AddInput struct {
	MealType string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Notes    string
}

// Add builds a record from the input, prepends it, and rewrites the file.
func (j *Journal) Add(in AddInput) (core.MealRecord, error) {
	now := time.Now().Format(time.RFC3339)
	name := in.Notes
	if name == "" {
		name = capitalize(orUnknown(in.MealType)) + " meal"
	}
	record := core.MealRecord{
		ID:         uuid.NewString(),
		MealType:   in.MealType,
		Name:       name,
		Notes:      in.Notes,
		ConsumedAt: now,
		CreatedAt:  now,
		Analysis: core.AnalysisData{
			Totals: core.NutritionTotals{
				Calories: in.Calories,
				Macros: core.Macros{
					Protein: in.Protein,
					Carbs:   in.Carbs,
					Fat:     in.Fat,
				},
				Allergens: []string{},
			},
			Composition: []core.FoodItem{},
		},
	}

	j.records = append([]core.MealRecord{record}, j.records...)
	if err := j.Save(); err != nil {
		j.records = j.records[1:]
		return core.MealRecord{}, err
	}
	return record, nil
}

// DeleteLast removes the most recent record (the front of the sequence)
// and rewrites the file.
func (j *Journal) DeleteLast() (core.MealRecord, error) {
	if len(j.records) == 0 {
		return core.MealRecord{}, ErrEmpty
	}
	deleted := j.records[0]
	rest := j.records[1:]
	j.records = rest
	if err := j.Save(); err != nil {
		j.records = append([]core.MealRecord{deleted}, rest...)
		return core.MealRecord{}, err
	}
	return deleted, nil
}

// Save rewrites the whole file atomically: encode to a temp file in the
// same directory, then rename over the target.
func (j *Journal) Save() error {
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".meals-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	records := j.records
	if records == nil {
		records = []core.MealRecord{}
	}
	if err := enc.Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("replace %s: %w", j.path, err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return core.MealTypeUnknown
	}
	return s
}
