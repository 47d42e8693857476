// Package export converts the meal dataset into its interchange formats:
// summary CSV, detailed CSV, and the summary JSON document.
package export

import (
	"fmt"
	"os"
)

// DestinationError marks an output that could not be produced. Failures are
// per-destination; a failed target never aborts its siblings.
type DestinationError struct {
	Path string
	Err  error
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *DestinationError) Unwrap() error {
	return e.Err
}

// Target produces one output from the record set.
type Target struct {
	Name string
	Run  func() error
}

// RunAll executes every target in order, isolating failures: a failed
// target is collected, its siblings still run.
func RunAll(targets []Target) []error {
	var errs []error
	for _, t := range targets {
		if err := t.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}
	return errs
}

// writeFile renders via fn into path, wrapping I/O failures as
// DestinationError.
func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &DestinationError{Path: path, Err: err}
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &DestinationError{Path: path, Err: err}
	}
	return nil
}
