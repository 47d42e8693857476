package core

import "fmt"

// MalformedRecordError marks a record whose consumedAt timestamp cannot be
// parsed. Aggregations that depend on dates surface it to the caller, which
// decides whether to abort or skip.
type MalformedRecordError struct {
	ID    string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %s: unparseable timestamp %q: %v", e.ID, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
