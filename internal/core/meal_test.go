package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeDefaults(t *testing.T) {
	// A sparse record: no totals, no macros, no composition. Every numeric
	// leaf must come back zero and the record must aggregate cleanly.
	src := `{"id":"m1","mealType":"lunch","consumedAt":"2024-01-01T12:00:00Z"}`
	var m MealRecord
	if err := json.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Analysis.Totals.Calories != 0 || m.Analysis.Totals.Macros.Protein != 0 {
		t.Fatalf("missing fields must default to zero: %+v", m.Analysis.Totals)
	}
	if len(m.Analysis.Composition) != 0 {
		t.Fatalf("missing composition must default to empty")
	}
	if got := SumTotals([]MealRecord{m}); got != (Totals{}) {
		t.Fatalf("sparse record must sum to zero, got %+v", got)
	}
}

func TestTypeDefaultsToUnknown(t *testing.T) {
	if got := (MealRecord{}).Type(); got != MealTypeUnknown {
		t.Fatalf("got %q", got)
	}
	if got := (MealRecord{MealType: Snack}).Type(); got != Snack {
		t.Fatalf("got %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01T08:00:00Z", true},
		{"2024-01-01T08:00:00+02:00", true},
		{"2024-01-01T08:00:00.123456", true}, // zone-less, tracker's own writes
		{"2024-01-01T08:00:00", true},
		{"", false},
		{"yesterday", false},
		{"2024-13-01T08:00:00Z", false},
	}
	for i, tc := range cases {
		_, err := ParseTimestamp(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestParseTimestampKeepsOffset(t *testing.T) {
	got, err := ParseTimestamp("2024-06-01T10:00:00+05:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, offset := got.Zone()
	if offset != 5*3600+1800 {
		t.Fatalf("expected +05:30 offset preserved, got %d", offset)
	}
}

func TestConsumedWrapsMalformed(t *testing.T) {
	m := MealRecord{ID: "m9", ConsumedAt: "garbage"}
	_, err := m.Consumed()
	if err == nil {
		t.Fatalf("expected error")
	}
	malformed, ok := err.(*MalformedRecordError)
	if !ok {
		t.Fatalf("expected MalformedRecordError, got %T", err)
	}
	if malformed.ID != "m9" || malformed.Value != "garbage" {
		t.Fatalf("error payload mismatch: %+v", malformed)
	}
}

func TestRoundTripTotals(t *testing.T) {
	// Encoding a record and decoding it back must preserve totals exactly.
	in := meal("r1", Dinner, time.Date(2024, 2, 1, 19, 0, 0, 0, time.UTC).Format(time.RFC3339), 820.5, 42.25, 90.1, 30.4)
	data, err := json.Marshal([]MealRecord{in})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out []MealRecord
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if SumTotals(out) != SumTotals([]MealRecord{in}) {
		t.Fatalf("round trip changed totals")
	}
}
