package core

import (
	"fmt"
	"time"
)

const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Dinner    = "dinner"
	Snack     = "snack"

	// MealTypeUnknown is substituted wherever a record carries no meal type.
	MealTypeUnknown = "unknown"
)

type (
	// MealRecord is one logged eating event as stored in the journal file.
	// Numeric leaves default to zero and sequences to empty when absent from
	// the source JSON, so partially populated records never fail aggregation.
	// Timestamps stay strings until a date-dependent operation needs them.
	MealRecord struct {
		ID         string       `json:"id"`
		MealType   string       `json:"mealType"`
		Name       string       `json:"name"`
		Notes      string       `json:"notes"`
		ConsumedAt string       `json:"consumedAt"`
		CreatedAt  string       `json:"createdAt"`
		Analysis   AnalysisData `json:"analysisData"`
	}

	AnalysisData struct {
		Totals      NutritionTotals `json:"totals"`
		Composition []FoodItem      `json:"composition"`
		ImageMeta   ImageMeta       `json:"image_meta"`
	}

	NutritionTotals struct {
		Calories     float64  `json:"calories_kcal"`
		Macros       Macros   `json:"macros"`
		Micros       Micros   `json:"micros"`
		Allergens    []string `json:"allergens"`
		ServingTotal float64  `json:"serving_total_g"`
	}

	Macros struct {
		Protein float64 `json:"protein_g"`
		Carbs   float64 `json:"carbs_g"`
		Fat     float64 `json:"fat_g"`
		Fiber   float64 `json:"fiber_g"`
		Sugar   float64 `json:"sugar_g"`
	}

	Micros struct {
		Sodium      float64 `json:"sodium_mg"`
		Potassium   float64 `json:"potassium_mg"`
		Calcium     float64 `json:"calcium_mg"`
		Iron        float64 `json:"iron_mg"`
		VitaminA    float64 `json:"vitamin_a_mcg"`
		VitaminC    float64 `json:"vitamin_c_mg"`
		Cholesterol float64 `json:"cholesterol_mg"`
	}

	// FoodItem is one detected food within a meal's composition.
	FoodItem struct {
		Label      string        `json:"label"`
		Confidence float64       `json:"confidence"`
		ServingEst float64       `json:"serving_est_g"`
		Nutrition  ItemNutrition `json:"nutrition"`
	}

	ItemNutrition struct {
		Calories  float64  `json:"calories_kcal"`
		Macros    Macros   `json:"macros"`
		Micros    Micros   `json:"micros"`
		Allergens []string `json:"allergens"`
	}

	ImageMeta struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
)

// Type returns the record's meal type, or MealTypeUnknown when absent.
func (m MealRecord) Type() string {
	if m.MealType == "" {
		return MealTypeUnknown
	}
	return m.MealType
}

// Consumed parses the record's consumedAt timestamp. A failure is a
// MalformedRecordError; callers running batch operations are expected to
// abort rather than skip.
func (m MealRecord) Consumed() (time.Time, error) {
	t, err := ParseTimestamp(m.ConsumedAt)
	if err != nil {
		return time.Time{}, &MalformedRecordError{ID: m.ID, Value: m.ConsumedAt, Err: err}
	}
	return t, nil
}

// timestampLayouts covers RFC 3339 (with Z or an explicit offset) and the
// zone-less ISO 8601 form the tracker itself writes. Zone-less values are
// interpreted in local time; values with an offset keep it.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseTimestamp parses an ISO 8601 timestamp as found in meal records.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
