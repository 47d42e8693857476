package amqp

import (
	"encoding/json"
	"time"
)

// MealSyncMessage carries only the meal id; the worker resolves the full
// record from the journal before pushing it to the spreadsheet.
type MealSyncMessage struct {
	MealID    string    `json:"meal_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMealSyncMessage creates a sync message for one meal.
func NewMealSyncMessage(mealID string) *MealSyncMessage {
	return &MealSyncMessage{
		MealID:    mealID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *MealSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MealSyncMessageFromJSON creates a message from JSON bytes.
func MealSyncMessageFromJSON(data []byte) (*MealSyncMessage, error) {
	var msg MealSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
