package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangedMessage announces that the record for a date was created or
// updated. Consumers re-read the store; the message carries no field data.
type RecordChangedMessage struct {
	Date      string    `json:"date"`
	Outcome   string    `json:"outcome"` // "created" or "updated"
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordChangedMessage creates a change notification for a date.
func NewRecordChangedMessage(date, outcome string) *RecordChangedMessage {
	return &RecordChangedMessage{
		Date:      date,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangedMessageFromJSON creates a message from JSON bytes
func RecordChangedMessageFromJSON(data []byte) (*RecordChangedMessage, error) {
	var msg RecordChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
