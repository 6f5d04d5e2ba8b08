package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// TransactionsChangedMessage announces that the stored transaction list was
// overwritten. Consumers reload the whole list; the message carries no data.
type TransactionsChangedMessage struct {
	Operation string    `json:"operation"`
	ID        string    `json:"id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionsChangedMessage creates a message stamped with the current time
func NewTransactionsChangedMessage(operation, id string, count int) *TransactionsChangedMessage {
	return &TransactionsChangedMessage{
		Operation: operation,
		ID:        id,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionsChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionsChangedMessageFromJSON creates a message from JSON bytes
func TransactionsChangedMessageFromJSON(data []byte) (*TransactionsChangedMessage, error) {
	var msg TransactionsChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Operation == "" {
		return nil, errors.New("message without operation")
	}
	return &msg, nil
}
