package events

import (
	"encoding/json"
	"time"
)

// Event types carried on the wallettrack exchange.
const (
	TypeTransactionAdded     = "transaction.added"
	TypeTransactionRemoved   = "transaction.removed"
	TypeProjectionRecomputed = "projection.recomputed"
)

// Event is the single message shape published to collaborators (chart
// renderers, export workers). Fields irrelevant to a type stay empty.
type Event struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id,omitempty"`
	View          string    `json:"view,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
