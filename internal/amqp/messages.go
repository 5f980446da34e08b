package amqp

import (
	"encoding/json"
	"time"
)

// Change scopes carried by LedgerChangedMessage.
const (
	ScopeSnapshots = "snapshots"
	ScopeRules     = "rules"
)

// LedgerChangedMessage tells the forecast worker that a stored collection
// changed. It is deliberately thin: the worker reloads the full state from
// the store rather than trusting message payloads.
type LedgerChangedMessage struct {
	Scope     string    `json:"scope"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage creates a change notification for the given scope.
func NewLedgerChangedMessage(scope string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Scope:     scope,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
