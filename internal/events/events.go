package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	ClientCreated = "client.created"
	ClientUpdated = "client.updated"
	ClientDeleted = "client.deleted"

	AccountCreated = "account.created"
	AccountDeleted = "account.deleted"

	FundsDeposited = "funds.deposited"
	FundsWithdrawn = "funds.withdrawn"
)

// ClientEventsStream carries every client and account event.
const ClientEventsStream = "client.events"

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Decode re-marshals the loosely typed Data into out. Events arrive from the
// stream with Data as a generic map.
func (e Event) Decode(out any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", e.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

// Client events
type ClientCreatedEvent struct {
	ClientID string `json:"clientId"`
	Fname    string `json:"fname"`
	Lname    string `json:"lname"`
}

type ClientUpdatedEvent struct {
	ClientID string `json:"clientId"`
	Fname    string `json:"fname"`
	Lname    string `json:"lname"`
}

type ClientDeletedEvent struct {
	ClientID string `json:"clientId"`
}

// Account events
type AccountCreatedEvent struct {
	ClientID string  `json:"clientId"`
	AccName  string  `json:"accName"`
	Balance  float64 `json:"balance"`
}

type AccountDeletedEvent struct {
	ClientID string `json:"clientId"`
	AccName  string `json:"accName"`
}

// FundsMovedEvent is the payload of both funds.deposited and funds.withdrawn.
type FundsMovedEvent struct {
	ClientID   string  `json:"clientId"`
	AccName    string  `json:"accName"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"newBalance"`
}
