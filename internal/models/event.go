package models

import (
	"encoding/json"
	"fmt"
)

// EventType names the fact an Event carries.
type EventType string

const (
	EventGroupCreated   EventType = "group_created"
	EventExpenseAdded   EventType = "expense_added"
	EventSettlementMade EventType = "settlement_made"
	EventWalletFunded   EventType = "wallet_funded"
)

// Event is the envelope stored in the outbox and delivered to subscribers.
// The store commits it in the same transaction as the state change it describes.
type Event struct {
	// Seq is the position in the event log, assigned by the store starting at 1.
	Seq uint64 `json:"seq"`

	Type EventType `json:"type"`

	// GroupID is 0 for events not scoped to a group (wallet funding).
	GroupID uint64 `json:"group_id"`

	// OccurredAt is the Unix timestamp of the mutation.
	OccurredAt int64 `json:"occurred_at"`

	// Payload is the JSON encoding of the typed fact (GroupCreated, ExpenseAdded, ...).
	Payload json.RawMessage `json:"payload"`
}

// GroupCreated is emitted by group creation.
type GroupCreated struct {
	GroupID   uint64   `json:"group_id"`
	Name      string   `json:"name"`
	Creator   string   `json:"creator"`
	Members   []string `json:"members"`
	Timestamp int64    `json:"timestamp"`
}

// ExpenseAdded is emitted by even and uneven expense recording.
type ExpenseAdded struct {
	GroupID     uint64 `json:"group_id"`
	ExpenseID   uint64 `json:"expense_id"`
	PaidBy      string `json:"paid_by"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Timestamp   int64  `json:"timestamp"`
}

// SettlementMade is emitted together with the wallet transfer of a settlement.
type SettlementMade struct {
	GroupID   uint64 `json:"group_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// WalletFunded is emitted when value enters a principal's wallet.
type WalletFunded struct {
	Principal string `json:"principal"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// NewEvent wraps a typed payload into an envelope. Seq is left for the store.
func NewEvent(eventType EventType, groupID uint64, occurredAt int64, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	return Event{
		Type:       eventType,
		GroupID:    groupID,
		OccurredAt: occurredAt,
		Payload:    data,
	}, nil
}

// Settlement decodes a settlement_made payload.
func (e Event) Settlement() (Settlement, error) {
	if e.Type != EventSettlementMade {
		return Settlement{}, fmt.Errorf("event %d is %s, not %s", e.Seq, e.Type, EventSettlementMade)
	}
	var p SettlementMade
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return Settlement{}, fmt.Errorf("failed to decode settlement payload: %w", err)
	}
	return Settlement{
		GroupID:   p.GroupID,
		From:      p.From,
		To:        p.To,
		Amount:    p.Amount,
		Timestamp: p.Timestamp,
	}, nil
}
