package amqp

import (
	"encoding/json"

	"github.com/mmynk/splitchain/internal/models"
)

// EventMessage is the body published for every ledger event.
type EventMessage struct {
	Seq        uint64          `json:"seq"`
	Type       string          `json:"type"`
	GroupID    uint64          `json:"group_id,omitempty"`
	OccurredAt int64           `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func NewEventMessage(event models.Event) *EventMessage {
	return &EventMessage{
		Seq:        event.Seq,
		Type:       string(event.Type),
		GroupID:    event.GroupID,
		OccurredAt: event.OccurredAt,
		Payload:    event.Payload,
	}
}

func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
