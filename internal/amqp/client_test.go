package amqp

import (
	"testing"

	"github.com/mmynk/splitchain/internal/models"
)

func TestRoutingKey(t *testing.T) {
	tests := []struct {
		eventType models.EventType
		expected  string
	}{
		{models.EventGroupCreated, "splitchain.group_created"},
		{models.EventExpenseAdded, "splitchain.expense_added"},
		{models.EventSettlementMade, "splitchain.settlement_made"},
		{models.EventWalletFunded, "splitchain.wallet_funded"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			if got := RoutingKey("splitchain", tt.eventType); got != tt.expected {
				t.Errorf("RoutingKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEventMessageKeepsPayloadVerbatim(t *testing.T) {
	event, err := models.NewEvent(models.EventSettlementMade, 3, 1700000000, models.SettlementMade{
		GroupID: 3, From: "bob", To: "alice", Amount: 25, Timestamp: 1700000000,
	})
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	event.Seq = 9

	body, err := NewEventMessage(event).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	msg, err := EventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("EventMessageFromJSON() error = %v", err)
	}

	if msg.Seq != 9 || msg.Type != "settlement_made" || msg.GroupID != 3 {
		t.Errorf("unexpected envelope: %+v", msg)
	}
	if string(msg.Payload) != string(event.Payload) {
		t.Errorf("payload = %s, want %s", msg.Payload, event.Payload)
	}
}
