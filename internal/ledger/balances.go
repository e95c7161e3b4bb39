package ledger

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/splitchain/internal/calculator"
	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
)

// GetGroupBalances computes each member's balance from the group's expenses,
// in member order. Settlements are not reflected; see GetSettledBalances.
func (l *Ledger) GetGroupBalances(ctx context.Context, groupID uint64) ([]models.MemberBalance, error) {
	ctx, span := l.startSpan(ctx, "GetGroupBalances", attribute.Int64("group_id", int64(groupID)))
	defer span.End()

	group, err := l.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return calculator.CalculateGroupBalances(group.Members, expenses), nil
}

// GetSettledBalances folds the group's settlement events into its expense
// balances and returns them with the simplified transfers that would clear them.
func (l *Ledger) GetSettledBalances(ctx context.Context, groupID uint64) ([]models.MemberBalance, []calculator.DebtEdge, error) {
	balances, err := l.GetGroupBalances(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := l.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	settled := calculator.ApplySettlements(balances, settlements)
	return settled, calculator.SimplifyDebts(settled), nil
}

// ListSettlements returns the group's settlements, oldest first, from the event log.
func (l *Ledger) ListSettlements(ctx context.Context, groupID uint64) ([]models.Settlement, error) {
	if _, err := l.loadGroup(ctx, groupID); err != nil {
		return nil, err
	}
	events, err := l.store.ListEvents(ctx, storage.EventFilter{
		Type:    models.EventSettlementMade,
		GroupID: groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement events: %w", err)
	}

	settlements := make([]models.Settlement, 0, len(events))
	for _, e := range events {
		s, err := e.Settlement()
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, nil
}

// ListEvents returns up to limit events with Seq greater than afterSeq.
func (l *Ledger) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]models.Event, error) {
	events, err := l.store.ListEvents(ctx, storage.EventFilter{AfterSeq: afterSeq, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
