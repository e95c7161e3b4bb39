package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
)

// SettleUp moves amount from caller's wallet to creditor's and records the
// settlement. The transfer and its event are committed together.
func (l *Ledger) SettleUp(ctx context.Context, caller string, groupID uint64, creditor string, amount int64) (models.Settlement, error) {
	ctx, span := l.startSpan(ctx, "SettleUp",
		attribute.Int64("group_id", int64(groupID)),
		attribute.Int64("amount", amount),
	)
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	group, err := l.loadGroup(ctx, groupID)
	if err != nil {
		return models.Settlement{}, err
	}
	if err := requireMember(group, caller); err != nil {
		return models.Settlement{}, err
	}
	if amount <= 0 {
		return models.Settlement{}, apperrors.InvalidInput("must send value to settle", "amount", formatAmount(amount))
	}
	if creditor == "" {
		return models.Settlement{}, apperrors.InvalidInput("invalid creditor")
	}
	if creditor == caller {
		return models.Settlement{}, apperrors.InvalidInput("cannot settle with self", "caller", caller)
	}
	if !group.HasMember(creditor) {
		return models.Settlement{}, apperrors.InvalidInput("creditor must be a member",
			"group_id", formatID(groupID),
			"creditor", creditor,
		)
	}

	balance, err := l.store.WalletBalance(ctx, caller)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("failed to read wallet: %w", err)
	}
	if balance < amount {
		return models.Settlement{}, insufficientFunds(caller, balance, amount)
	}
	creditorBalance, err := l.store.WalletBalance(ctx, creditor)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("failed to read wallet: %w", err)
	}
	if !storage.CanCredit(creditorBalance, amount) {
		return models.Settlement{}, balanceOverflow(creditor, creditorBalance, amount)
	}

	now := l.now().Unix()
	settlement := models.Settlement{
		GroupID:   groupID,
		From:      caller,
		To:        creditor,
		Amount:    amount,
		Timestamp: now,
	}
	event, err := models.NewEvent(models.EventSettlementMade, groupID, now, models.SettlementMade{
		GroupID:   groupID,
		From:      caller,
		To:        creditor,
		Amount:    amount,
		Timestamp: now,
	})
	if err != nil {
		return models.Settlement{}, err
	}

	err = l.store.Transfer(ctx, settlement, &event)
	switch {
	case errors.Is(err, storage.ErrInsufficientFunds):
		return models.Settlement{}, insufficientFunds(caller, balance, amount)
	case errors.Is(err, storage.ErrBalanceOverflow):
		return models.Settlement{}, balanceOverflow(creditor, creditorBalance, amount)
	case err != nil:
		return models.Settlement{}, fmt.Errorf("failed to transfer: %w", err)
	}

	l.metrics.SettlementMade(amount)
	l.notify(ctx, event)
	return settlement, nil
}

func insufficientFunds(caller string, balance, amount int64) error {
	return apperrors.InsufficientFunds("wallet balance too low to settle",
		"caller", caller,
		"balance", formatAmount(balance),
		"amount", formatAmount(amount),
	)
}

func balanceOverflow(principal string, balance, amount int64) error {
	return apperrors.InvalidInput("wallet balance overflow",
		"principal", principal,
		"balance", formatAmount(balance),
		"amount", formatAmount(amount),
	)
}

// Deposit adds value to caller's wallet and returns the new balance.
func (l *Ledger) Deposit(ctx context.Context, caller string, amount int64) (int64, error) {
	ctx, span := l.startSpan(ctx, "Deposit", attribute.Int64("amount", amount))
	defer span.End()

	if caller == "" {
		return 0, apperrors.Unauthorized("caller is required to deposit")
	}
	if amount <= 0 {
		return 0, apperrors.InvalidInput("deposit amount must be positive", "amount", formatAmount(amount))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.store.WalletBalance(ctx, caller)
	if err != nil {
		return 0, fmt.Errorf("failed to read wallet: %w", err)
	}
	if !storage.CanCredit(balance, amount) {
		return 0, balanceOverflow(caller, balance, amount)
	}

	now := l.now().Unix()
	event, err := models.NewEvent(models.EventWalletFunded, 0, now, models.WalletFunded{
		Principal: caller,
		Amount:    amount,
		Timestamp: now,
	})
	if err != nil {
		return 0, err
	}
	err = l.store.Deposit(ctx, caller, amount, &event)
	if errors.Is(err, storage.ErrBalanceOverflow) {
		return 0, balanceOverflow(caller, balance, amount)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deposit: %w", err)
	}

	l.metrics.DepositMade()
	l.notify(ctx, event)
	return balance + amount, nil
}

// WalletBalance returns the value principal holds.
func (l *Ledger) WalletBalance(ctx context.Context, principal string) (int64, error) {
	balance, err := l.store.WalletBalance(ctx, principal)
	if err != nil {
		return 0, fmt.Errorf("failed to read wallet: %w", err)
	}
	return balance, nil
}
