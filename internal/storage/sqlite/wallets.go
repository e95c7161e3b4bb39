package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WalletBalance returns the value held by principal.
func (s *SQLiteStore) WalletBalance(ctx context.Context, principal string) (int64, error) {
	return walletBalance(ctx, s.db, principal)
}

func walletBalance(ctx context.Context, q querier, principal string) (int64, error) {
	var balance int64
	err := q.QueryRowContext(ctx, "SELECT balance FROM wallets WHERE principal = ?", principal).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get wallet balance: %w", err)
	}
	return balance, nil
}

// Deposit credits principal's wallet and records the funding event.
func (s *SQLiteStore) Deposit(ctx context.Context, principal string, amount int64, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := credit(ctx, tx, principal, amount); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Transfer debits the payer, credits the receiver and records the settlement
// event in one transaction.
func (s *SQLiteStore) Transfer(ctx context.Context, settlement models.Settlement, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := walletBalance(ctx, tx, settlement.From)
	if err != nil {
		return err
	}
	if balance < settlement.Amount {
		return fmt.Errorf("transfer from %s: %w", settlement.From, storage.ErrInsufficientFunds)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE wallets SET balance = balance - ? WHERE principal = ?",
		settlement.Amount, settlement.From,
	)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	if err := credit(ctx, tx, settlement.To, settlement.Amount); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func credit(ctx context.Context, tx *sql.Tx, principal string, amount int64) error {
	balance, err := walletBalance(ctx, tx, principal)
	if err != nil {
		return err
	}
	if !storage.CanCredit(balance, amount) {
		return fmt.Errorf("credit %s: %w", principal, storage.ErrBalanceOverflow)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallets (principal, balance) VALUES (?, ?)
		 ON CONFLICT(principal) DO UPDATE SET balance = balance + excluded.balance`,
		principal, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}
