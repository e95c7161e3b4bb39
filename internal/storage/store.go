// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"
	"math"

	"github.com/mmynk/splitchain/internal/models"
)

var (
	// ErrNotFound is returned when a group or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds is returned when a transfer exceeds the payer's wallet.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceOverflow is returned when a credit would push a wallet past math.MaxInt64.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// CanCredit reports whether amount can be added to balance without overflowing.
func CanCredit(balance, amount int64) bool {
	return amount <= math.MaxInt64-balance
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the ledger.
//
// Every write persists its event in the same transaction as the state change,
// assigning event.Seq. Writes are expected to come from a single ledger, which
// serializes them; reads only ever observe committed state.
type Store interface {
	// GroupCount returns the number of groups (and so the highest group ID).
	GroupCount(ctx context.Context) (uint64, error)

	// CreateGroup persists a group whose ID the caller has already assigned,
	// indexes every member, and records the event.
	CreateGroup(ctx context.Context, group *models.Group, event *models.Event) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound for unknown IDs.
	GetGroup(ctx context.Context, groupID uint64) (*models.Group, error)

	// ListUserGroups returns the IDs of the groups principal belongs to, in
	// the order they were created. Returns an empty slice, never ErrNotFound.
	ListUserGroups(ctx context.Context, principal string) ([]uint64, error)

	// CountExpenses returns the number of expenses in a group.
	CountExpenses(ctx context.Context, groupID uint64) (uint64, error)

	// TotalExpenses returns the number of expenses across all groups.
	TotalExpenses(ctx context.Context) (uint64, error)

	// CreateExpense persists an expense whose ID the caller has already
	// assigned and records the event.
	CreateExpense(ctx context.Context, expense *models.Expense, event *models.Event) error

	// ListExpenses returns a group's expenses in creation order.
	ListExpenses(ctx context.Context, groupID uint64) ([]models.Expense, error)

	// WalletBalance returns the value held by principal (0 if never funded).
	WalletBalance(ctx context.Context, principal string) (int64, error)

	// Deposit credits a wallet and records the event.
	Deposit(ctx context.Context, principal string, amount int64, event *models.Event) error

	// Transfer moves value between wallets and records the event, atomically.
	// Returns ErrInsufficientFunds, with nothing written, if the payer cannot cover it.
	Transfer(ctx context.Context, settlement models.Settlement, event *models.Event) error

	// ListEvents returns the events matching filter, in Seq order.
	ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error)

	// ListUndelivered returns up to limit events not yet marked delivered.
	ListUndelivered(ctx context.Context, limit int) ([]models.Event, error)

	// MarkDelivered flags events as handed to the outbound broker.
	MarkDelivered(ctx context.Context, seqs []uint64) error

	// Close releases any resources held by the store.
	Close() error
}

// EventFilter narrows ListEvents. Zero values mean "any".
type EventFilter struct {
	AfterSeq uint64           // only events with Seq > AfterSeq
	Limit    int              // at most Limit events; <= 0 is unlimited
	Type     models.EventType // only events of this type
	GroupID  uint64           // only events of this group
}

// Match reports whether e passes the filter, ignoring Limit.
func (f EventFilter) Match(e models.Event) bool {
	if e.Seq <= f.AfterSeq {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.GroupID != 0 && e.GroupID != f.GroupID {
		return false
	}
	return true
}

// UserStore persists accounts for the auth service.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
