// Package memory provides an in-process implementation of the storage interfaces.
// State lives for the lifetime of the process.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
)

var (
	_ storage.Store     = (*Store)(nil)
	_ storage.UserStore = (*Store)(nil)
)

// Store keeps every table in maps guarded by one RWMutex. Each write takes the
// write lock for its full duration, so a reader sees all of a write or none of it.
type Store struct {
	mu sync.RWMutex

	groups      []models.Group // index i holds group ID i+1
	memberships map[string][]uint64
	expenses    map[uint64][]models.Expense
	wallets     map[string]int64
	events      []models.Event
	delivered   map[uint64]bool

	users        map[string]*models.User
	usersByEmail map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		memberships:  make(map[string][]uint64),
		expenses:     make(map[uint64][]models.Expense),
		wallets:      make(map[string]int64),
		delivered:    make(map[uint64]bool),
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]string),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) GroupCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.groups)), nil
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID != uint64(len(s.groups))+1 {
		return fmt.Errorf("failed to insert group: id %d out of sequence (count %d)", group.ID, len(s.groups))
	}

	g := cloneGroup(*group)
	s.groups = append(s.groups, g)
	for _, m := range g.Members {
		s.memberships[m] = append(s.memberships[m], g.ID)
	}
	s.appendEvent(event)
	return nil
}

func (s *Store) GetGroup(ctx context.Context, groupID uint64) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if groupID == 0 || groupID > uint64(len(s.groups)) {
		return nil, fmt.Errorf("group %d: %w", groupID, storage.ErrNotFound)
	}
	g := cloneGroup(s.groups[groupID-1])
	return &g, nil
}

func (s *Store) ListUserGroups(ctx context.Context, principal string) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.memberships[principal]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *Store) CountExpenses(ctx context.Context, groupID uint64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.expenses[groupID])), nil
}

func (s *Store) TotalExpenses(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total uint64
	for _, list := range s.expenses {
		total += uint64(len(list))
	}
	return total, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.GroupID == 0 || expense.GroupID > uint64(len(s.groups)) {
		return fmt.Errorf("failed to insert expense: group %d: %w", expense.GroupID, storage.ErrNotFound)
	}
	list := s.expenses[expense.GroupID]
	if expense.ID != uint64(len(list)) {
		return fmt.Errorf("failed to insert expense: id %d out of sequence (count %d)", expense.ID, len(list))
	}

	s.expenses[expense.GroupID] = append(list, cloneExpense(*expense))
	s.appendEvent(event)
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, groupID uint64) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.expenses[groupID]
	out := make([]models.Expense, len(list))
	for i, e := range list {
		out[i] = cloneExpense(e)
	}
	return out, nil
}

func (s *Store) WalletBalance(ctx context.Context, principal string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallets[principal], nil
}

func (s *Store) Deposit(ctx context.Context, principal string, amount int64, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !storage.CanCredit(s.wallets[principal], amount) {
		return fmt.Errorf("deposit to %s: %w", principal, storage.ErrBalanceOverflow)
	}
	s.wallets[principal] += amount
	s.appendEvent(event)
	return nil
}

func (s *Store) Transfer(ctx context.Context, settlement models.Settlement, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wallets[settlement.From] < settlement.Amount {
		return fmt.Errorf("transfer from %s: %w", settlement.From, storage.ErrInsufficientFunds)
	}
	if !storage.CanCredit(s.wallets[settlement.To], settlement.Amount) {
		return fmt.Errorf("transfer to %s: %w", settlement.To, storage.ErrBalanceOverflow)
	}
	s.wallets[settlement.From] -= settlement.Amount
	s.wallets[settlement.To] += settlement.Amount
	s.appendEvent(event)
	return nil
}

func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for _, e := range s.events {
		if !filter.Match(e) {
			continue
		}
		out = append(out, cloneEvent(e))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListUndelivered(ctx context.Context, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for _, e := range s.events {
		if s.delivered[e.Seq] {
			continue
		}
		out = append(out, cloneEvent(e))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkDelivered(ctx context.Context, seqs []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seq := range seqs {
		s.delivered[seq] = true
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return fmt.Errorf("failed to create user: email %s already registered", user.Email)
	}
	u := *user
	s.users[u.ID] = &u
	s.usersByEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

// appendEvent assigns the next sequence number. Caller holds the write lock.
func (s *Store) appendEvent(event *models.Event) {
	if event == nil {
		return
	}
	event.Seq = uint64(len(s.events)) + 1
	s.events = append(s.events, cloneEvent(*event))
}

func cloneGroup(g models.Group) models.Group {
	g.Members = slices.Clone(g.Members)
	return g
}

func cloneExpense(e models.Expense) models.Expense {
	e.Splits = slices.Clone(e.Splits)
	return e
}

func cloneEvent(e models.Event) models.Event {
	e.Payload = slices.Clone(e.Payload)
	return e
}
