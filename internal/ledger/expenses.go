package ledger

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/splitchain/internal/calculator"
	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
)

// AddExpense records an expense paid by caller and split evenly across the
// group's current members. Each member owes amount / len(members); the
// remainder is not allocated to anyone.
func (l *Ledger) AddExpense(ctx context.Context, caller string, groupID uint64, amount int64, description, category string) (uint64, error) {
	ctx, span := l.startSpan(ctx, "AddExpense", attribute.Int64("group_id", int64(groupID)))
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	group, err := l.validateExpense(ctx, caller, groupID, amount, description, category)
	if err != nil {
		return 0, err
	}

	splits, err := calculator.EvenSplit(amount, group.Members)
	if err != nil {
		return 0, err
	}

	return l.recordExpense(ctx, group, &models.Expense{
		PaidBy:      caller,
		Amount:      amount,
		Description: description,
		Category:    category,
		Kind:        models.SplitEven,
		Splits:      splits,
	})
}

// AddUnevenExpense records an expense with explicit per-member amounts.
// members and amounts are parallel; every group member must be listed (with 0
// if they owe nothing) and the amounts must add up to amount exactly.
func (l *Ledger) AddUnevenExpense(ctx context.Context, caller string, groupID uint64, amount int64, description, category string, members []string, amounts []int64) (uint64, error) {
	ctx, span := l.startSpan(ctx, "AddUnevenExpense", attribute.Int64("group_id", int64(groupID)))
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	group, err := l.validateExpense(ctx, caller, groupID, amount, description, category)
	if err != nil {
		return 0, err
	}

	splits, err := calculator.UnevenSplit(amount, group.Members, members, amounts)
	if err != nil {
		return 0, err
	}

	return l.recordExpense(ctx, group, &models.Expense{
		PaidBy:      caller,
		Amount:      amount,
		Description: description,
		Category:    category,
		Kind:        models.SplitUneven,
		Splits:      splits,
	})
}

// validateExpense checks the preconditions shared by both split kinds, in order.
func (l *Ledger) validateExpense(ctx context.Context, caller string, groupID uint64, amount int64, description, category string) (*models.Group, error) {
	group, err := l.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(group, caller); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be positive", "amount", formatAmount(amount))
	}
	if description == "" {
		return nil, apperrors.InvalidInput("description is required")
	}
	if category == "" {
		return nil, apperrors.InvalidInput("category is required")
	}

	// Every per-member and per-category sum is bounded by the group total.
	total, err := l.groupTotal(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !storage.CanCredit(total, amount) {
		return nil, apperrors.InvalidInput("amount overflow",
			"group_id", formatID(groupID),
			"group_total", formatAmount(total),
			"amount", formatAmount(amount),
		)
	}
	return group, nil
}

func (l *Ledger) groupTotal(ctx context.Context, groupID uint64) (int64, error) {
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return lo.SumBy(expenses, func(e models.Expense) int64 { return e.Amount }), nil
}

// recordExpense assigns the next per-group ID and commits. Callers hold l.mu.
func (l *Ledger) recordExpense(ctx context.Context, group *models.Group, expense *models.Expense) (uint64, error) {
	count, err := l.store.CountExpenses(ctx, group.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	now := l.now().Unix()
	expense.ID = count
	expense.GroupID = group.ID
	expense.Timestamp = now

	event, err := models.NewEvent(models.EventExpenseAdded, group.ID, now, models.ExpenseAdded{
		GroupID:     group.ID,
		ExpenseID:   expense.ID,
		PaidBy:      expense.PaidBy,
		Amount:      expense.Amount,
		Description: expense.Description,
		Category:    expense.Category,
		Timestamp:   now,
	})
	if err != nil {
		return 0, err
	}

	if err := l.store.CreateExpense(ctx, expense, &event); err != nil {
		return 0, fmt.Errorf("failed to create expense: %w", err)
	}

	l.metrics.ExpenseAdded(string(expense.Kind))
	l.notify(ctx, event)
	return expense.ID, nil
}

// GetGroupExpenses returns the group's expenses in creation order.
func (l *Ledger) GetGroupExpenses(ctx context.Context, groupID uint64) ([]models.Expense, error) {
	if _, err := l.loadGroup(ctx, groupID); err != nil {
		return nil, err
	}
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (l *Ledger) GetGroupExpenseCount(ctx context.Context, groupID uint64) (uint64, error) {
	if _, err := l.loadGroup(ctx, groupID); err != nil {
		return 0, err
	}
	count, err := l.store.CountExpenses(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// TotalExpenses returns the number of expenses recorded across all groups.
func (l *Ledger) TotalExpenses(ctx context.Context) (uint64, error) {
	total, err := l.store.TotalExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return total, nil
}

// CategoryTotals sums the group's expenses per category, largest first.
func (l *Ledger) CategoryTotals(ctx context.Context, groupID uint64) ([]models.CategoryTotal, error) {
	expenses, err := l.GetGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.CategoryTotals(expenses), nil
}
