package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitchain/internal/models"
)

// CountExpenses returns the number of expenses recorded in a group.
func (s *SQLiteStore) CountExpenses(ctx context.Context, groupID uint64) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses WHERE group_id = ?", groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// TotalExpenses returns the number of expenses across every group.
func (s *SQLiteStore) TotalExpenses(ctx context.Context) (uint64, error) {
	var count uint64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// CreateExpense persists an expense with its splits and the expense event.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (group_id, id, paid_by, amount, description, category, kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.GroupID, expense.ID, expense.PaidBy, expense.Amount,
		expense.Description, expense.Category, string(expense.Kind), expense.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (group_id, expense_id, position, member, amount) VALUES (?, ?, ?, ?, ?)",
			expense.GroupID, expense.ID, i, split.Member, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns a group's expenses with their splits, in creation order.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID uint64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, paid_by, amount, description, category, kind, created_at
		 FROM expenses WHERE group_id = ? ORDER BY id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := []models.Expense{}
	index := make(map[uint64]int)
	for rows.Next() {
		var e models.Expense
		var kind string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &e.Amount,
			&e.Description, &e.Category, &kind, &e.Timestamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Kind = models.SplitKind(kind)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	// One query for every split of the group rather than one per expense.
	splitRows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, member, amount FROM expense_splits
		 WHERE group_id = ? ORDER BY expense_id, position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID uint64
		var split models.Split
		if err := splitRows.Scan(&expenseID, &split.Member, &split.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		i, ok := index[expenseID]
		if !ok {
			continue
		}
		expenses[i].Splits = append(expenses[i].Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return expenses, nil
}
