package models

// SplitKind records how an expense was divided.
type SplitKind string

const (
	// SplitEven divides the amount by the member count, flooring the share.
	SplitEven SplitKind = "even"
	// SplitUneven stores caller-supplied owed amounts verbatim.
	SplitUneven SplitKind = "uneven"
)

// Expense is a payment by one group member for the group.
type Expense struct {
	// ID is the zero-based sequence number of the expense within its group.
	ID uint64

	// GroupID is the owning group.
	GroupID uint64

	// PaidBy is the member that paid the full Amount.
	PaidBy string

	// Amount is the total paid, in the smallest unit. Always positive.
	Amount int64

	// Description says what was paid for (e.g., "Groceries").
	Description string

	// Category groups expenses for reporting (e.g., "Food", "Transport").
	Category string

	// Kind is the split policy used to build Splits.
	Kind SplitKind

	// Splits holds what each member owes for this expense, in group member order.
	// Every group member appears exactly once, including members owing 0.
	Splits []Split

	// Timestamp is the Unix timestamp when the expense was recorded.
	Timestamp int64
}

// Split is the amount one member owes for an expense.
type Split struct {
	Member string
	Amount int64
}

// Owed returns what member owes for this expense (0 if absent).
func (e *Expense) Owed(member string) int64 {
	for _, s := range e.Splits {
		if s.Member == member {
			return s.Amount
		}
	}
	return 0
}

// SplitTotal returns the sum of every member's owed amount.
// For even splits this can be less than Amount by up to memberCount-1.
func (e *Expense) SplitTotal() int64 {
	var total int64
	for _, s := range e.Splits {
		total += s.Amount
	}
	return total
}
