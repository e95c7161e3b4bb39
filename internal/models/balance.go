package models

// MemberBalance is one member's signed position within a group.
type MemberBalance struct {
	// Member is the principal this balance belongs to.
	Member string

	// Balance is TotalPaid - TotalOwed. Positive = owed money, negative = owes money.
	Balance int64

	// TotalPaid is the sum of the amounts of every expense this member paid.
	TotalPaid int64

	// TotalOwed is the sum of this member's splits across every expense.
	TotalOwed int64
}

// CategoryTotal is the total spent in one expense category of a group.
type CategoryTotal struct {
	Category string
	Total    int64
	Count    int
}
