package models

// Settlement represents a payment between group members to clear debts.
// Settlements are not ledger rows: they exist as settlement_made events and as
// the wallet movement committed with them.
type Settlement struct {
	// GroupID is the group this settlement belongs to.
	GroupID uint64

	// From is the member who paid (debtor settling up).
	From string

	// To is the member who received payment (creditor being paid).
	To string

	// Amount is the value transferred, in the smallest unit.
	Amount int64

	// Timestamp is the Unix timestamp when the settlement was made.
	Timestamp int64
}
