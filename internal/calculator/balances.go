package calculator

import (
	"sort"

	"github.com/mmynk/splitchain/internal/models"
)

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount int64
}

// CalculateGroupBalances computes one balance per member, in member order.
//
// Algorithm (single pass over the expenses):
// - payer: TotalPaid += expense amount
// - each split entry: TotalOwed += owed amount
// - Balance = TotalPaid - TotalOwed
//
// Settlements are not part of this computation; see ApplySettlements.
func CalculateGroupBalances(members []string, expenses []models.Expense) []models.MemberBalance {
	index := make(map[string]int, len(members))
	balances := make([]models.MemberBalance, len(members))
	for i, m := range members {
		index[m] = i
		balances[i] = models.MemberBalance{Member: m}
	}

	for _, e := range expenses {
		if i, ok := index[e.PaidBy]; ok {
			balances[i].TotalPaid += e.Amount
		}
		for _, s := range e.Splits {
			if i, ok := index[s.Member]; ok {
				balances[i].TotalOwed += s.Amount
			}
		}
	}

	for i := range balances {
		balances[i].Balance = balances[i].TotalPaid - balances[i].TotalOwed
	}
	return balances
}

// ApplySettlements folds settlement events into expense balances, producing the
// "net of settlements" view: the payer's balance improves by the amount and the
// receiver's balance decreases by it. The input slice is not modified.
func ApplySettlements(balances []models.MemberBalance, settlements []models.Settlement) []models.MemberBalance {
	out := make([]models.MemberBalance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.Member] = i
	}

	for _, s := range settlements {
		if i, ok := index[s.From]; ok {
			out[i].TotalPaid += s.Amount
		}
		if i, ok := index[s.To]; ok {
			out[i].TotalOwed += s.Amount
		}
	}

	for i := range out {
		out[i].Balance = out[i].TotalPaid - out[i].TotalOwed
	}
	return out
}

// SimplifyDebts turns net balances into a short list of direct transfers.
// Greedy algorithm: match largest debts with largest credits. Ties are broken by
// member ID so the result is deterministic.
func SimplifyDebts(balances []models.MemberBalance) []DebtEdge {
	type position struct {
		member string
		amount int64
	}

	var creditors, debtors []position
	for _, b := range balances {
		if b.Balance > 0 {
			creditors = append(creditors, position{b.Member, b.Balance})
		} else if b.Balance < 0 {
			debtors = append(debtors, position{b.Member, -b.Balance})
		}
	}

	byAmount := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].amount != p[j].amount {
				return p[i].amount > p[j].amount
			}
			return p[i].member < p[j].member
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount > 0 {
			edges = append(edges, DebtEdge{
				From:   debtors[i].member,
				To:     creditors[j].member,
				Amount: amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}
	return edges
}

// CategoryTotals sums expense amounts per category, largest first.
func CategoryTotals(expenses []models.Expense) []models.CategoryTotal {
	totals := make(map[string]*models.CategoryTotal)
	for _, e := range expenses {
		ct, ok := totals[e.Category]
		if !ok {
			ct = &models.CategoryTotal{Category: e.Category}
			totals[e.Category] = ct
		}
		ct.Total += e.Amount
		ct.Count++
	}

	out := make([]models.CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}
