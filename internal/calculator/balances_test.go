package calculator

import (
	"reflect"
	"testing"

	"github.com/mmynk/splitchain/internal/models"
)

func evenExpense(t *testing.T, paidBy string, amount int64, members []string) models.Expense {
	t.Helper()
	splits, err := EvenSplit(amount, members)
	if err != nil {
		t.Fatalf("EvenSplit failed: %v", err)
	}
	return models.Expense{PaidBy: paidBy, Amount: amount, Kind: models.SplitEven, Splits: splits}
}

func sumBalances(balances []models.MemberBalance) int64 {
	var sum int64
	for _, b := range balances {
		sum += b.Balance
	}
	return sum
}

func TestCalculateGroupBalances(t *testing.T) {
	members := []string{"alice", "bob", "carol"}

	t.Run("single even expense", func(t *testing.T) {
		// alice pays 300, split 3 ways: alice +200, bob -100, carol -100
		balances := CalculateGroupBalances(members, []models.Expense{evenExpense(t, "alice", 300, members)})

		want := []int64{200, -100, -100}
		for i, b := range balances {
			if b.Member != members[i] {
				t.Errorf("balances[%d].Member = %s, want %s", i, b.Member, members[i])
			}
			if b.Balance != want[i] {
				t.Errorf("%s balance = %d, want %d", b.Member, b.Balance, want[i])
			}
		}
		if sumBalances(balances) != 0 {
			t.Errorf("sum of balances = %d, want 0", sumBalances(balances))
		}
		if balances[0].TotalPaid != 300 || balances[0].TotalOwed != 100 {
			t.Errorf("alice paid/owed = %d/%d, want 300/100", balances[0].TotalPaid, balances[0].TotalOwed)
		}
	})

	t.Run("everyone paid equally", func(t *testing.T) {
		expenses := []models.Expense{
			evenExpense(t, "alice", 300, members),
			evenExpense(t, "bob", 300, members),
			evenExpense(t, "carol", 300, members),
		}
		for _, b := range CalculateGroupBalances(members, expenses) {
			if b.Balance != 0 {
				t.Errorf("%s balance = %d, want 0", b.Member, b.Balance)
			}
		}
	})

	t.Run("remainder is absorbed by the payer", func(t *testing.T) {
		// 100 / 3 = 33: alice +67, bob -33, carol -33, ledger sums to the remainder
		balances := CalculateGroupBalances(members, []models.Expense{evenExpense(t, "alice", 100, members)})
		if balances[0].Balance != 67 {
			t.Errorf("alice balance = %d, want 67", balances[0].Balance)
		}
		if got := sumBalances(balances); got != Remainder(100, len(members)) {
			t.Errorf("sum of balances = %d, want %d", got, Remainder(100, len(members)))
		}
	})

	t.Run("uneven expense nets to zero", func(t *testing.T) {
		splits, err := UnevenSplit(100, members, members, []int64{10, 60, 30})
		if err != nil {
			t.Fatalf("UnevenSplit failed: %v", err)
		}
		balances := CalculateGroupBalances(members, []models.Expense{
			{PaidBy: "bob", Amount: 100, Kind: models.SplitUneven, Splits: splits},
		})
		want := []int64{-10, 40, -30}
		for i, b := range balances {
			if b.Balance != want[i] {
				t.Errorf("%s balance = %d, want %d", b.Member, b.Balance, want[i])
			}
		}
	})

	t.Run("no expenses", func(t *testing.T) {
		balances := CalculateGroupBalances(members, nil)
		if len(balances) != 3 {
			t.Fatalf("balances = %d, want 3", len(balances))
		}
		for _, b := range balances {
			if b.Balance != 0 {
				t.Errorf("%s balance = %d, want 0", b.Member, b.Balance)
			}
		}
	})
}

func TestApplySettlements(t *testing.T) {
	members := []string{"alice", "bob", "carol"}
	balances := CalculateGroupBalances(members, []models.Expense{evenExpense(t, "alice", 300, members)})

	settled := ApplySettlements(balances, []models.Settlement{
		{From: "bob", To: "alice", Amount: 100},
	})

	want := []int64{100, 0, -100}
	for i, b := range settled {
		if b.Balance != want[i] {
			t.Errorf("%s net balance = %d, want %d", b.Member, b.Balance, want[i])
		}
	}
	// input untouched
	if balances[1].Balance != -100 {
		t.Errorf("ApplySettlements mutated its input: bob = %d", balances[1].Balance)
	}
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.MemberBalance
		want     []DebtEdge
	}{
		{
			name: "one creditor, two debtors",
			balances: []models.MemberBalance{
				{Member: "alice", Balance: 200},
				{Member: "bob", Balance: -100},
				{Member: "carol", Balance: -100},
			},
			want: []DebtEdge{
				{From: "bob", To: "alice", Amount: 100},
				{From: "carol", To: "alice", Amount: 100},
			},
		},
		{
			name: "largest debt matched first",
			balances: []models.MemberBalance{
				{Member: "alice", Balance: 50},
				{Member: "bob", Balance: 100},
				{Member: "carol", Balance: -150},
			},
			want: []DebtEdge{
				{From: "carol", To: "bob", Amount: 100},
				{From: "carol", To: "alice", Amount: 50},
			},
		},
		{
			name: "all settled",
			balances: []models.MemberBalance{
				{Member: "alice", Balance: 0},
				{Member: "bob", Balance: 0},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimplifyDebts(tt.balances)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SimplifyDebts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 100, Category: "Food"},
		{Amount: 500, Category: "Accommodation"},
		{Amount: 50, Category: "Food"},
		{Amount: 150, Category: "Transport"},
	}

	got := CategoryTotals(expenses)
	want := []models.CategoryTotal{
		{Category: "Accommodation", Total: 500, Count: 1},
		{Category: "Food", Total: 150, Count: 2},
		{Category: "Transport", Total: 150, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryTotals() = %+v, want %+v", got, want)
	}
}
