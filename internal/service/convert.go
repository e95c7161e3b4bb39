package service

import (
	"github.com/samber/lo"

	"github.com/mmynk/splitchain/internal/calculator"
	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/pkg/api"
)

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Creator:     g.Creator,
		Members:     g.Members,
		Active:      g.Active,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIExpense(e models.Expense, _ int) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		SplitKind:   string(e.Kind),
		Splits: lo.Map(e.Splits, func(s models.Split, _ int) *api.Split {
			return &api.Split{Member: s.Member, Amount: s.Amount}
		}),
		Timestamp: e.Timestamp,
	}
}

func toAPIBalance(b models.MemberBalance, _ int) *api.MemberBalance {
	return &api.MemberBalance{
		Member:    b.Member,
		Balance:   b.Balance,
		TotalPaid: b.TotalPaid,
		TotalOwed: b.TotalOwed,
	}
}

func toAPITransfer(d calculator.DebtEdge, _ int) *api.Transfer {
	return &api.Transfer{From: d.From, To: d.To, Amount: d.Amount}
}

func toAPISettlement(s models.Settlement, _ int) *api.Settlement {
	return &api.Settlement{
		GroupID:   s.GroupID,
		From:      s.From,
		To:        s.To,
		Amount:    s.Amount,
		Timestamp: s.Timestamp,
	}
}

func toAPICategoryTotal(c models.CategoryTotal, _ int) *api.CategoryTotal {
	return &api.CategoryTotal{Category: c.Category, Total: c.Total, Count: c.Count}
}

func toAPIEvent(e models.Event, _ int) *api.Event {
	return &api.Event{
		Seq:        e.Seq,
		Type:       string(e.Type),
		GroupID:    e.GroupID,
		OccurredAt: e.OccurredAt,
		Payload:    e.Payload,
	}
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
