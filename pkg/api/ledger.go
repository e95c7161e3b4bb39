package api

import "encoding/json"

type Group struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Creator     string   `json:"creator"`
	Members     []string `json:"members"`
	Active      bool     `json:"active"`
	CreatedAt   int64    `json:"createdAt"`
}

type Split struct {
	Member string `json:"member"`
	Amount int64  `json:"amount"`
}

type Expense struct {
	ID          uint64   `json:"id"`
	GroupID     uint64   `json:"groupId"`
	PaidBy      string   `json:"paidBy"`
	Amount      int64    `json:"amount"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SplitKind   string   `json:"splitKind"`
	Splits      []*Split `json:"splits"`
	Timestamp   int64    `json:"timestamp"`
}

// MemberBalance is positive for creditors and negative for debtors.
type MemberBalance struct {
	Member    string `json:"member"`
	Balance   int64  `json:"balance"`
	TotalPaid int64  `json:"totalPaid"`
	TotalOwed int64  `json:"totalOwed"`
}

// Transfer is one payment that would help clear the group's balances.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type Settlement struct {
	GroupID   uint64 `json:"groupId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
	Count    int    `json:"count"`
}

type Event struct {
	Seq        uint64          `json:"seq"`
	Type       string          `json:"type"`
	GroupID    uint64          `json:"groupId,omitempty"`
	OccurredAt int64           `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupMembersRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetGroupMembersResponse struct {
	Members []string `json:"members"`
}

type IsMemberRequest struct {
	GroupID   uint64 `json:"groupId"`
	Principal string `json:"principal"`
}

type IsMemberResponse struct {
	IsMember bool `json:"isMember"`
}

// GetUserGroupsRequest lists the caller's groups when Principal is empty.
type GetUserGroupsRequest struct {
	Principal string `json:"principal,omitempty"`
}

type GetUserGroupsResponse struct {
	GroupIDs []uint64 `json:"groupIds"`
}

type AddExpenseRequest struct {
	GroupID     uint64 `json:"groupId"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type AddExpenseResponse struct {
	ExpenseID uint64 `json:"expenseId"`
}

// AddUnevenExpenseRequest carries parallel Members and Amounts lists.
type AddUnevenExpenseRequest struct {
	GroupID     uint64   `json:"groupId"`
	Amount      int64    `json:"amount"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Members     []string `json:"members"`
	Amounts     []int64  `json:"amounts"`
}

type AddUnevenExpenseResponse struct {
	ExpenseID uint64 `json:"expenseId"`
}

type GetGroupExpensesRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetGroupExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetGroupExpenseCountRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetGroupExpenseCountResponse struct {
	Count uint64 `json:"count"`
}

type GetGroupBalancesRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
}

type GetSettledBalancesRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetSettledBalancesResponse struct {
	Balances  []*MemberBalance `json:"balances"`
	Transfers []*Transfer      `json:"transfers"`
}

type SettleUpRequest struct {
	GroupID  uint64 `json:"groupId"`
	Creditor string `json:"creditor"`
	Amount   int64  `json:"amount"`
}

type SettleUpResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}

type DepositResponse struct {
	Balance int64 `json:"balance"`
}

// GetWalletRequest reads the caller's wallet when Principal is empty.
type GetWalletRequest struct {
	Principal string `json:"principal,omitempty"`
}

type GetWalletResponse struct {
	Principal string `json:"principal"`
	Balance   int64  `json:"balance"`
}

type ListSettlementsRequest struct {
	GroupID uint64 `json:"groupId"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type GetCategoryTotalsRequest struct {
	GroupID uint64 `json:"groupId"`
}

type GetCategoryTotalsResponse struct {
	Totals []*CategoryTotal `json:"totals"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	GroupCount    uint64 `json:"groupCount"`
	TotalExpenses uint64 `json:"totalExpenses"`
}

type ListEventsRequest struct {
	AfterSeq uint64 `json:"afterSeq,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

// WatchEventsRequest replays events after AfterSeq, then streams new ones.
// A non-zero GroupID restricts the stream to that group.
type WatchEventsRequest struct {
	AfterSeq uint64 `json:"afterSeq,omitempty"`
	GroupID  uint64 `json:"groupId,omitempty"`
}
