package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/ledger"
	"github.com/mmynk/splitchain/internal/middleware"
	"github.com/mmynk/splitchain/pkg/api"
)

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService exposes the ledger over Connect. Every call acts as the
// principal the auth interceptor put in the context.
type LedgerService struct {
	ledger *ledger.Ledger
	events Subscriber
	logger *slog.Logger
}

// NewLedgerService creates the service. events may be nil, in which case
// WatchEvents is unavailable.
func NewLedgerService(l *ledger.Ledger, events Subscriber, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		ledger: l,
		events: events,
		logger: logger,
	}
}

// fail logs a rejected call and converts err for the wire.
func (s *LedgerService) fail(ctx context.Context, op string, err error, attrs ...any) error {
	attrs = append(attrs, "error", err)
	if apperrors.GetCode(err) == apperrors.CodeUnknown {
		s.logger.ErrorContext(ctx, op+" failed", attrs...)
	} else {
		s.logger.WarnContext(ctx, op+" rejected", attrs...)
	}
	return apperrors.HandleError(err)
}

func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	caller := middleware.GetPrincipal(ctx)
	s.logger.InfoContext(ctx, "CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	id, err := s.ledger.CreateGroup(ctx, caller, req.Msg.Name, req.Msg.Description, req.Msg.Members)
	if err != nil {
		return nil, s.fail(ctx, "CreateGroup", err, "name", req.Msg.Name)
	}
	group, err := s.ledger.GetGroup(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "CreateGroup", err, "group_id", id)
	}

	s.logger.InfoContext(ctx, "Group created", "group_id", id, "members", len(group.Members))
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, err := s.ledger.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroup", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

func (s *LedgerService) GetGroupMembers(ctx context.Context, req *connect.Request[api.GetGroupMembersRequest]) (*connect.Response[api.GetGroupMembersResponse], error) {
	members, err := s.ledger.GetGroupMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroupMembers", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupMembersResponse{Members: members}), nil
}

func (s *LedgerService) IsMember(ctx context.Context, req *connect.Request[api.IsMemberRequest]) (*connect.Response[api.IsMemberResponse], error) {
	ok, err := s.ledger.IsMember(ctx, req.Msg.GroupID, req.Msg.Principal)
	if err != nil {
		return nil, s.fail(ctx, "IsMember", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.IsMemberResponse{IsMember: ok}), nil
}

func (s *LedgerService) GetUserGroups(ctx context.Context, req *connect.Request[api.GetUserGroupsRequest]) (*connect.Response[api.GetUserGroupsResponse], error) {
	principal := lo.Ternary(req.Msg.Principal != "", req.Msg.Principal, middleware.GetPrincipal(ctx))

	ids, err := s.ledger.GetUserGroups(ctx, principal)
	if err != nil {
		return nil, s.fail(ctx, "GetUserGroups", err, "principal", principal)
	}
	return connect.NewResponse(&api.GetUserGroupsResponse{GroupIDs: ids}), nil
}

func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	caller := middleware.GetPrincipal(ctx)
	s.logger.InfoContext(ctx, "AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"category", req.Msg.Category,
	)

	id, err := s.ledger.AddExpense(ctx, caller, req.Msg.GroupID, req.Msg.Amount, req.Msg.Description, req.Msg.Category)
	if err != nil {
		return nil, s.fail(ctx, "AddExpense", err, "group_id", req.Msg.GroupID)
	}

	s.logger.InfoContext(ctx, "Expense added", "group_id", req.Msg.GroupID, "expense_id", id)
	return connect.NewResponse(&api.AddExpenseResponse{ExpenseID: id}), nil
}

func (s *LedgerService) AddUnevenExpense(ctx context.Context, req *connect.Request[api.AddUnevenExpenseRequest]) (*connect.Response[api.AddUnevenExpenseResponse], error) {
	caller := middleware.GetPrincipal(ctx)
	s.logger.InfoContext(ctx, "AddUnevenExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"splits", len(req.Msg.Members),
	)

	id, err := s.ledger.AddUnevenExpense(ctx, caller, req.Msg.GroupID, req.Msg.Amount,
		req.Msg.Description, req.Msg.Category, req.Msg.Members, req.Msg.Amounts)
	if err != nil {
		return nil, s.fail(ctx, "AddUnevenExpense", err, "group_id", req.Msg.GroupID)
	}

	s.logger.InfoContext(ctx, "Expense added", "group_id", req.Msg.GroupID, "expense_id", id)
	return connect.NewResponse(&api.AddUnevenExpenseResponse{ExpenseID: id}), nil
}

func (s *LedgerService) GetGroupExpenses(ctx context.Context, req *connect.Request[api.GetGroupExpensesRequest]) (*connect.Response[api.GetGroupExpensesResponse], error) {
	expenses, err := s.ledger.GetGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroupExpenses", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupExpensesResponse{
		Expenses: lo.Map(expenses, toAPIExpense),
	}), nil
}

func (s *LedgerService) GetGroupExpenseCount(ctx context.Context, req *connect.Request[api.GetGroupExpenseCountRequest]) (*connect.Response[api.GetGroupExpenseCountResponse], error) {
	count, err := s.ledger.GetGroupExpenseCount(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroupExpenseCount", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupExpenseCountResponse{Count: count}), nil
}

func (s *LedgerService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	balances, err := s.ledger.GetGroupBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroupBalances", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances: lo.Map(balances, toAPIBalance),
	}), nil
}

func (s *LedgerService) GetSettledBalances(ctx context.Context, req *connect.Request[api.GetSettledBalancesRequest]) (*connect.Response[api.GetSettledBalancesResponse], error) {
	balances, debts, err := s.ledger.GetSettledBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetSettledBalances", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetSettledBalancesResponse{
		Balances:  lo.Map(balances, toAPIBalance),
		Transfers: lo.Map(debts, toAPITransfer),
	}), nil
}

func (s *LedgerService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	caller := middleware.GetPrincipal(ctx)
	s.logger.InfoContext(ctx, "SettleUp request received",
		"group_id", req.Msg.GroupID,
		"creditor", req.Msg.Creditor,
		"amount", req.Msg.Amount,
	)

	settlement, err := s.ledger.SettleUp(ctx, caller, req.Msg.GroupID, req.Msg.Creditor, req.Msg.Amount)
	if err != nil {
		return nil, s.fail(ctx, "SettleUp", err, "group_id", req.Msg.GroupID, "creditor", req.Msg.Creditor)
	}

	s.logger.InfoContext(ctx, "Settlement made",
		"group_id", settlement.GroupID,
		"from", settlement.From,
		"to", settlement.To,
		"amount", settlement.Amount,
	)
	return connect.NewResponse(&api.SettleUpResponse{Settlement: toAPISettlement(settlement, 0)}), nil
}

func (s *LedgerService) Deposit(ctx context.Context, req *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error) {
	caller := middleware.GetPrincipal(ctx)

	balance, err := s.ledger.Deposit(ctx, caller, req.Msg.Amount)
	if err != nil {
		return nil, s.fail(ctx, "Deposit", err, "amount", req.Msg.Amount)
	}

	s.logger.InfoContext(ctx, "Wallet funded", "amount", req.Msg.Amount, "balance", balance)
	return connect.NewResponse(&api.DepositResponse{Balance: balance}), nil
}

func (s *LedgerService) GetWallet(ctx context.Context, req *connect.Request[api.GetWalletRequest]) (*connect.Response[api.GetWalletResponse], error) {
	principal := lo.Ternary(req.Msg.Principal != "", req.Msg.Principal, middleware.GetPrincipal(ctx))

	balance, err := s.ledger.WalletBalance(ctx, principal)
	if err != nil {
		return nil, s.fail(ctx, "GetWallet", err, "principal", principal)
	}
	return connect.NewResponse(&api.GetWalletResponse{Principal: principal, Balance: balance}), nil
}

func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	settlements, err := s.ledger.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "ListSettlements", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{
		Settlements: lo.Map(settlements, toAPISettlement),
	}), nil
}

func (s *LedgerService) GetCategoryTotals(ctx context.Context, req *connect.Request[api.GetCategoryTotalsRequest]) (*connect.Response[api.GetCategoryTotalsResponse], error) {
	totals, err := s.ledger.CategoryTotals(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(ctx, "GetCategoryTotals", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetCategoryTotalsResponse{
		Totals: lo.Map(totals, toAPICategoryTotal),
	}), nil
}

func (s *LedgerService) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	groups, err := s.ledger.GroupCount(ctx)
	if err != nil {
		return nil, s.fail(ctx, "GetStats", err)
	}
	expenses, err := s.ledger.TotalExpenses(ctx)
	if err != nil {
		return nil, s.fail(ctx, "GetStats", err)
	}
	return connect.NewResponse(&api.GetStatsResponse{
		GroupCount:    groups,
		TotalExpenses: expenses,
	}), nil
}

// ListEvents pages through the event log.
func (s *LedgerService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, s.fail(ctx, "ListEvents", apperrors.InvalidInput("limit cannot be negative"))
	}
	limit := lo.Ternary(req.Msg.Limit == 0 || req.Msg.Limit > maxEventPage, maxEventPage, req.Msg.Limit)

	events, err := s.ledger.ListEvents(ctx, req.Msg.AfterSeq, limit)
	if err != nil {
		return nil, s.fail(ctx, "ListEvents", err, "after_seq", req.Msg.AfterSeq)
	}
	return connect.NewResponse(&api.ListEventsResponse{
		Events: lo.Map(events, toAPIEvent),
	}), nil
}
