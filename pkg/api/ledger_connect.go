package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitchain.v1.LedgerService"

// Procedure paths, "/" + service + "/" + method.
const (
	LedgerServiceCreateGroupProcedure          = "/" + LedgerServiceName + "/CreateGroup"
	LedgerServiceGetGroupProcedure             = "/" + LedgerServiceName + "/GetGroup"
	LedgerServiceGetGroupMembersProcedure      = "/" + LedgerServiceName + "/GetGroupMembers"
	LedgerServiceIsMemberProcedure             = "/" + LedgerServiceName + "/IsMember"
	LedgerServiceGetUserGroupsProcedure        = "/" + LedgerServiceName + "/GetUserGroups"
	LedgerServiceAddExpenseProcedure           = "/" + LedgerServiceName + "/AddExpense"
	LedgerServiceAddUnevenExpenseProcedure     = "/" + LedgerServiceName + "/AddUnevenExpense"
	LedgerServiceGetGroupExpensesProcedure     = "/" + LedgerServiceName + "/GetGroupExpenses"
	LedgerServiceGetGroupExpenseCountProcedure = "/" + LedgerServiceName + "/GetGroupExpenseCount"
	LedgerServiceGetGroupBalancesProcedure     = "/" + LedgerServiceName + "/GetGroupBalances"
	LedgerServiceGetSettledBalancesProcedure   = "/" + LedgerServiceName + "/GetSettledBalances"
	LedgerServiceSettleUpProcedure             = "/" + LedgerServiceName + "/SettleUp"
	LedgerServiceDepositProcedure              = "/" + LedgerServiceName + "/Deposit"
	LedgerServiceGetWalletProcedure            = "/" + LedgerServiceName + "/GetWallet"
	LedgerServiceListSettlementsProcedure      = "/" + LedgerServiceName + "/ListSettlements"
	LedgerServiceGetCategoryTotalsProcedure    = "/" + LedgerServiceName + "/GetCategoryTotals"
	LedgerServiceGetStatsProcedure             = "/" + LedgerServiceName + "/GetStats"
	LedgerServiceListEventsProcedure           = "/" + LedgerServiceName + "/ListEvents"
	LedgerServiceWatchEventsProcedure          = "/" + LedgerServiceName + "/WatchEvents"
)

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	GetGroupMembers(context.Context, *connect.Request[GetGroupMembersRequest]) (*connect.Response[GetGroupMembersResponse], error)
	IsMember(context.Context, *connect.Request[IsMemberRequest]) (*connect.Response[IsMemberResponse], error)
	GetUserGroups(context.Context, *connect.Request[GetUserGroupsRequest]) (*connect.Response[GetUserGroupsResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	AddUnevenExpense(context.Context, *connect.Request[AddUnevenExpenseRequest]) (*connect.Response[AddUnevenExpenseResponse], error)
	GetGroupExpenses(context.Context, *connect.Request[GetGroupExpensesRequest]) (*connect.Response[GetGroupExpensesResponse], error)
	GetGroupExpenseCount(context.Context, *connect.Request[GetGroupExpenseCountRequest]) (*connect.Response[GetGroupExpenseCountResponse], error)
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
	GetSettledBalances(context.Context, *connect.Request[GetSettledBalancesRequest]) (*connect.Response[GetSettledBalancesResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
	Deposit(context.Context, *connect.Request[DepositRequest]) (*connect.Response[DepositResponse], error)
	GetWallet(context.Context, *connect.Request[GetWalletRequest]) (*connect.Response[GetWalletResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	GetCategoryTotals(context.Context, *connect.Request[GetCategoryTotalsRequest]) (*connect.Response[GetCategoryTotalsResponse], error)
	GetStats(context.Context, *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	WatchEvents(context.Context, *connect.Request[WatchEventsRequest], *connect.ServerStream[Event]) error
}

// NewLedgerServiceHandler builds an HTTP handler for every LedgerService procedure. It
// returns the path to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		LedgerServiceCreateGroupProcedure:          connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		LedgerServiceGetGroupProcedure:             connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, opts...),
		LedgerServiceGetGroupMembersProcedure:      connect.NewUnaryHandler(LedgerServiceGetGroupMembersProcedure, svc.GetGroupMembers, opts...),
		LedgerServiceIsMemberProcedure:             connect.NewUnaryHandler(LedgerServiceIsMemberProcedure, svc.IsMember, opts...),
		LedgerServiceGetUserGroupsProcedure:        connect.NewUnaryHandler(LedgerServiceGetUserGroupsProcedure, svc.GetUserGroups, opts...),
		LedgerServiceAddExpenseProcedure:           connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceAddUnevenExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceAddUnevenExpenseProcedure, svc.AddUnevenExpense, opts...),
		LedgerServiceGetGroupExpensesProcedure:     connect.NewUnaryHandler(LedgerServiceGetGroupExpensesProcedure, svc.GetGroupExpenses, opts...),
		LedgerServiceGetGroupExpenseCountProcedure: connect.NewUnaryHandler(LedgerServiceGetGroupExpenseCountProcedure, svc.GetGroupExpenseCount, opts...),
		LedgerServiceGetGroupBalancesProcedure:     connect.NewUnaryHandler(LedgerServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...),
		LedgerServiceGetSettledBalancesProcedure:   connect.NewUnaryHandler(LedgerServiceGetSettledBalancesProcedure, svc.GetSettledBalances, opts...),
		LedgerServiceSettleUpProcedure:             connect.NewUnaryHandler(LedgerServiceSettleUpProcedure, svc.SettleUp, opts...),
		LedgerServiceDepositProcedure:              connect.NewUnaryHandler(LedgerServiceDepositProcedure, svc.Deposit, opts...),
		LedgerServiceGetWalletProcedure:            connect.NewUnaryHandler(LedgerServiceGetWalletProcedure, svc.GetWallet, opts...),
		LedgerServiceListSettlementsProcedure:      connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		LedgerServiceGetCategoryTotalsProcedure:    connect.NewUnaryHandler(LedgerServiceGetCategoryTotalsProcedure, svc.GetCategoryTotals, opts...),
		LedgerServiceGetStatsProcedure:             connect.NewUnaryHandler(LedgerServiceGetStatsProcedure, svc.GetStats, opts...),
		LedgerServiceListEventsProcedure:           connect.NewUnaryHandler(LedgerServiceListEventsProcedure, svc.ListEvents, opts...),
		LedgerServiceWatchEventsProcedure:          connect.NewServerStreamHandler(LedgerServiceWatchEventsProcedure, svc.WatchEvents, opts...),
	}
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// LedgerServiceClient is a client for LedgerService.
type LedgerServiceClient interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	GetGroupMembers(context.Context, *connect.Request[GetGroupMembersRequest]) (*connect.Response[GetGroupMembersResponse], error)
	IsMember(context.Context, *connect.Request[IsMemberRequest]) (*connect.Response[IsMemberResponse], error)
	GetUserGroups(context.Context, *connect.Request[GetUserGroupsRequest]) (*connect.Response[GetUserGroupsResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	AddUnevenExpense(context.Context, *connect.Request[AddUnevenExpenseRequest]) (*connect.Response[AddUnevenExpenseResponse], error)
	GetGroupExpenses(context.Context, *connect.Request[GetGroupExpensesRequest]) (*connect.Response[GetGroupExpensesResponse], error)
	GetGroupExpenseCount(context.Context, *connect.Request[GetGroupExpenseCountRequest]) (*connect.Response[GetGroupExpenseCountResponse], error)
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
	GetSettledBalances(context.Context, *connect.Request[GetSettledBalancesRequest]) (*connect.Response[GetSettledBalancesResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
	Deposit(context.Context, *connect.Request[DepositRequest]) (*connect.Response[DepositResponse], error)
	GetWallet(context.Context, *connect.Request[GetWalletRequest]) (*connect.Response[GetWalletResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	GetCategoryTotals(context.Context, *connect.Request[GetCategoryTotalsRequest]) (*connect.Response[GetCategoryTotalsResponse], error)
	GetStats(context.Context, *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	WatchEvents(context.Context, *connect.Request[WatchEventsRequest]) (*connect.ServerStreamForClient[Event], error)
}

// NewLedgerServiceClient constructs a client for LedgerService. baseURL is the server's
// scheme and host, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createGroup:          connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		getGroup:             connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		getGroupMembers:      connect.NewClient[GetGroupMembersRequest, GetGroupMembersResponse](httpClient, baseURL+LedgerServiceGetGroupMembersProcedure, opts...),
		isMember:             connect.NewClient[IsMemberRequest, IsMemberResponse](httpClient, baseURL+LedgerServiceIsMemberProcedure, opts...),
		getUserGroups:        connect.NewClient[GetUserGroupsRequest, GetUserGroupsResponse](httpClient, baseURL+LedgerServiceGetUserGroupsProcedure, opts...),
		addExpense:           connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		addUnevenExpense:     connect.NewClient[AddUnevenExpenseRequest, AddUnevenExpenseResponse](httpClient, baseURL+LedgerServiceAddUnevenExpenseProcedure, opts...),
		getGroupExpenses:     connect.NewClient[GetGroupExpensesRequest, GetGroupExpensesResponse](httpClient, baseURL+LedgerServiceGetGroupExpensesProcedure, opts...),
		getGroupExpenseCount: connect.NewClient[GetGroupExpenseCountRequest, GetGroupExpenseCountResponse](httpClient, baseURL+LedgerServiceGetGroupExpenseCountProcedure, opts...),
		getGroupBalances:     connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+LedgerServiceGetGroupBalancesProcedure, opts...),
		getSettledBalances:   connect.NewClient[GetSettledBalancesRequest, GetSettledBalancesResponse](httpClient, baseURL+LedgerServiceGetSettledBalancesProcedure, opts...),
		settleUp:             connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+LedgerServiceSettleUpProcedure, opts...),
		deposit:              connect.NewClient[DepositRequest, DepositResponse](httpClient, baseURL+LedgerServiceDepositProcedure, opts...),
		getWallet:            connect.NewClient[GetWalletRequest, GetWalletResponse](httpClient, baseURL+LedgerServiceGetWalletProcedure, opts...),
		listSettlements:      connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		getCategoryTotals:    connect.NewClient[GetCategoryTotalsRequest, GetCategoryTotalsResponse](httpClient, baseURL+LedgerServiceGetCategoryTotalsProcedure, opts...),
		getStats:             connect.NewClient[GetStatsRequest, GetStatsResponse](httpClient, baseURL+LedgerServiceGetStatsProcedure, opts...),
		listEvents:           connect.NewClient[ListEventsRequest, ListEventsResponse](httpClient, baseURL+LedgerServiceListEventsProcedure, opts...),
		watchEvents:          connect.NewClient[WatchEventsRequest, Event](httpClient, baseURL+LedgerServiceWatchEventsProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createGroup          *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup             *connect.Client[GetGroupRequest, GetGroupResponse]
	getGroupMembers      *connect.Client[GetGroupMembersRequest, GetGroupMembersResponse]
	isMember             *connect.Client[IsMemberRequest, IsMemberResponse]
	getUserGroups        *connect.Client[GetUserGroupsRequest, GetUserGroupsResponse]
	addExpense           *connect.Client[AddExpenseRequest, AddExpenseResponse]
	addUnevenExpense     *connect.Client[AddUnevenExpenseRequest, AddUnevenExpenseResponse]
	getGroupExpenses     *connect.Client[GetGroupExpensesRequest, GetGroupExpensesResponse]
	getGroupExpenseCount *connect.Client[GetGroupExpenseCountRequest, GetGroupExpenseCountResponse]
	getGroupBalances     *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
	getSettledBalances   *connect.Client[GetSettledBalancesRequest, GetSettledBalancesResponse]
	settleUp             *connect.Client[SettleUpRequest, SettleUpResponse]
	deposit              *connect.Client[DepositRequest, DepositResponse]
	getWallet            *connect.Client[GetWalletRequest, GetWalletResponse]
	listSettlements      *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	getCategoryTotals    *connect.Client[GetCategoryTotalsRequest, GetCategoryTotalsResponse]
	getStats             *connect.Client[GetStatsRequest, GetStatsResponse]
	listEvents           *connect.Client[ListEventsRequest, ListEventsResponse]
	watchEvents          *connect.Client[WatchEventsRequest, Event]
}

func (c *ledgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupMembers(ctx context.Context, req *connect.Request[GetGroupMembersRequest]) (*connect.Response[GetGroupMembersResponse], error) {
	return c.getGroupMembers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) IsMember(ctx context.Context, req *connect.Request[IsMemberRequest]) (*connect.Response[IsMemberResponse], error) {
	return c.isMember.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUserGroups(ctx context.Context, req *connect.Request[GetUserGroupsRequest]) (*connect.Response[GetUserGroupsResponse], error) {
	return c.getUserGroups.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddUnevenExpense(ctx context.Context, req *connect.Request[AddUnevenExpenseRequest]) (*connect.Response[AddUnevenExpenseResponse], error) {
	return c.addUnevenExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupExpenses(ctx context.Context, req *connect.Request[GetGroupExpensesRequest]) (*connect.Response[GetGroupExpensesResponse], error) {
	return c.getGroupExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupExpenseCount(ctx context.Context, req *connect.Request[GetGroupExpenseCountRequest]) (*connect.Response[GetGroupExpenseCountResponse], error) {
	return c.getGroupExpenseCount.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettledBalances(ctx context.Context, req *connect.Request[GetSettledBalancesRequest]) (*connect.Response[GetSettledBalancesResponse], error) {
	return c.getSettledBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) Deposit(ctx context.Context, req *connect.Request[DepositRequest]) (*connect.Response[DepositResponse], error) {
	return c.deposit.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetWallet(ctx context.Context, req *connect.Request[GetWalletRequest]) (*connect.Response[GetWalletResponse], error) {
	return c.getWallet.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetCategoryTotals(ctx context.Context, req *connect.Request[GetCategoryTotalsRequest]) (*connect.Response[GetCategoryTotalsResponse], error) {
	return c.getCategoryTotals.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetStats(ctx context.Context, req *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error) {
	return c.getStats.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) WatchEvents(ctx context.Context, req *connect.Request[WatchEventsRequest]) (*connect.ServerStreamForClient[Event], error) {
	return c.watchEvents.CallServerStream(ctx, req)
}
