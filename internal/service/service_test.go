package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitchain/internal/auth"
	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/events"
	"github.com/mmynk/splitchain/internal/ledger"
	"github.com/mmynk/splitchain/internal/middleware"
	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage/sqlite"
	"github.com/mmynk/splitchain/pkg/api"
)

type testServer struct {
	ledger api.LedgerServiceClient
	auth   api.AuthServiceClient
	jwt    *auth.JWTManager
}

// setupTestServer serves both services over a temp SQLite database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewBus(events.DefaultBuffer)
	l := ledger.New(store, ledger.WithNotifier(bus))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(
		NewLedgerService(l, bus, logger),
		connect.WithInterceptors(
			middleware.LoggingInterceptor(logger),
			middleware.RequireAuth(jwtManager),
		),
	)
	authPath, authHandler := api.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger),
		connect.WithInterceptors(middleware.LoggingInterceptor(logger)),
	)

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(authPath, authHandler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		ledger: api.NewLedgerServiceClient(server.Client(), server.URL),
		auth:   api.NewAuthServiceClient(server.Client(), server.URL),
		jwt:    jwtManager,
	}
}

func (s *testServer) token(t *testing.T, principal string) string {
	t.Helper()
	token, err := s.jwt.Generate(&models.User{ID: principal, Email: principal + "@example.com"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func as[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("code: expected %v, got %v (%v)", want, got, err)
	}
}

func createGroup(t *testing.T, s *testServer, token string, members ...string) *api.Group {
	t.Helper()
	resp, err := s.ledger.CreateGroup(context.Background(), as(token, &api.CreateGroupRequest{
		Name:    "Roommates",
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func TestRequiresAuth(t *testing.T) {
	s := setupTestServer(t)

	_, err := s.ledger.GetStats(context.Background(), connect.NewRequest(&api.GetStatsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = s.ledger.GetStats(context.Background(), as("not-a-token", &api.GetStatsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestCreateGroup(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	alice := s.token(t, "alice")

	group := createGroup(t, s, alice, "bob", "bob", "", "alice", "carol")

	if group.ID != 1 {
		t.Errorf("id: expected 1, got %d", group.ID)
	}
	if group.Creator != "alice" {
		t.Errorf("creator: expected 'alice', got '%s'", group.Creator)
	}
	want := []string{"alice", "bob", "carol"}
	if len(group.Members) != len(want) {
		t.Fatalf("members: expected %v, got %v", want, group.Members)
	}
	for i := range want {
		if group.Members[i] != want[i] {
			t.Errorf("members[%d]: expected '%s', got '%s'", i, want[i], group.Members[i])
		}
	}
	if !group.Active {
		t.Error("expected group to be active")
	}

	groupsResp, err := s.ledger.GetUserGroups(ctx, as(alice, &api.GetUserGroupsRequest{Principal: "carol"}))
	if err != nil {
		t.Fatalf("GetUserGroups failed: %v", err)
	}
	if len(groupsResp.Msg.GroupIDs) != 1 || groupsResp.Msg.GroupIDs[0] != group.ID {
		t.Errorf("carol's groups: expected [%d], got %v", group.ID, groupsResp.Msg.GroupIDs)
	}

	noneResp, err := s.ledger.GetUserGroups(ctx, as(s.token(t, "dave"), &api.GetUserGroupsRequest{}))
	if err != nil {
		t.Fatalf("GetUserGroups failed: %v", err)
	}
	if len(noneResp.Msg.GroupIDs) != 0 {
		t.Errorf("expected no groups for dave, got %v", noneResp.Msg.GroupIDs)
	}

	memberResp, err := s.ledger.IsMember(ctx, as(alice, &api.IsMemberRequest{GroupID: 99, Principal: "bob"}))
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if memberResp.Msg.IsMember {
		t.Error("expected false for unknown group")
	}

	_, err = s.ledger.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestGetGroupNotFound(t *testing.T) {
	s := setupTestServer(t)
	alice := s.token(t, "alice")
	createGroup(t, s, alice)

	for _, id := range []uint64{0, 2} {
		_, err := s.ledger.GetGroup(context.Background(), as(alice, &api.GetGroupRequest{GroupID: id}))
		expectCode(t, err, connect.CodeNotFound)

		code, metadata := apperrors.FromConnect(err)
		if code != apperrors.CodeNotFound {
			t.Errorf("domain code: expected NOT_FOUND, got %s", code)
		}
		if metadata["group_id"] == "" {
			t.Errorf("expected group_id metadata, got %v", metadata)
		}
	}
}

func TestExpenses(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	alice := s.token(t, "alice")
	group := createGroup(t, s, alice, "bob", "carol")

	addResp, err := s.ledger.AddExpense(ctx, as(alice, &api.AddExpenseRequest{
		GroupID:     group.ID,
		Amount:      300,
		Description: "Dinner",
		Category:    "food",
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if addResp.Msg.ExpenseID != 0 {
		t.Errorf("expense id: expected 0, got %d", addResp.Msg.ExpenseID)
	}

	_, err = s.ledger.AddExpense(ctx, as(s.token(t, "mallory"), &api.AddExpenseRequest{
		GroupID: group.ID, Amount: 10, Description: "Sneaky", Category: "misc",
	}))
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = s.ledger.AddUnevenExpense(ctx, as(alice, &api.AddUnevenExpenseRequest{
		GroupID:     group.ID,
		Amount:      100,
		Description: "Hotel",
		Category:    "lodging",
		Members:     []string{"alice", "bob", "carol"},
		Amounts:     []int64{30, 30, 30},
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	unevenResp, err := s.ledger.AddUnevenExpense(ctx, as(s.token(t, "bob"), &api.AddUnevenExpenseRequest{
		GroupID:     group.ID,
		Amount:      100,
		Description: "Hotel",
		Category:    "lodging",
		Members:     []string{"alice", "bob", "carol"},
		Amounts:     []int64{0, 50, 50},
	}))
	if err != nil {
		t.Fatalf("AddUnevenExpense failed: %v", err)
	}
	if unevenResp.Msg.ExpenseID != 1 {
		t.Errorf("expense id: expected 1, got %d", unevenResp.Msg.ExpenseID)
	}

	countResp, err := s.ledger.GetGroupExpenseCount(ctx, as(alice, &api.GetGroupExpenseCountRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupExpenseCount failed: %v", err)
	}
	if countResp.Msg.Count != 2 {
		t.Errorf("count: expected 2, got %d", countResp.Msg.Count)
	}

	expensesResp, err := s.ledger.GetGroupExpenses(ctx, as(alice, &api.GetGroupExpensesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupExpenses failed: %v", err)
	}
	if len(expensesResp.Msg.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expensesResp.Msg.Expenses))
	}
	if expensesResp.Msg.Expenses[1].SplitKind != "uneven" {
		t.Errorf("split kind: expected 'uneven', got '%s'", expensesResp.Msg.Expenses[1].SplitKind)
	}

	balancesResp, err := s.ledger.GetGroupBalances(ctx, as(alice, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	expected := map[string]int64{"alice": 200, "bob": -50, "carol": -150}
	for _, b := range balancesResp.Msg.Balances {
		if b.Balance != expected[b.Member] {
			t.Errorf("%s balance: expected %d, got %d", b.Member, expected[b.Member], b.Balance)
		}
	}

	totalsResp, err := s.ledger.GetCategoryTotals(ctx, as(alice, &api.GetCategoryTotalsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetCategoryTotals failed: %v", err)
	}
	if len(totalsResp.Msg.Totals) != 2 || totalsResp.Msg.Totals[0].Category != "food" {
		t.Errorf("unexpected category totals: %+v", totalsResp.Msg.Totals)
	}

	statsResp, err := s.ledger.GetStats(ctx, as(alice, &api.GetStatsRequest{}))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if statsResp.Msg.GroupCount != 1 || statsResp.Msg.TotalExpenses != 2 {
		t.Errorf("stats: expected 1 group and 2 expenses, got %+v", statsResp.Msg)
	}
}

func TestSettleUp(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	alice := s.token(t, "alice")
	bob := s.token(t, "bob")
	group := createGroup(t, s, alice, "bob")

	if _, err := s.ledger.AddExpense(ctx, as(alice, &api.AddExpenseRequest{
		GroupID: group.ID, Amount: 100, Description: "Groceries", Category: "food",
	})); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	_, err := s.ledger.SettleUp(ctx, as(bob, &api.SettleUpRequest{GroupID: group.ID, Creditor: "alice", Amount: 50}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = s.ledger.SettleUp(ctx, as(bob, &api.SettleUpRequest{GroupID: group.ID, Creditor: "bob", Amount: 50}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = s.ledger.SettleUp(ctx, as(bob, &api.SettleUpRequest{GroupID: group.ID, Creditor: "alice", Amount: 0}))
	expectCode(t, err, connect.CodeInvalidArgument)

	depositResp, err := s.ledger.Deposit(ctx, as(bob, &api.DepositRequest{Amount: 80}))
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if depositResp.Msg.Balance != 80 {
		t.Errorf("wallet: expected 80, got %d", depositResp.Msg.Balance)
	}

	settleResp, err := s.ledger.SettleUp(ctx, as(bob, &api.SettleUpRequest{GroupID: group.ID, Creditor: "alice", Amount: 50}))
	if err != nil {
		t.Fatalf("SettleUp failed: %v", err)
	}
	if settleResp.Msg.Settlement.From != "bob" || settleResp.Msg.Settlement.To != "alice" {
		t.Errorf("unexpected settlement: %+v", settleResp.Msg.Settlement)
	}

	walletResp, err := s.ledger.GetWallet(ctx, as(bob, &api.GetWalletRequest{Principal: "alice"}))
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if walletResp.Msg.Balance != 50 {
		t.Errorf("alice wallet: expected 50, got %d", walletResp.Msg.Balance)
	}

	// Plain balances ignore settlements; the settled view folds them in.
	balancesResp, err := s.ledger.GetGroupBalances(ctx, as(bob, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	if balancesResp.Msg.Balances[1].Balance != -50 {
		t.Errorf("bob balance: expected -50, got %d", balancesResp.Msg.Balances[1].Balance)
	}

	settledResp, err := s.ledger.GetSettledBalances(ctx, as(bob, &api.GetSettledBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettledBalances failed: %v", err)
	}
	for _, b := range settledResp.Msg.Balances {
		if b.Balance != 0 {
			t.Errorf("%s settled balance: expected 0, got %d", b.Member, b.Balance)
		}
	}
	if len(settledResp.Msg.Transfers) != 0 {
		t.Errorf("expected no transfers, got %+v", settledResp.Msg.Transfers)
	}

	listResp, err := s.ledger.ListSettlements(ctx, as(alice, &api.ListSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(listResp.Msg.Settlements) != 1 || listResp.Msg.Settlements[0].Amount != 50 {
		t.Errorf("unexpected settlements: %+v", listResp.Msg.Settlements)
	}
}

func TestListEvents(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	alice := s.token(t, "alice")
	createGroup(t, s, alice)
	createGroup(t, s, alice)

	resp, err := s.ledger.ListEvents(ctx, as(alice, &api.ListEventsRequest{AfterSeq: 1}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(resp.Msg.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(resp.Msg.Events))
	}
	if resp.Msg.Events[0].Seq != 2 || resp.Msg.Events[0].Type != string(models.EventGroupCreated) {
		t.Errorf("unexpected event: %+v", resp.Msg.Events[0])
	}

	_, err = s.ledger.ListEvents(ctx, as(alice, &api.ListEventsRequest{Limit: -1}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestWatchEvents(t *testing.T) {
	s := setupTestServer(t)
	alice := s.token(t, "alice")
	group := createGroup(t, s, alice, "bob")
	createGroup(t, s, alice) // another group, filtered out

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := s.ledger.WatchEvents(ctx, as(alice, &api.WatchEventsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("WatchEvents failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("expected replayed event: %v", stream.Err())
	}
	if got := stream.Msg(); got.Seq != 1 || got.Type != string(models.EventGroupCreated) {
		t.Errorf("replayed event: expected seq 1 group_created, got %+v", got)
	}

	if _, err := s.ledger.AddExpense(context.Background(), as(alice, &api.AddExpenseRequest{
		GroupID: group.ID, Amount: 20, Description: "Coffee", Category: "food",
	})); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if !stream.Receive() {
		t.Fatalf("expected live event: %v", stream.Err())
	}
	if got := stream.Msg(); got.Seq != 3 || got.Type != string(models.EventExpenseAdded) {
		t.Errorf("live event: expected seq 3 expense_added, got %+v", got)
	}
}

func TestWatchEventsRequiresAuth(t *testing.T) {
	s := setupTestServer(t)

	stream, err := s.ledger.WatchEvents(context.Background(), connect.NewRequest(&api.WatchEventsRequest{}))
	if err == nil {
		defer stream.Close()
		if stream.Receive() {
			t.Fatal("expected no events without a token")
		}
		err = stream.Err()
	}
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestAuthService(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	regResp, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if regResp.Msg.Token == "" {
		t.Fatal("expected token")
	}

	_, err = s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse",
	}))
	expectCode(t, err, connect.CodeAlreadyExists)

	_, err = s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "not-an-email", DisplayName: "Bob", Password: "correct horse",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong password"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	loginResp, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "correct horse"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// The account ID is the principal the ledger records.
	group := createGroup(t, s, loginResp.Msg.Token)
	if group.Creator != regResp.Msg.User.ID {
		t.Errorf("creator: expected '%s', got '%s'", regResp.Msg.User.ID, group.Creator)
	}
}
