package ledgerstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"splitright/internal/ledger"
	"splitright/internal/models"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

// openTestDB connects to the database named by LEDGER_TEST_DSN. Tests that
// need MySQL are skipped when the variable is unset so the pure-logic suite
// still runs anywhere.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("LEDGER_TEST_DSN")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DSN not set, skipping database test")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping test db: %v", err)
	}

	t.Cleanup(func() {
		tables := []string{"settlements", "expense_splits", "expenses", "group_members", "`groups`", "users"}
		for _, table := range tables {
			if _, err := db.Exec("DELETE FROM " + table); err != nil {
				t.Logf("cleanup %s: %v", table, err)
			}
		}
		db.Close()
	})

	return db
}

func seedUser(t *testing.T, db *sql.DB, name string) int {
	t.Helper()
	res, err := db.Exec("INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		name, fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()), "x")
	if err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func seedGroup(t *testing.T, db *sql.DB, name string, creator int, members ...int) int {
	t.Helper()
	res, err := db.Exec("INSERT INTO `groups` (name, created_by) VALUES (?, ?)", name, creator)
	if err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	id, _ := res.LastInsertId()
	for _, m := range members {
		if _, err := db.Exec("INSERT INTO group_members (group_id, user_id) VALUES (?, ?)", id, m); err != nil {
			t.Fatalf("seed member %d: %v", m, err)
		}
	}
	return int(id)
}

func recordEqualExpense(t *testing.T, store *Store, groupID, payer int, total string, participants []int) *models.Expense {
	t.Helper()

	amount := decimal.RequireFromString(total)
	signed, err := ledger.ComputeSplits(amount, payer, participants, ledger.SplitEqual, nil)
	if err != nil {
		t.Fatalf("ComputeSplits: %v", err)
	}

	splits := make([]models.ExpenseSplit, 0, len(signed))
	for id, amt := range signed {
		splits = append(splits, models.ExpenseSplit{UserID: id, Amount: amt})
	}

	expense := &models.Expense{
		Description: "dinner",
		Amount:      amount,
		PaidBy:      payer,
		GroupID:     groupID,
		SplitType:   "equal",
		ExpenseDate: time.Now().UTC().Format("2006-01-02"),
	}
	if err := store.RecordExpense(context.Background(), expense, splits); err != nil {
		t.Fatalf("RecordExpense: %v", err)
	}
	if expense.ID == 0 {
		t.Fatal("RecordExpense did not set the expense ID")
	}
	return expense
}

func TestExpenseToBalancesEndToEnd(t *testing.T) {
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")
	groupID := seedGroup(t, db, "trip", a, a, b, c)

	recordEqualExpense(t, store, groupID, a, "150", []int{a, b, c})

	balances, err := store.GroupMemberBalances(ctx, groupID)
	if err != nil {
		t.Fatalf("GroupMemberBalances: %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("got %d member balances, want 3", len(balances))
	}

	want := map[int]string{a: "100", b: "-50", c: "-50"}
	sum := decimal.Zero
	for _, mb := range balances {
		if !mb.Balance.Equal(decimal.RequireFromString(want[mb.UserID])) {
			t.Errorf("user %d balance = %s, want %s", mb.UserID, mb.Balance, want[mb.UserID])
		}
		sum = sum.Add(mb.Balance)
	}
	if !sum.IsZero() {
		t.Errorf("group balances sum to %s, want 0", sum)
	}

	bBalance, err := store.UserBalanceInGroup(ctx, b, groupID)
	if err != nil {
		t.Fatalf("UserBalanceInGroup: %v", err)
	}
	if !bBalance.Equal(decimal.RequireFromString("-50")) {
		t.Errorf("balance of b = %s, want -50", bBalance)
	}
	if dir := ledger.BalanceDirection(bBalance); dir != ledger.DirectionOwe {
		t.Errorf("direction of b = %q, want %q", dir, ledger.DirectionOwe)
	}

	global, err := store.UserGlobalBalance(ctx, a)
	if err != nil {
		t.Fatalf("UserGlobalBalance: %v", err)
	}
	if !global.OwedToYou.Equal(decimal.RequireFromString("100")) ||
		!global.YouOwe.IsZero() ||
		!global.NetBalance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("global balance of a = %+v, want owedToYou=100 youOwe=0 net=100", global)
	}

	// Reads derive purely from stored rows, so asking again without any
	// intervening write must return the same figures.
	again, err := store.UserGlobalBalance(ctx, a)
	if err != nil {
		t.Fatalf("UserGlobalBalance (second read): %v", err)
	}
	if !again.OwedToYou.Equal(global.OwedToYou) ||
		!again.YouOwe.Equal(global.YouOwe) ||
		!again.NetBalance.Equal(global.NetBalance) {
		t.Errorf("repeated read returned %+v, first read returned %+v", again, global)
	}

	balancesAgain, err := store.GroupMemberBalances(ctx, groupID)
	if err != nil {
		t.Fatalf("GroupMemberBalances (second read): %v", err)
	}
	if len(balancesAgain) != len(balances) {
		t.Fatalf("repeated read returned %d member balances, first returned %d", len(balancesAgain), len(balances))
	}
	for i := range balances {
		if balancesAgain[i].UserID != balances[i].UserID || !balancesAgain[i].Balance.Equal(balances[i].Balance) {
			t.Errorf("repeated member balances differ at %d: %+v vs %+v", i, balancesAgain[i], balances[i])
		}
	}
}

func TestMemberWithoutSplitsHasZeroBalance(t *testing.T) {
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	late := seedUser(t, db, "dave")
	groupID := seedGroup(t, db, "flat", a, a, b, late)

	recordEqualExpense(t, store, groupID, a, "80", []int{a, b})

	balances, err := store.GroupMemberBalances(ctx, groupID)
	if err != nil {
		t.Fatalf("GroupMemberBalances: %v", err)
	}

	found := false
	for _, mb := range balances {
		if mb.UserID == late {
			found = true
			if !mb.Balance.IsZero() {
				t.Errorf("balance of member with no splits = %s, want 0", mb.Balance)
			}
		}
	}
	if !found {
		t.Error("member without splits missing from group balances")
	}
}

func TestRecordSettlementAndActivity(t *testing.T) {
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	groupID := seedGroup(t, db, "lunch", a, a, b)

	recordEqualExpense(t, store, groupID, a, "60", []int{a, b})

	settlement := &models.Settlement{
		FromUser: b,
		ToUser:   a,
		GroupID:  groupID,
		Amount:   decimal.RequireFromString("30"),
		Notes:    "paid back",
	}
	if err := store.RecordSettlement(ctx, settlement); err != nil {
		t.Fatalf("RecordSettlement: %v", err)
	}
	if settlement.ID == 0 {
		t.Fatal("RecordSettlement did not set the settlement ID")
	}

	activities, err := store.RecentActivity(ctx, a, 10)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2 (one expense, one payment)", len(activities))
	}

	types := map[string]bool{}
	for _, act := range activities {
		types[act.Type] = true
		if act.Description == "" {
			t.Errorf("activity %q has empty description", act.Type)
		}
	}
	if !types["expense"] || !types["payment"] {
		t.Errorf("activity types = %v, want both expense and payment", types)
	}
}

func TestEmptyDashboardState(t *testing.T) {
	db := openTestDB(t)
	store := New(db)
	ctx := context.Background()

	loner := seedUser(t, db, "nobody")

	global, err := store.UserGlobalBalance(ctx, loner)
	if err != nil {
		t.Fatalf("UserGlobalBalance: %v", err)
	}
	if !global.OwedToYou.IsZero() || !global.YouOwe.IsZero() || !global.NetBalance.IsZero() {
		t.Errorf("empty-state balance = %+v, want all zeros", global)
	}

	groups, err := store.UserGroups(ctx, loner)
	if err != nil {
		t.Fatalf("UserGroups: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0", len(groups))
	}

	activities, err := store.RecentActivity(ctx, loner, 10)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(activities) != 0 {
		t.Errorf("got %d activities, want 0", len(activities))
	}
}

func TestGetGroupNotFound(t *testing.T) {
	db := openTestDB(t)
	store := New(db)

	_, err := store.GetGroup(context.Background(), 999999)
	if err == nil {
		t.Fatal("expected an error for a missing group")
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("error = %v, want ledger.ErrNotFound", err)
	}
}
