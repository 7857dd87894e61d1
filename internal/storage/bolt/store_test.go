package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAccountCRUD(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	a := fintrack.Account{ID: uuid.New(), Name: "Main", Type: fintrack.AccountTypeBank, Currency: "EUR", StartingBalance: decimal.NewFromInt(100)}
	if err := s.SaveAccount(ctx, a); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != a.Name || !got.StartingBalance.Equal(a.StartingBalance) {
		t.Fatalf("got %+v", got)
	}

	if _, err := s.GetAccount(ctx, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing account: err = %v", err)
	}

	if err := s.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAccount(ctx, a.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("after delete: err = %v", err)
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	var want []string
	for _, name := range []string{"zeta", "alpha", "mid"} {
		g := fintrack.Goal{ID: uuid.New(), Name: name, Type: fintrack.GoalNetWorth, Status: fintrack.GoalActive, StartDate: fintrack.MustParseDate("2024-06-01")}
		if err := s.SaveGoal(ctx, g); err != nil {
			t.Fatal(err)
		}
		want = append(want, name)
	}
	goals, err := s.ListGoals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 3 {
		t.Fatalf("got %d goals", len(goals))
	}
	for i, g := range goals {
		if g.Name != want[i] {
			t.Fatalf("order broken at %d: got %s, want %s", i, g.Name, want[i])
		}
	}

	// An upsert must keep the record's original position.
	goals[0].Name = "zeta renamed"
	if err := s.SaveGoal(ctx, goals[0]); err != nil {
		t.Fatal(err)
	}
	goals, err = s.ListGoals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if goals[0].Name != "zeta renamed" {
		t.Fatalf("upsert moved the record: first is %s", goals[0].Name)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	for i := 0; i < 3; i++ {
		tx := fintrack.Transaction{ID: uuid.New(), Type: fintrack.TransactionNormal, Date: fintrack.MustParseDate("2024-06-01"), AccountID: uuid.New(), Amount: decimal.NewFromInt(int64(i))}
		if err := s.SaveTransaction(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ClearTransactions(ctx); err != nil {
		t.Fatal(err)
	}
	txns, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 0 {
		t.Fatalf("%d transactions left after clear", len(txns))
	}
}

func TestSettingsSingleton(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Seeded || settings.BaseCurrency != "" {
		t.Fatalf("fresh store settings = %+v", settings)
	}

	if err := s.SaveSettings(ctx, fintrack.Settings{BaseCurrency: "EUR", Seeded: true}); err != nil {
		t.Fatal(err)
	}
	settings, err = s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.BaseCurrency != "EUR" || !settings.Seeded {
		t.Fatalf("settings = %+v", settings)
	}
}

func TestClosedStoreReadsReportUnavailable(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatal(err)
	}
	d := fintrack.NewDebt(fintrack.DebtReceivable, "ana", decimal.NewFromInt(10), nil, nil)
	if err := s.SaveDebt(ctx, d); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ListAccounts(ctx); !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Errorf("list on closed store: err = %v", err)
	}
	if _, err := s.GetDebt(ctx, d.ID); !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Errorf("get on closed store: err = %v", err)
	}
	// A failed read must never be reported as a missing record.
	if _, err := s.GetDebt(ctx, d.ID); errors.Is(err, errs.ErrNotFound) {
		t.Error("closed store read reported not_found")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fintrack.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	d := fintrack.NewDebt(fintrack.DebtReceivable, "ana", decimal.NewFromInt(75), nil, nil)
	if err := s.SaveDebt(ctx, d); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.GetDebt(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Person != "ana" || !got.Amount.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("got %+v", got)
	}
	if err := s.Ready(ctx); err != nil {
		t.Fatalf("ready: %v", err)
	}
}
