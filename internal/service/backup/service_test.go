package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
	"github.com/avely/fintrack/internal/service/report"
	"github.com/avely/fintrack/internal/storage/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	a := fintrack.Account{ID: uuid.New(), Name: "Main", Type: fintrack.AccountTypeBank, Currency: "EUR", StartingBalance: dec("100")}
	if err := store.SaveAccount(ctx, a); err != nil {
		t.Fatal(err)
	}
	tx := fintrack.Transaction{ID: uuid.New(), Type: fintrack.TransactionNormal, Date: fintrack.MustParseDate("2024-06-01"), AccountID: a.ID, Amount: dec("30")}
	if err := store.SaveTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDebt(ctx, fintrack.NewDebt(fintrack.DebtReceivable, "ana", dec("50"), nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCategory(ctx, fintrack.Category{ID: uuid.New(), Name: "Groceries"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSettings(ctx, fintrack.Settings{BaseCurrency: "EUR", Seeded: true}); err != nil {
		t.Fatal(err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	seed(t, src)

	dump, err := New(src, src).Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dump.SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %d", dump.SchemaVersion)
	}

	dst := memory.New()
	// Pre-existing data must be gone after the restore.
	if err := dst.SaveAccount(ctx, fintrack.Account{ID: uuid.New(), Name: "Stale", Type: fintrack.AccountTypeCash}); err != nil {
		t.Fatal(err)
	}
	if err := New(dst, dst).Import(ctx, dump); err != nil {
		t.Fatal(err)
	}

	today := fintrack.MustParseDate("2024-06-15")
	cfg := report.DefaultConfig()
	before, err := report.New(src, src).ComputeBalances(ctx, cfg, today)
	if err != nil {
		t.Fatal(err)
	}
	after, err := report.New(dst, dst).ComputeBalances(ctx, cfg, today)
	if err != nil {
		t.Fatal(err)
	}
	if !before.ActualCash.Equal(after.ActualCash) ||
		!before.ExpectedCash.Equal(after.ExpectedCash) ||
		!before.RiskAdjustedCash.Equal(after.RiskAdjustedCash) ||
		!before.NetWorth.Equal(after.NetWorth) {
		t.Fatalf("metrics drifted after restore:\nbefore %+v\nafter  %+v", before, after)
	}

	accounts, err := dst.ListAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Main" {
		t.Fatalf("restore was a merge, not a replace: %+v", accounts)
	}
	settings, err := dst.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.BaseCurrency != "EUR" || !settings.Seeded {
		t.Fatalf("settings not restored: %+v", settings)
	}
}

func TestImportValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store, store)

	cases := []struct {
		name string
		dump Dump
	}{
		{"account without id", Dump{Accounts: []fintrack.Account{{Name: "x", Type: fintrack.AccountTypeBank}}}},
		{"unknown account type", Dump{Accounts: []fintrack.Account{{ID: uuid.New(), Name: "x", Type: "checking"}}}},
		{"transaction without date", Dump{Transactions: []fintrack.Transaction{{ID: uuid.New(), Type: fintrack.TransactionNormal}}}},
		{"unknown transaction type", Dump{Transactions: []fintrack.Transaction{{ID: uuid.New(), Type: "wire", Date: fintrack.MustParseDate("2024-06-01")}}}},
		{"negative debt amount", Dump{Debts: []fintrack.Debt{{ID: uuid.New(), Direction: fintrack.DebtReceivable, Amount: dec("-5"), Confidence: 50}}}},
		{"confidence out of range", Dump{Debts: []fintrack.Debt{{ID: uuid.New(), Direction: fintrack.DebtReceivable, Amount: dec("5"), Confidence: 120}}}},
		{"unknown debt direction", Dump{Debts: []fintrack.Debt{{ID: uuid.New(), Direction: "maybe", Amount: dec("5"), Confidence: 50}}}},
	}
	for _, c := range cases {
		if err := svc.Import(ctx, c.dump); !errors.Is(err, errs.ErrUnprocessable) {
			t.Errorf("%s: err = %v", c.name, err)
		}
	}

	// Nothing may have been written by the rejected imports.
	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 0 {
		t.Fatalf("rejected import wrote %d accounts", len(accounts))
	}
}

func TestImportEmptyDump(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store)

	if err := New(store, store).Import(ctx, Dump{SchemaVersion: SchemaVersion}); err != nil {
		t.Fatal(err)
	}
	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 0 {
		t.Fatal("empty dump must clear the store")
	}

	// A dump without a meta record keeps the current settings. Losing the
	// seeded flag here would trigger a fresh category seed at next startup.
	settings, err := store.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.BaseCurrency != "EUR" || !settings.Seeded {
		t.Fatalf("absent meta overwrote settings: %+v", settings)
	}
}
