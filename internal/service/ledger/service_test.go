package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
	"github.com/avely/fintrack/internal/storage/memory"
)

func newService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, store), store
}

func mustAccount(t *testing.T, svc Service, name string, typ fintrack.AccountType) fintrack.Account {
	t.Helper()
	a, err := svc.CreateAccount(context.Background(), fintrack.Account{Name: name, Type: typ, Currency: "eur"})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := mustAccount(t, svc, "Main", fintrack.AccountTypeBank)
	if a.Currency != "EUR" {
		t.Errorf("currency not uppercased: %q", a.Currency)
	}
	if a.ID == uuid.Nil {
		t.Error("id not assigned")
	}

	if _, err := svc.CreateAccount(ctx, fintrack.Account{Name: "  ", Type: fintrack.AccountTypeBank}); !errors.Is(err, errs.ErrInvalid) {
		t.Errorf("blank name: err = %v", err)
	}
	if _, err := svc.CreateAccount(ctx, fintrack.Account{Name: "X", Type: "checking"}); !errors.Is(err, errs.ErrInvalid) {
		t.Errorf("bad type: err = %v", err)
	}
}

func TestCreateTransactionDefaultsAndChecks(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := mustAccount(t, svc, "Main", fintrack.AccountTypeBank)

	tx, err := svc.CreateTransaction(ctx, fintrack.Transaction{
		Date:      fintrack.MustParseDate("2024-06-01"),
		AccountID: a.ID,
		Amount:    decimal.NewFromInt(42),
	})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Type != fintrack.TransactionNormal {
		t.Errorf("type not defaulted: %s", tx.Type)
	}
	if tx.ContentHash == "" {
		t.Error("content hash not set")
	}

	if _, err := svc.CreateTransaction(ctx, fintrack.Transaction{AccountID: a.ID, Amount: decimal.NewFromInt(1)}); !errors.Is(err, errs.ErrInvalid) {
		t.Errorf("missing date: err = %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, fintrack.Transaction{
		Date:      fintrack.MustParseDate("2024-06-01"),
		AccountID: uuid.New(),
		Amount:    decimal.NewFromInt(1),
	}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown account: err = %v", err)
	}
}

func TestCreateTransfer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	from := mustAccount(t, svc, "Main", fintrack.AccountTypeBank)
	to := mustAccount(t, svc, "Wallet", fintrack.AccountTypeCash)

	legs, err := svc.CreateTransfer(ctx, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Date:          fintrack.MustParseDate("2024-06-02"),
		Amount:        decimal.NewFromInt(100),
		Description:   "cash withdrawal",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(legs) != 2 {
		t.Fatalf("got %d legs", len(legs))
	}
	if !legs[0].Amount.Add(legs[1].Amount).IsZero() {
		t.Error("legs do not sum to zero")
	}
	if legs[0].TransferGroupID == uuid.Nil || legs[0].TransferGroupID != legs[1].TransferGroupID {
		t.Error("legs do not share a transfer group")
	}
	for _, leg := range legs {
		if leg.Type != fintrack.TransactionTransfer {
			t.Errorf("leg type = %s", leg.Type)
		}
	}
	if legs[0].AccountID != from.ID || !legs[0].Amount.IsNegative() {
		t.Error("first leg must debit the source account")
	}

	if _, err := svc.CreateTransfer(ctx, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   from.ID,
		Date:          fintrack.MustParseDate("2024-06-02"),
		Amount:        decimal.NewFromInt(1),
	}); !errors.Is(err, errs.ErrUnprocessable) {
		t.Errorf("same-account transfer: err = %v", err)
	}
	if _, err := svc.CreateTransfer(ctx, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Date:          fintrack.MustParseDate("2024-06-02"),
		Amount:        decimal.NewFromInt(-5),
	}); !errors.Is(err, errs.ErrUnprocessable) {
		t.Errorf("negative amount: err = %v", err)
	}
}

func TestEnsureCategoryIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.EnsureCategory(ctx, "Eating Out")
	if err != nil {
		t.Fatal(err)
	}
	// Same slug, different spelling: must resolve to the existing category.
	second, err := svc.EnsureCategory(ctx, "eating   out")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("ensure created a duplicate: %s vs %s", first.ID, second.ID)
	}

	if _, err := svc.CreateCategory(ctx, "EATING OUT"); !errors.Is(err, errs.ErrConflict) {
		t.Errorf("create over existing slug: err = %v", err)
	}
}

func TestImportTransactions(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	a := mustAccount(t, svc, "Main", fintrack.AccountTypeBank)

	rows := []ImportRow{
		{Date: "01.06.2024", Amount: "-12,50", Description: "coffee", Category: "Eating Out"},
		{Date: "2024-06-02", Amount: "1.000,00", Description: "salary", Category: "Salary"},
	}
	res, err := svc.ImportTransactions(ctx, a.ID, rows)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("first pass: %+v", res)
	}

	// Re-importing the same rows must skip both on content digest.
	res, err = svc.ImportTransactions(ctx, a.ID, rows)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 0 || res.Skipped != 2 {
		t.Fatalf("second pass: %+v", res)
	}

	txns, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 2 {
		t.Fatalf("stored %d transactions", len(txns))
	}
	if !txns[0].Amount.Equal(decimal.RequireFromString("-12.5")) {
		t.Errorf("amount = %s", txns[0].Amount)
	}
	if txns[0].CategoryID == uuid.Nil {
		t.Error("category not resolved")
	}
	if txns[0].Currency != a.Currency {
		t.Errorf("currency = %q", txns[0].Currency)
	}

	cats, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Fatalf("EnsureCategory made %d categories", len(cats))
	}
}

func TestImportRejectsBadDate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := mustAccount(t, svc, "Main", fintrack.AccountTypeBank)

	_, err := svc.ImportTransactions(ctx, a.ID, []ImportRow{{Date: "whenever", Amount: "1"}})
	if !errors.Is(err, errs.ErrUnprocessable) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteAccountKeepsTransactions(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	a := mustAccount(t, svc, "Main", fintrack.AccountTypeBank)

	if _, err := svc.CreateTransaction(ctx, fintrack.Transaction{
		Date:      fintrack.MustParseDate("2024-06-01"),
		AccountID: a.ID,
		Amount:    decimal.NewFromInt(10),
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	txns, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 1 {
		t.Fatalf("delete cascaded: %d transactions left", len(txns))
	}
}
