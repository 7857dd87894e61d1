// Package ledger implements the write-side rules for accounts, categories
// and transactions: validation at the boundary, upsert semantics with
// last-write-wins, transfer pair construction, and hash-based duplicate
// skipping for bulk ingest. Reads stay tolerant of dangling references; this
// layer only checks referenced records exist at creation time and never
// cascades deletes.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
	"github.com/avely/fintrack/internal/normalize"
	"github.com/avely/fintrack/internal/slug"
)

// Repo defines the read operations this service needs.
type Repo interface {
	ListAccounts(ctx context.Context) ([]fintrack.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (fintrack.Account, error)
	ListCategories(ctx context.Context) ([]fintrack.Category, error)
	ListTransactions(ctx context.Context) ([]fintrack.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (fintrack.Transaction, error)
}

// Writer defines the write operations this service needs.
type Writer interface {
	SaveAccount(ctx context.Context, a fintrack.Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	SaveCategory(ctx context.Context, c fintrack.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	SaveTransaction(ctx context.Context, t fintrack.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// TransferInput describes a transfer between two accounts. Amount is the
// positive quantity moved from one account to the other.
type TransferInput struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Date          fintrack.Date
	Amount        decimal.Decimal
	Description   string
}

// ImportRow is one candidate transaction handed over by the CSV-mapping
// collaborator: raw strings, not yet normalized.
type ImportRow struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// ImportResult reports what a bulk ingest did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Service exposes account, category and transaction operations.
type Service interface {
	CreateAccount(ctx context.Context, a fintrack.Account) (fintrack.Account, error)
	UpdateAccount(ctx context.Context, a fintrack.Account) (fintrack.Account, error)
	ListAccounts(ctx context.Context) ([]fintrack.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, name string) (fintrack.Category, error)
	EnsureCategory(ctx context.Context, name string) (fintrack.Category, error)
	ListCategories(ctx context.Context) ([]fintrack.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateTransaction(ctx context.Context, t fintrack.Transaction) (fintrack.Transaction, error)
	UpdateTransaction(ctx context.Context, t fintrack.Transaction) (fintrack.Transaction, error)
	ListTransactions(ctx context.Context) ([]fintrack.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	CreateTransfer(ctx context.Context, in TransferInput) ([]fintrack.Transaction, error)
	ImportTransactions(ctx context.Context, accountID uuid.UUID, rows []ImportRow) (ImportResult, error)
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the ledger service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func validAccountType(t fintrack.AccountType) bool {
	switch t {
	case fintrack.AccountTypeBank, fintrack.AccountTypeCash, fintrack.AccountTypeBroker:
		return true
	}
	return false
}

func validTransactionType(t fintrack.TransactionType) bool {
	switch t {
	case fintrack.TransactionNormal, fintrack.TransactionTransfer, fintrack.TransactionAdjustment:
		return true
	}
	return false
}

func (s *service) validateAccount(a fintrack.Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: account name is required", errs.ErrInvalid)
	}
	if !validAccountType(a.Type) {
		return fmt.Errorf("%w: unknown account type %q", errs.ErrInvalid, a.Type)
	}
	return nil
}

func (s *service) CreateAccount(ctx context.Context, a fintrack.Account) (fintrack.Account, error) {
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if err := s.validateAccount(a); err != nil {
		return fintrack.Account{}, err
	}
	a.ID = uuid.New()
	if err := s.writer.SaveAccount(ctx, a); err != nil {
		return fintrack.Account{}, err
	}
	return a, nil
}

// UpdateAccount overwrites an existing account wholesale (last write wins,
// no versioning).
func (s *service) UpdateAccount(ctx context.Context, a fintrack.Account) (fintrack.Account, error) {
	if a.ID == uuid.Nil {
		return fintrack.Account{}, errs.ErrInvalid
	}
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if err := s.validateAccount(a); err != nil {
		return fintrack.Account{}, err
	}
	if _, err := s.repo.GetAccount(ctx, a.ID); err != nil {
		return fintrack.Account{}, err
	}
	if err := s.writer.SaveAccount(ctx, a); err != nil {
		return fintrack.Account{}, err
	}
	return a, nil
}

func (s *service) ListAccounts(ctx context.Context) ([]fintrack.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// DeleteAccount removes the account only. Its transactions keep their
// dangling account id; readers resolve those to placeholders.
func (s *service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteAccount(ctx, id)
}

func (s *service) findCategory(ctx context.Context, name string) (fintrack.Category, bool, error) {
	key := slug.Slugify(name)
	existing, err := s.repo.ListCategories(ctx)
	if err != nil {
		return fintrack.Category{}, false, err
	}
	for _, c := range existing {
		if slug.Slugify(c.Name) == key {
			return c, true, nil
		}
	}
	return fintrack.Category{}, false, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (fintrack.Category, error) {
	if strings.TrimSpace(name) == "" {
		return fintrack.Category{}, fmt.Errorf("%w: category name is required", errs.ErrInvalid)
	}
	if _, ok, err := s.findCategory(ctx, name); err != nil {
		return fintrack.Category{}, err
	} else if ok {
		return fintrack.Category{}, fmt.Errorf("%w: category %q exists", errs.ErrConflict, name)
	}
	c := fintrack.Category{ID: uuid.New(), Name: strings.TrimSpace(name)}
	if err := s.writer.SaveCategory(ctx, c); err != nil {
		return fintrack.Category{}, err
	}
	return c, nil
}

// EnsureCategory returns the category whose slugged name matches, creating
// it when missing. Idempotent per name.
func (s *service) EnsureCategory(ctx context.Context, name string) (fintrack.Category, error) {
	if strings.TrimSpace(name) == "" {
		return fintrack.Category{}, fmt.Errorf("%w: category name is required", errs.ErrInvalid)
	}
	if c, ok, err := s.findCategory(ctx, name); err != nil {
		return fintrack.Category{}, err
	} else if ok {
		return c, nil
	}
	c := fintrack.Category{ID: uuid.New(), Name: strings.TrimSpace(name)}
	if err := s.writer.SaveCategory(ctx, c); err != nil {
		return fintrack.Category{}, err
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context) ([]fintrack.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteCategory(ctx, id)
}

func (s *service) validateTransaction(ctx context.Context, t fintrack.Transaction) error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", errs.ErrInvalid)
	}
	if !validTransactionType(t.Type) {
		return fmt.Errorf("%w: unknown transaction type %q", errs.ErrInvalid, t.Type)
	}
	if t.AccountID == uuid.Nil {
		return fmt.Errorf("%w: account_id is required", errs.ErrInvalid)
	}
	// Existence is checked at the write boundary only. Deletes do not
	// cascade, so a reference may still dangle later; reads tolerate that.
	if _, err := s.repo.GetAccount(ctx, t.AccountID); err != nil {
		return fmt.Errorf("account %s: %w", t.AccountID, err)
	}
	return nil
}

func (s *service) CreateTransaction(ctx context.Context, t fintrack.Transaction) (fintrack.Transaction, error) {
	if t.Type == "" {
		t.Type = fintrack.TransactionNormal
	}
	if err := s.validateTransaction(ctx, t); err != nil {
		return fintrack.Transaction{}, err
	}
	t.ID = uuid.New()
	t.ContentHash = t.Digest(fintrack.SourceManual)
	if err := s.writer.SaveTransaction(ctx, t); err != nil {
		return fintrack.Transaction{}, err
	}
	return t, nil
}

func (s *service) UpdateTransaction(ctx context.Context, t fintrack.Transaction) (fintrack.Transaction, error) {
	if t.ID == uuid.Nil {
		return fintrack.Transaction{}, errs.ErrInvalid
	}
	if _, err := s.repo.GetTransaction(ctx, t.ID); err != nil {
		return fintrack.Transaction{}, err
	}
	if err := s.validateTransaction(ctx, t); err != nil {
		return fintrack.Transaction{}, err
	}
	t.ContentHash = t.Digest(fintrack.SourceManual)
	if err := s.writer.SaveTransaction(ctx, t); err != nil {
		return fintrack.Transaction{}, err
	}
	return t, nil
}

func (s *service) ListTransactions(ctx context.Context) ([]fintrack.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// DeleteTransaction removes a single row. The other leg of a transfer pair
// is left in place deliberately: the aggregation layer tolerates unmatched
// legs, and the user may remove it separately.
func (s *service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteTransaction(ctx, id)
}

// CreateTransfer writes both legs of a transfer: equal-and-opposite amounts
// sharing one TransferGroupID. The pairing is a construction-time contract;
// nothing downstream may assume it held.
func (s *service) CreateTransfer(ctx context.Context, in TransferInput) ([]fintrack.Transaction, error) {
	if in.FromAccountID == uuid.Nil || in.ToAccountID == uuid.Nil {
		return nil, fmt.Errorf("%w: both accounts are required", errs.ErrInvalid)
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, fmt.Errorf("%w: transfer accounts must differ", errs.ErrUnprocessable)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", errs.ErrUnprocessable)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", errs.ErrInvalid)
	}
	from, err := s.repo.GetAccount(ctx, in.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("from account %s: %w", in.FromAccountID, err)
	}
	to, err := s.repo.GetAccount(ctx, in.ToAccountID)
	if err != nil {
		return nil, fmt.Errorf("to account %s: %w", in.ToAccountID, err)
	}

	group := uuid.New()
	legs := []fintrack.Transaction{
		{
			ID:              uuid.New(),
			Type:            fintrack.TransactionTransfer,
			Date:            in.Date,
			AccountID:       from.ID,
			Description:     in.Description,
			Amount:          in.Amount.Neg(),
			Currency:        from.Currency,
			TransferGroupID: group,
		},
		{
			ID:              uuid.New(),
			Type:            fintrack.TransactionTransfer,
			Date:            in.Date,
			AccountID:       to.ID,
			Description:     in.Description,
			Amount:          in.Amount,
			Currency:        to.Currency,
			TransferGroupID: group,
		},
	}
	for i := range legs {
		legs[i].ContentHash = legs[i].Digest(fintrack.SourceManual)
		if err := s.writer.SaveTransaction(ctx, legs[i]); err != nil {
			return nil, err
		}
	}
	return legs, nil
}

// ImportTransactions ingests candidate rows from the CSV-mapping
// collaborator into one account. Raw amounts and dates are normalized (bad
// amounts become zero, rows with unparseable dates are rejected), categories
// are resolved by slug and created on demand, and any row whose content
// digest already exists is skipped.
func (s *service) ImportTransactions(ctx context.Context, accountID uuid.UUID, rows []ImportRow) (ImportResult, error) {
	if accountID == uuid.Nil {
		return ImportResult{}, fmt.Errorf("%w: account_id is required", errs.ErrInvalid)
	}
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("account %s: %w", accountID, err)
	}
	existing, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t.ContentHash != "" {
			seen[t.ContentHash] = true
		}
	}

	var res ImportResult
	for i, row := range rows {
		date, ok := normalize.ParseDateLoose(row.Date)
		if !ok {
			return res, fmt.Errorf("%w: row %d: unparseable date %q", errs.ErrUnprocessable, i, row.Date)
		}
		amount := normalize.ParseAmount(row.Amount)

		categoryID := uuid.Nil
		if strings.TrimSpace(row.Category) != "" {
			c, err := s.EnsureCategory(ctx, row.Category)
			if err != nil {
				return res, err
			}
			categoryID = c.ID
		}

		hash := fintrack.ContentDigest(date, amount, row.Description, account.ID, categoryID, fintrack.SourceImport)
		if seen[hash] {
			res.Skipped++
			continue
		}
		t := fintrack.Transaction{
			ID:          uuid.New(),
			Type:        fintrack.TransactionNormal,
			Date:        date,
			AccountID:   account.ID,
			CategoryID:  categoryID,
			Description: row.Description,
			Amount:      amount,
			Currency:    account.Currency,
			ContentHash: hash,
		}
		if err := s.writer.SaveTransaction(ctx, t); err != nil {
			return res, err
		}
		seen[hash] = true
		res.Imported++
	}
	return res, nil
}
