// Package backup implements the portability boundary: a single structured
// dump with one array per collection. Import is a destructive full replace,
// never a merge.
package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
)

// SchemaVersion identifies the dump layout written by Export.
const SchemaVersion = 1

// Dump is the on-the-wire backup document. Absent collections decode as nil
// slices and import as empty; an absent meta keeps the current settings.
type Dump struct {
	SchemaVersion int       `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`

	Accounts     []fintrack.Account     `json:"accounts"`
	Transactions []fintrack.Transaction `json:"transactions"`
	Categories   []fintrack.Category    `json:"categories"`
	Instruments  []fintrack.Instrument  `json:"instruments"`
	Positions    []fintrack.Position    `json:"positions"`
	Debts        []fintrack.Debt        `json:"debts"`
	Trades       []fintrack.Trade       `json:"trades"`
	Goals        []fintrack.Goal        `json:"goals"`
	Snapshots    []fintrack.Snapshot    `json:"snapshots"`
	Meta         fintrack.Settings      `json:"meta"`
}

// Repo defines the read operations export needs.
type Repo interface {
	ListAccounts(ctx context.Context) ([]fintrack.Account, error)
	ListTransactions(ctx context.Context) ([]fintrack.Transaction, error)
	ListCategories(ctx context.Context) ([]fintrack.Category, error)
	ListInstruments(ctx context.Context) ([]fintrack.Instrument, error)
	ListPositions(ctx context.Context) ([]fintrack.Position, error)
	ListDebts(ctx context.Context) ([]fintrack.Debt, error)
	ListTrades(ctx context.Context) ([]fintrack.Trade, error)
	ListGoals(ctx context.Context) ([]fintrack.Goal, error)
	ListSnapshots(ctx context.Context) ([]fintrack.Snapshot, error)
	Settings(ctx context.Context) (fintrack.Settings, error)
}

// Writer defines the write operations import needs.
type Writer interface {
	ClearAccounts(ctx context.Context) error
	SaveAccount(ctx context.Context, a fintrack.Account) error
	ClearTransactions(ctx context.Context) error
	SaveTransaction(ctx context.Context, t fintrack.Transaction) error
	ClearCategories(ctx context.Context) error
	SaveCategory(ctx context.Context, c fintrack.Category) error
	ClearInstruments(ctx context.Context) error
	SaveInstrument(ctx context.Context, i fintrack.Instrument) error
	ClearPositions(ctx context.Context) error
	SavePosition(ctx context.Context, p fintrack.Position) error
	ClearDebts(ctx context.Context) error
	SaveDebt(ctx context.Context, d fintrack.Debt) error
	ClearTrades(ctx context.Context) error
	SaveTrade(ctx context.Context, t fintrack.Trade) error
	ClearGoals(ctx context.Context) error
	SaveGoal(ctx context.Context, g fintrack.Goal) error
	ClearSnapshots(ctx context.Context) error
	SaveSnapshot(ctx context.Context, s fintrack.Snapshot) error
	SaveSettings(ctx context.Context, s fintrack.Settings) error
}

// Service exposes export and import of the whole store.
type Service interface {
	Export(ctx context.Context) (Dump, error)
	Import(ctx context.Context, d Dump) error
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the backup service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// Export reads every collection into one dump.
func (s *service) Export(ctx context.Context) (Dump, error) {
	d := Dump{SchemaVersion: SchemaVersion, ExportedAt: time.Now().UTC()}
	var err error
	if d.Accounts, err = s.repo.ListAccounts(ctx); err != nil {
		return Dump{}, err
	}
	if d.Transactions, err = s.repo.ListTransactions(ctx); err != nil {
		return Dump{}, err
	}
	if d.Categories, err = s.repo.ListCategories(ctx); err != nil {
		return Dump{}, err
	}
	if d.Instruments, err = s.repo.ListInstruments(ctx); err != nil {
		return Dump{}, err
	}
	if d.Positions, err = s.repo.ListPositions(ctx); err != nil {
		return Dump{}, err
	}
	if d.Debts, err = s.repo.ListDebts(ctx); err != nil {
		return Dump{}, err
	}
	if d.Trades, err = s.repo.ListTrades(ctx); err != nil {
		return Dump{}, err
	}
	if d.Goals, err = s.repo.ListGoals(ctx); err != nil {
		return Dump{}, err
	}
	if d.Snapshots, err = s.repo.ListSnapshots(ctx); err != nil {
		return Dump{}, err
	}
	if d.Meta, err = s.repo.Settings(ctx); err != nil {
		return Dump{}, err
	}
	return d, nil
}

// Validate rejects dumps with records that break stored-form invariants.
// Absent collections are fine; a record without an id, with an unknown enum
// value, or with a negative debt amount is not.
func Validate(d Dump) error {
	for i, a := range d.Accounts {
		if a.ID == uuid.Nil {
			return itemErr("accounts", i, "missing id")
		}
		switch a.Type {
		case fintrack.AccountTypeBank, fintrack.AccountTypeCash, fintrack.AccountTypeBroker:
		default:
			return itemErr("accounts", i, "unknown type")
		}
	}
	for i, t := range d.Transactions {
		if t.ID == uuid.Nil {
			return itemErr("transactions", i, "missing id")
		}
		switch t.Type {
		case fintrack.TransactionNormal, fintrack.TransactionTransfer, fintrack.TransactionAdjustment:
		default:
			return itemErr("transactions", i, "unknown type")
		}
		if t.Date.IsZero() {
			return itemErr("transactions", i, "missing date")
		}
	}
	for i, c := range d.Categories {
		if c.ID == uuid.Nil {
			return itemErr("categories", i, "missing id")
		}
	}
	for i, in := range d.Instruments {
		if in.ID == uuid.Nil {
			return itemErr("instruments", i, "missing id")
		}
	}
	for i, p := range d.Positions {
		if p.ID == uuid.Nil {
			return itemErr("positions", i, "missing id")
		}
	}
	for i, db := range d.Debts {
		if db.ID == uuid.Nil {
			return itemErr("debts", i, "missing id")
		}
		if db.Direction != fintrack.DebtReceivable && db.Direction != fintrack.DebtPayable {
			return itemErr("debts", i, "unknown direction")
		}
		if db.Amount.IsNegative() {
			return itemErr("debts", i, "negative amount")
		}
		if db.Confidence < 0 || db.Confidence > 100 {
			return itemErr("debts", i, "confidence out of range")
		}
	}
	for i, t := range d.Trades {
		if t.ID == uuid.Nil {
			return itemErr("trades", i, "missing id")
		}
	}
	for i, g := range d.Goals {
		if g.ID == uuid.Nil {
			return itemErr("goals", i, "missing id")
		}
	}
	for i, sn := range d.Snapshots {
		if sn.ID == uuid.Nil {
			return itemErr("snapshots", i, "missing id")
		}
	}
	return nil
}

func itemErr(collection string, i int, msg string) error {
	return fmt.Errorf("%w: %s[%d]: %s", errs.ErrUnprocessable, collection, i, msg)
}

// Import validates the dump, then replaces every collection: clear first,
// then insert each record. There is no partial or merge mode.
func (s *service) Import(ctx context.Context, d Dump) error {
	if err := Validate(d); err != nil {
		return err
	}
	if err := s.writer.ClearAccounts(ctx); err != nil {
		return err
	}
	for _, a := range d.Accounts {
		if err := s.writer.SaveAccount(ctx, a); err != nil {
			return err
		}
	}
	if err := s.writer.ClearTransactions(ctx); err != nil {
		return err
	}
	for _, t := range d.Transactions {
		if err := s.writer.SaveTransaction(ctx, t); err != nil {
			return err
		}
	}
	if err := s.writer.ClearCategories(ctx); err != nil {
		return err
	}
	for _, c := range d.Categories {
		if err := s.writer.SaveCategory(ctx, c); err != nil {
			return err
		}
	}
	if err := s.writer.ClearInstruments(ctx); err != nil {
		return err
	}
	for _, in := range d.Instruments {
		if err := s.writer.SaveInstrument(ctx, in); err != nil {
			return err
		}
	}
	if err := s.writer.ClearPositions(ctx); err != nil {
		return err
	}
	for _, p := range d.Positions {
		if err := s.writer.SavePosition(ctx, p); err != nil {
			return err
		}
	}
	if err := s.writer.ClearDebts(ctx); err != nil {
		return err
	}
	for _, db := range d.Debts {
		if err := s.writer.SaveDebt(ctx, db); err != nil {
			return err
		}
	}
	if err := s.writer.ClearTrades(ctx); err != nil {
		return err
	}
	for _, t := range d.Trades {
		if err := s.writer.SaveTrade(ctx, t); err != nil {
			return err
		}
	}
	if err := s.writer.ClearGoals(ctx); err != nil {
		return err
	}
	for _, g := range d.Goals {
		if err := s.writer.SaveGoal(ctx, g); err != nil {
			return err
		}
	}
	if err := s.writer.ClearSnapshots(ctx); err != nil {
		return err
	}
	for _, sn := range d.Snapshots {
		if err := s.writer.SaveSnapshot(ctx, sn); err != nil {
			return err
		}
	}
	// A dump without a meta record keeps the current settings. Writing the
	// zero value would drop the seeded flag and re-seed default categories
	// on top of the restored category set at next startup.
	if d.Meta == (fintrack.Settings{}) {
		return nil
	}
	return s.writer.SaveSettings(ctx, d.Meta)
}
