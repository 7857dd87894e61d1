// Package tracking implements the write-side rules for debts, instruments,
// positions, trades and goals. Defaults (debt confidence, goal status) are
// applied here, once, at construction; readers never re-derive them.
package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/dictionary"
	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
)

// Repo defines the read operations this service needs.
type Repo interface {
	GetDebt(ctx context.Context, id uuid.UUID) (fintrack.Debt, error)
	ListDebts(ctx context.Context) ([]fintrack.Debt, error)
	GetInstrument(ctx context.Context, id uuid.UUID) (fintrack.Instrument, error)
	ListInstruments(ctx context.Context) ([]fintrack.Instrument, error)
	GetPosition(ctx context.Context, id uuid.UUID) (fintrack.Position, error)
	ListPositions(ctx context.Context) ([]fintrack.Position, error)
	GetTrade(ctx context.Context, id uuid.UUID) (fintrack.Trade, error)
	ListTrades(ctx context.Context) ([]fintrack.Trade, error)
	GetGoal(ctx context.Context, id uuid.UUID) (fintrack.Goal, error)
	ListGoals(ctx context.Context) ([]fintrack.Goal, error)
}

// Writer defines the write operations this service needs.
type Writer interface {
	SaveDebt(ctx context.Context, d fintrack.Debt) error
	DeleteDebt(ctx context.Context, id uuid.UUID) error
	SaveInstrument(ctx context.Context, i fintrack.Instrument) error
	DeleteInstrument(ctx context.Context, id uuid.UUID) error
	SavePosition(ctx context.Context, p fintrack.Position) error
	DeletePosition(ctx context.Context, id uuid.UUID) error
	SaveTrade(ctx context.Context, t fintrack.Trade) error
	DeleteTrade(ctx context.Context, id uuid.UUID) error
	SaveGoal(ctx context.Context, g fintrack.Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
}

// DebtInput carries the user-entered fields of a new debt. Confidence nil
// means "use the default".
type DebtInput struct {
	Direction  fintrack.DebtDirection
	Person     string
	Amount     decimal.Decimal
	DueDate    *fintrack.Date
	Confidence *int
	Note       string
}

// Service exposes debt, instrument, position, trade and goal operations.
type Service interface {
	CreateDebt(ctx context.Context, in DebtInput) (fintrack.Debt, error)
	UpdateDebt(ctx context.Context, d fintrack.Debt) (fintrack.Debt, error)
	ListDebts(ctx context.Context) ([]fintrack.Debt, error)
	DeleteDebt(ctx context.Context, id uuid.UUID) error

	CreateInstrument(ctx context.Context, i fintrack.Instrument) (fintrack.Instrument, error)
	ListInstruments(ctx context.Context) ([]fintrack.Instrument, error)
	DeleteInstrument(ctx context.Context, id uuid.UUID) error

	CreatePosition(ctx context.Context, p fintrack.Position) (fintrack.Position, error)
	UpdatePosition(ctx context.Context, p fintrack.Position) (fintrack.Position, error)
	ListPositions(ctx context.Context) ([]fintrack.Position, error)
	DeletePosition(ctx context.Context, id uuid.UUID) error

	CreateTrade(ctx context.Context, t fintrack.Trade) (fintrack.Trade, error)
	UpdateTrade(ctx context.Context, t fintrack.Trade) (fintrack.Trade, error)
	ListTrades(ctx context.Context) ([]fintrack.Trade, error)
	DeleteTrade(ctx context.Context, id uuid.UUID) error

	CreateGoal(ctx context.Context, g fintrack.Goal) (fintrack.Goal, error)
	UpdateGoal(ctx context.Context, g fintrack.Goal) (fintrack.Goal, error)
	ListGoals(ctx context.Context) ([]fintrack.Goal, error)
	DeleteGoal(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the tracking service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func validDirection(d fintrack.DebtDirection) bool {
	return d == fintrack.DebtReceivable || d == fintrack.DebtPayable
}

func validDebtStatus(s fintrack.DebtStatus) bool {
	switch s {
	case fintrack.DebtOpen, fintrack.DebtClosed, fintrack.DebtDisputed, fintrack.DebtWrittenOff:
		return true
	}
	return false
}

func (s *service) CreateDebt(ctx context.Context, in DebtInput) (fintrack.Debt, error) {
	if !validDirection(in.Direction) {
		return fintrack.Debt{}, fmt.Errorf("%w: unknown debt direction %q", errs.ErrInvalid, in.Direction)
	}
	if strings.TrimSpace(in.Person) == "" {
		return fintrack.Debt{}, fmt.Errorf("%w: person is required", errs.ErrInvalid)
	}
	d := fintrack.NewDebt(in.Direction, strings.TrimSpace(in.Person), in.Amount, in.DueDate, in.Confidence)
	d.Note = in.Note
	if err := s.writer.SaveDebt(ctx, d); err != nil {
		return fintrack.Debt{}, err
	}
	return d, nil
}

// UpdateDebt overwrites an existing debt, re-applying the stored-form
// invariants: non-negative amount, clamped confidence.
func (s *service) UpdateDebt(ctx context.Context, d fintrack.Debt) (fintrack.Debt, error) {
	if d.ID == uuid.Nil {
		return fintrack.Debt{}, errs.ErrInvalid
	}
	if !validDirection(d.Direction) {
		return fintrack.Debt{}, fmt.Errorf("%w: unknown debt direction %q", errs.ErrInvalid, d.Direction)
	}
	if !validDebtStatus(d.Status) {
		return fintrack.Debt{}, fmt.Errorf("%w: unknown debt status %q", errs.ErrInvalid, d.Status)
	}
	if _, err := s.repo.GetDebt(ctx, d.ID); err != nil {
		return fintrack.Debt{}, err
	}
	d.Amount = d.Amount.Abs()
	d.Confidence = fintrack.ClampConfidence(d.Confidence)
	if err := s.writer.SaveDebt(ctx, d); err != nil {
		return fintrack.Debt{}, err
	}
	return d, nil
}

func (s *service) ListDebts(ctx context.Context) ([]fintrack.Debt, error) {
	return s.repo.ListDebts(ctx)
}

func (s *service) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteDebt(ctx, id)
}

func (s *service) CreateInstrument(ctx context.Context, i fintrack.Instrument) (fintrack.Instrument, error) {
	i.Symbol = strings.ToUpper(strings.TrimSpace(i.Symbol))
	if i.Symbol == "" {
		return fintrack.Instrument{}, fmt.Errorf("%w: symbol is required", errs.ErrInvalid)
	}
	i.ID = uuid.New()
	if err := s.writer.SaveInstrument(ctx, i); err != nil {
		return fintrack.Instrument{}, err
	}
	return i, nil
}

func (s *service) ListInstruments(ctx context.Context) ([]fintrack.Instrument, error) {
	return s.repo.ListInstruments(ctx)
}

func (s *service) DeleteInstrument(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteInstrument(ctx, id)
}

func (s *service) validatePosition(ctx context.Context, p fintrack.Position) error {
	if p.InstrumentID == uuid.Nil {
		return fmt.Errorf("%w: instrument_id is required", errs.ErrInvalid)
	}
	if _, err := s.repo.GetInstrument(ctx, p.InstrumentID); err != nil {
		return fmt.Errorf("instrument %s: %w", p.InstrumentID, err)
	}
	if p.Qty.IsNegative() {
		return fmt.Errorf("%w: qty must not be negative", errs.ErrUnprocessable)
	}
	return nil
}

func (s *service) CreatePosition(ctx context.Context, p fintrack.Position) (fintrack.Position, error) {
	if err := s.validatePosition(ctx, p); err != nil {
		return fintrack.Position{}, err
	}
	p.ID = uuid.New()
	if err := s.writer.SavePosition(ctx, p); err != nil {
		return fintrack.Position{}, err
	}
	return p, nil
}

func (s *service) UpdatePosition(ctx context.Context, p fintrack.Position) (fintrack.Position, error) {
	if p.ID == uuid.Nil {
		return fintrack.Position{}, errs.ErrInvalid
	}
	if _, err := s.repo.GetPosition(ctx, p.ID); err != nil {
		return fintrack.Position{}, err
	}
	if err := s.validatePosition(ctx, p); err != nil {
		return fintrack.Position{}, err
	}
	if err := s.writer.SavePosition(ctx, p); err != nil {
		return fintrack.Position{}, err
	}
	return p, nil
}

func (s *service) ListPositions(ctx context.Context) ([]fintrack.Position, error) {
	return s.repo.ListPositions(ctx)
}

func (s *service) DeletePosition(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeletePosition(ctx, id)
}

func validTradeSide(side fintrack.TradeSide) bool {
	return side == fintrack.TradeLong || side == fintrack.TradeShort
}

func validTradeResult(r fintrack.TradeResult) bool {
	switch r {
	case fintrack.TradeWin, fintrack.TradeLoss, fintrack.TradeBreakEven, fintrack.TradeUnset:
		return true
	}
	return false
}

func (s *service) validateTrade(t fintrack.Trade) error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", errs.ErrInvalid)
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", errs.ErrInvalid)
	}
	if !validTradeSide(t.Side) {
		return fmt.Errorf("%w: unknown trade side %q", errs.ErrInvalid, t.Side)
	}
	if !validTradeResult(t.Result) {
		return fmt.Errorf("%w: unknown trade result %q", errs.ErrInvalid, t.Result)
	}
	return nil
}

func (s *service) CreateTrade(ctx context.Context, t fintrack.Trade) (fintrack.Trade, error) {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	if err := s.validateTrade(t); err != nil {
		return fintrack.Trade{}, err
	}
	t.ID = uuid.New()
	if err := s.writer.SaveTrade(ctx, t); err != nil {
		return fintrack.Trade{}, err
	}
	return t, nil
}

func (s *service) UpdateTrade(ctx context.Context, t fintrack.Trade) (fintrack.Trade, error) {
	if t.ID == uuid.Nil {
		return fintrack.Trade{}, errs.ErrInvalid
	}
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	if _, err := s.repo.GetTrade(ctx, t.ID); err != nil {
		return fintrack.Trade{}, err
	}
	if err := s.validateTrade(t); err != nil {
		return fintrack.Trade{}, err
	}
	if err := s.writer.SaveTrade(ctx, t); err != nil {
		return fintrack.Trade{}, err
	}
	return t, nil
}

func (s *service) ListTrades(ctx context.Context) ([]fintrack.Trade, error) {
	return s.repo.ListTrades(ctx)
}

func (s *service) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteTrade(ctx, id)
}

func (s *service) validateGoal(g fintrack.Goal) error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: goal name is required", errs.ErrInvalid)
	}
	if !dictionary.IsGoalType(g.Type) {
		return fmt.Errorf("%w: unknown goal type %q", errs.ErrInvalid, g.Type)
	}
	if g.Target != nil && g.Target.IsNegative() {
		return fmt.Errorf("%w: target must not be negative", errs.ErrUnprocessable)
	}
	if g.Status != fintrack.GoalActive && g.Status != fintrack.GoalArchived {
		return fmt.Errorf("%w: unknown goal status %q", errs.ErrInvalid, g.Status)
	}
	return nil
}

func (s *service) CreateGoal(ctx context.Context, g fintrack.Goal) (fintrack.Goal, error) {
	if g.Status == "" {
		g.Status = fintrack.GoalActive
	}
	if g.StartDate.IsZero() {
		g.StartDate = fintrack.Today()
	}
	if err := s.validateGoal(g); err != nil {
		return fintrack.Goal{}, err
	}
	g.ID = uuid.New()
	if err := s.writer.SaveGoal(ctx, g); err != nil {
		return fintrack.Goal{}, err
	}
	return g, nil
}

func (s *service) UpdateGoal(ctx context.Context, g fintrack.Goal) (fintrack.Goal, error) {
	if g.ID == uuid.Nil {
		return fintrack.Goal{}, errs.ErrInvalid
	}
	if _, err := s.repo.GetGoal(ctx, g.ID); err != nil {
		return fintrack.Goal{}, err
	}
	if err := s.validateGoal(g); err != nil {
		return fintrack.Goal{}, err
	}
	if err := s.writer.SaveGoal(ctx, g); err != nil {
		return fintrack.Goal{}, err
	}
	return g, nil
}

func (s *service) ListGoals(ctx context.Context) ([]fintrack.Goal, error) {
	return s.repo.ListGoals(ctx)
}

func (s *service) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteGoal(ctx, id)
}
