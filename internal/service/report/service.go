// Package report implements the computation engine: cash and projection
// metrics, monthly P&L, trade statistics, goal progress and alerting. Every
// operation re-reads the store and recomputes from scratch; nothing is
// cached between calls, so results can never go stale.
package report

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/avely/fintrack/internal/fintrack"
)

// Repo defines the read operations the engine needs.
type Repo interface {
	ListAccounts(ctx context.Context) ([]fintrack.Account, error)
	ListTransactions(ctx context.Context) ([]fintrack.Transaction, error)
	ListDebts(ctx context.Context) ([]fintrack.Debt, error)
	ListPositions(ctx context.Context) ([]fintrack.Position, error)
	ListTrades(ctx context.Context) ([]fintrack.Trade, error)
	ListGoals(ctx context.Context) ([]fintrack.Goal, error)
}

// Writer defines the write operation used by snapshot capture.
type Writer interface {
	SaveSnapshot(ctx context.Context, s fintrack.Snapshot) error
}

// Config is the caller-owned engine configuration. The engine itself holds
// no state between calls.
type Config struct {
	// HorizonDays is the forward window deciding which receivables count as
	// near-term.
	HorizonDays int
	// MinConfidence gates which due receivables enter the binary expected
	// cash metric. It does not affect the risk-adjusted metric.
	MinConfidence int
}

// DefaultConfig returns the stock configuration: 30-day horizon, minimum
// confidence 60.
func DefaultConfig() Config { return Config{HorizonDays: 30, MinConfidence: 60} }

// BalanceReport carries the raw entity lists plus every derived metric, so
// downstream consumers never re-query the store. All sums are nominal across
// currencies; no FX conversion happens anywhere (a declared limitation of
// the app, not a bug).
type BalanceReport struct {
	Accounts     []fintrack.Account
	Transactions []fintrack.Transaction
	Debts        []fintrack.Debt
	Positions    []fintrack.Position

	// AccountBalances maps account id to startingBalance plus the sum of its
	// linked transaction amounts. Transactions pointing at deleted accounts
	// are absent here but still count toward ActualCash.
	AccountBalances map[uuid.UUID]decimal.Decimal

	ActualCash       decimal.Decimal
	CashInBank       decimal.Decimal
	ExpectedCash     decimal.Decimal
	RiskAdjustedCash decimal.Decimal

	InvestmentsCurrent decimal.Decimal
	InvestmentsCost    decimal.Decimal

	OpenReceivablesTotal decimal.Decimal
	OpenPayablesTotal    decimal.Decimal
	DebtTotal            decimal.Decimal
	NetWorth             decimal.Decimal
}

// MonthlyPnL is the income/expense aggregate for one calendar month.
// Expense is reported as a non-negative magnitude.
type MonthlyPnL struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Net         decimal.Decimal
	PeriodStart fintrack.Date
	PeriodEnd   fintrack.Date
}

// TradeStats aggregates the current month's journaled trades.
type TradeStats struct {
	Total      int
	Wins       int
	Losses     int
	BreakEvens int
	TotalR     decimal.Decimal
	// WinRate is wins/total in percent, 0 when there are no trades.
	WinRate float64
	// MaxDrawdownR is the worst peak-to-trough decline of the cumulative
	// R-multiple, zero or negative.
	MaxDrawdownR decimal.Decimal
}

// Severity classifies a goal alert. Warnings mean higher-is-worse (an
// expense cap nearly used up); notices mean higher-is-better (a target
// nearly reached).
type Severity string

const (
	SeverityNotice  Severity = "notice"
	SeverityWarning Severity = "warning"
)

// GoalAlert is one qualifying goal with its progress percentage.
type GoalAlert struct {
	Goal     fintrack.Goal
	Progress decimal.Decimal
	Severity Severity
}

// alertThreshold is the progress percentage at which a goal starts alerting.
var alertThreshold = decimal.NewFromInt(80)

// maxAlerts caps how many alerts one evaluation returns.
const maxAlerts = 3

// Service exposes the engine operations.
type Service interface {
	ComputeBalances(ctx context.Context, cfg Config, today fintrack.Date) (BalanceReport, error)
	ComputeMonthlyPnL(ctx context.Context, today fintrack.Date) (MonthlyPnL, error)
	ComputeTradeStats(ctx context.Context, today fintrack.Date) (TradeStats, error)
	Alerts(ctx context.Context, cfg Config, today fintrack.Date) ([]GoalAlert, error)
	CaptureSnapshot(ctx context.Context, cfg Config, today fintrack.Date) (fintrack.Snapshot, error)
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the engine service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ComputeBalances reads accounts, transactions, debts and positions and
// derives every cash and worth metric in one pass. The four reads are issued
// concurrently and all must finish before aggregation starts, since every
// metric may depend on any collection.
func (s *service) ComputeBalances(ctx context.Context, cfg Config, today fintrack.Date) (BalanceReport, error) {
	var (
		accounts     []fintrack.Account
		transactions []fintrack.Transaction
		debts        []fintrack.Debt
		positions    []fintrack.Position
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { accounts, err = s.repo.ListAccounts(gctx); return })
	g.Go(func() (err error) { transactions, err = s.repo.ListTransactions(gctx); return })
	g.Go(func() (err error) { debts, err = s.repo.ListDebts(gctx); return })
	g.Go(func() (err error) { positions, err = s.repo.ListPositions(gctx); return })
	if err := g.Wait(); err != nil {
		return BalanceReport{}, err
	}

	r := BalanceReport{
		Accounts:        accounts,
		Transactions:    transactions,
		Debts:           debts,
		Positions:       positions,
		AccountBalances: make(map[uuid.UUID]decimal.Decimal, len(accounts)),
	}

	bank := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		r.AccountBalances[a.ID] = a.StartingBalance
		r.ActualCash = r.ActualCash.Add(a.StartingBalance)
		if a.Type == fintrack.AccountTypeBank {
			bank[a.ID] = true
			r.CashInBank = r.CashInBank.Add(a.StartingBalance)
		}
	}
	for _, t := range transactions {
		// Transfers net out because their legs carry opposite signs;
		// adjustments count like any other transaction. A dangling account
		// reference still contributes to the overall cash position.
		r.ActualCash = r.ActualCash.Add(t.Amount)
		if bank[t.AccountID] {
			r.CashInBank = r.CashInBank.Add(t.Amount)
		}
		if bal, ok := r.AccountBalances[t.AccountID]; ok {
			r.AccountBalances[t.AccountID] = bal.Add(t.Amount)
		}
	}

	cutoff := today.AddDays(cfg.HorizonDays)
	expected := decimal.Zero
	weighted := decimal.Zero
	for _, d := range debts {
		if d.Status != fintrack.DebtOpen {
			continue
		}
		switch d.Direction {
		case fintrack.DebtReceivable:
			r.OpenReceivablesTotal = r.OpenReceivablesTotal.Add(d.Amount)
		case fintrack.DebtPayable:
			r.OpenPayablesTotal = r.OpenPayablesTotal.Add(d.Amount)
			continue
		default:
			continue
		}
		// A receivable without a due date counts as due at any time, so it is
		// always inside the horizon.
		if d.DueDate != nil && d.DueDate.After(cutoff) {
			continue
		}
		weighted = weighted.Add(d.Amount.Mul(d.ConfidenceFraction()))
		if d.Confidence >= cfg.MinConfidence {
			expected = expected.Add(d.Amount)
		}
	}
	r.ExpectedCash = r.ActualCash.Add(expected)
	r.RiskAdjustedCash = r.ActualCash.Add(weighted)

	for _, p := range positions {
		r.InvestmentsCurrent = r.InvestmentsCurrent.Add(p.CurrentValue)
		r.InvestmentsCost = r.InvestmentsCost.Add(p.CostBasis())
	}

	r.DebtTotal = r.OpenPayablesTotal
	r.NetWorth = r.ActualCash.Add(r.InvestmentsCurrent).Sub(r.DebtTotal)
	return r, nil
}

// ComputeMonthlyPnL aggregates the calendar month containing today.
// Transfer-typed transactions are excluded entirely; negative amounts
// accumulate into Expense as a magnitude.
func (s *service) ComputeMonthlyPnL(ctx context.Context, today fintrack.Date) (MonthlyPnL, error) {
	transactions, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return MonthlyPnL{}, err
	}
	return monthlyPnL(transactions, today), nil
}

func monthlyPnL(transactions []fintrack.Transaction, today fintrack.Date) MonthlyPnL {
	pnl := MonthlyPnL{
		PeriodStart: today.StartOfMonth(),
		PeriodEnd:   today.EndOfMonth(),
	}
	for _, t := range transactions {
		if t.Type == fintrack.TransactionTransfer {
			continue
		}
		if t.Date.Before(pnl.PeriodStart) || t.Date.After(pnl.PeriodEnd) {
			continue
		}
		if t.Amount.IsNegative() {
			pnl.Expense = pnl.Expense.Add(t.Amount.Abs())
		} else {
			pnl.Income = pnl.Income.Add(t.Amount)
		}
	}
	pnl.Net = pnl.Income.Sub(pnl.Expense)
	return pnl
}

// ComputeTradeStats aggregates trades dated in the calendar month containing
// today.
func (s *service) ComputeTradeStats(ctx context.Context, today fintrack.Date) (TradeStats, error) {
	trades, err := s.repo.ListTrades(ctx)
	if err != nil {
		return TradeStats{}, err
	}
	return tradeStats(trades, today), nil
}

func tradeStats(trades []fintrack.Trade, today fintrack.Date) TradeStats {
	start, end := today.StartOfMonth(), today.EndOfMonth()
	month := make([]fintrack.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		month = append(month, t)
	}
	// Stable sort keeps storage order on equal dates, which pins the
	// drawdown walk for same-day trades.
	sort.SliceStable(month, func(i, j int) bool { return month[i].Date.Before(month[j].Date) })

	var st TradeStats
	st.Total = len(month)
	// Single-pass peak-to-trough walk. The peak starts at zero, not at the
	// first trade's value, so an opening losing streak measures its drawdown
	// from zero.
	cum := decimal.Zero
	peak := decimal.Zero
	for _, t := range month {
		switch t.Result {
		case fintrack.TradeWin:
			st.Wins++
		case fintrack.TradeLoss:
			st.Losses++
		case fintrack.TradeBreakEven:
			st.BreakEvens++
		}
		st.TotalR = st.TotalR.Add(t.RMultiple)
		cum = cum.Add(t.RMultiple)
		if cum.GreaterThan(peak) {
			peak = cum
		}
		if dd := cum.Sub(peak); dd.LessThan(st.MaxDrawdownR) {
			st.MaxDrawdownR = dd
		}
	}
	if st.Total > 0 {
		st.WinRate = float64(st.Wins) / float64(st.Total) * 100
	}
	return st
}

// Progress returns the goal's progress percentage against the already
// computed report and monthly P&L. The second return value is false when the
// goal has no target or an unrecognized type. A zero target yields zero
// rather than a division error. For monthly expense caps the percentage
// reads as "how much of the cap is used", so higher is worse; the polarity
// is surfaced through alert severity, not the number itself.
func Progress(g fintrack.Goal, report BalanceReport, pnl MonthlyPnL) (decimal.Decimal, bool) {
	if g.Target == nil {
		return decimal.Zero, false
	}
	var current decimal.Decimal
	switch g.Type {
	case fintrack.GoalCashInBank:
		current = report.CashInBank
	case fintrack.GoalActualCash:
		current = report.ActualCash
	case fintrack.GoalInvestments:
		current = report.InvestmentsCurrent
	case fintrack.GoalNetWorth:
		current = report.NetWorth
	case fintrack.GoalMonthlyExpenseCap:
		current = pnl.Expense
	default:
		return decimal.Zero, false
	}
	if g.Target.IsZero() {
		return decimal.Zero, true
	}
	return current.Div(*g.Target).Mul(decimal.NewFromInt(100)), true
}

// EvaluateAlerts walks goals in storage order and collects at most three
// alerts for active, non-expired goals whose progress crossed the threshold.
func EvaluateAlerts(goals []fintrack.Goal, report BalanceReport, pnl MonthlyPnL, today fintrack.Date) []GoalAlert {
	alerts := make([]GoalAlert, 0, maxAlerts)
	for _, g := range goals {
		if len(alerts) == maxAlerts {
			break
		}
		if g.Status == fintrack.GoalArchived {
			continue
		}
		if g.EndDate != nil && g.EndDate.Before(today) {
			continue
		}
		p, ok := Progress(g, report, pnl)
		if !ok || p.LessThan(alertThreshold) {
			continue
		}
		sev := SeverityNotice
		if g.Type == fintrack.GoalMonthlyExpenseCap {
			sev = SeverityWarning
		}
		alerts = append(alerts, GoalAlert{Goal: g, Progress: p, Severity: sev})
	}
	return alerts
}

// Alerts recomputes balances and monthly P&L, then evaluates every goal.
func (s *service) Alerts(ctx context.Context, cfg Config, today fintrack.Date) ([]GoalAlert, error) {
	report, err := s.ComputeBalances(ctx, cfg, today)
	if err != nil {
		return nil, err
	}
	pnl := monthlyPnL(report.Transactions, today)
	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	return EvaluateAlerts(goals, report, pnl, today), nil
}

// CaptureSnapshot persists a point-in-time copy of the headline metrics. The
// stored snapshot is informational; the engine never reads it back.
func (s *service) CaptureSnapshot(ctx context.Context, cfg Config, today fintrack.Date) (fintrack.Snapshot, error) {
	report, err := s.ComputeBalances(ctx, cfg, today)
	if err != nil {
		return fintrack.Snapshot{}, err
	}
	snap := fintrack.Snapshot{
		ID:               uuid.New(),
		Date:             today,
		NetWorth:         report.NetWorth,
		CashTotal:        report.ActualCash,
		InvestmentsValue: report.InvestmentsCurrent,
	}
	if err := s.writer.SaveSnapshot(ctx, snap); err != nil {
		return fintrack.Snapshot{}, err
	}
	return snap, nil
}
