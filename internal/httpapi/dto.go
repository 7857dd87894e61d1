package httpapi

import (
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/fintrack"
	"github.com/avely/fintrack/internal/service/ledger"
	"github.com/avely/fintrack/internal/service/report"
	"github.com/avely/fintrack/internal/service/tracking"
)

// Entities carry their own JSON shape, so most endpoints decode straight
// into the domain structs. The types here cover the requests that do not map
// onto a single entity and the computed-report payloads.

type transferRequest struct {
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	Date          fintrack.Date   `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

type importRequest struct {
	AccountID uuid.UUID          `json:"account_id"`
	Rows      []ledger.ImportRow `json:"rows"`
}

// postDebtRequest distinguishes "confidence omitted" from "confidence 0".
type postDebtRequest struct {
	Direction  fintrack.DebtDirection `json:"direction"`
	Person     string                 `json:"person"`
	Amount     decimal.Decimal        `json:"amount"`
	DueDate    *fintrack.Date         `json:"due_date,omitempty"`
	Confidence *int                   `json:"confidence,omitempty"`
	Note       string                 `json:"note,omitempty"`
}

func (r postDebtRequest) input() tracking.DebtInput {
	return tracking.DebtInput{
		Direction:  r.Direction,
		Person:     r.Person,
		Amount:     r.Amount,
		DueDate:    r.DueDate,
		Confidence: r.Confidence,
		Note:       r.Note,
	}
}

type balancesResponse struct {
	Date          fintrack.Date `json:"date"`
	HorizonDays   int           `json:"horizon_days"`
	MinConfidence int           `json:"min_confidence"`

	AccountBalances map[uuid.UUID]decimal.Decimal `json:"account_balances"`

	ActualCash       decimal.Decimal `json:"actual_cash"`
	CashInBank       decimal.Decimal `json:"cash_in_bank"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	RiskAdjustedCash decimal.Decimal `json:"risk_adjusted_cash"`

	InvestmentsCurrent decimal.Decimal `json:"investments_current"`
	InvestmentsCost    decimal.Decimal `json:"investments_cost"`

	OpenReceivablesTotal decimal.Decimal `json:"open_receivables_total"`
	OpenPayablesTotal    decimal.Decimal `json:"open_payables_total"`
	DebtTotal            decimal.Decimal `json:"debt_total"`
	NetWorth             decimal.Decimal `json:"net_worth"`
}

type monthlyResponse struct {
	PeriodStart fintrack.Date   `json:"period_start"`
	PeriodEnd   fintrack.Date   `json:"period_end"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Net         decimal.Decimal `json:"net"`
}

type tradeStatsResponse struct {
	Total        int             `json:"total"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	BreakEvens   int             `json:"break_evens"`
	TotalR       decimal.Decimal `json:"total_r"`
	WinRate      float64         `json:"win_rate"`
	MaxDrawdownR decimal.Decimal `json:"max_drawdown_r"`
}

type alertResponse struct {
	Goal     fintrack.Goal   `json:"goal"`
	Progress decimal.Decimal `json:"progress"`
	Severity report.Severity `json:"severity"`
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryDate reads the optional ?date=YYYY-MM-DD parameter, defaulting to the
// current day. The bool is false when the parameter was present but
// malformed (a 400 has been written).
func queryDate(w http.ResponseWriter, r *http.Request) (fintrack.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return fintrack.Today(), true
	}
	d, err := fintrack.ParseDate(raw)
	if err != nil {
		badRequest(w, "invalid date")
		return fintrack.Date{}, false
	}
	return d, true
}

// queryConfig reads the optional horizon_days and min_confidence overrides
// on top of the default engine configuration.
func queryConfig(w http.ResponseWriter, r *http.Request) (report.Config, bool) {
	cfg := report.DefaultConfig()
	if raw := r.URL.Query().Get("horizon_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "invalid horizon_days")
			return report.Config{}, false
		}
		cfg.HorizonDays = n
	}
	if raw := r.URL.Query().Get("min_confidence"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			badRequest(w, "invalid min_confidence")
			return report.Config{}, false
		}
		cfg.MinConfidence = n
	}
	return cfg, true
}
