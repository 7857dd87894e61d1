package fintrack

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType enumerates where an account's money lives.
type AccountType string

const (
	// AccountTypeBank is a current or savings account at a bank.
	AccountTypeBank AccountType = "bank"
	// AccountTypeCash is physical cash on hand.
	AccountTypeCash AccountType = "cash"
	// AccountTypeBroker is a brokerage cash account.
	AccountTypeBroker AccountType = "broker"
)

// TransactionType identifies how a transaction entered the ledger.
type TransactionType string

const (
	// TransactionNormal is an ordinary user-entered inflow or outflow.
	TransactionNormal TransactionType = "normal"
	// TransactionTransfer is one leg of a two-leg transfer between accounts.
	TransactionTransfer TransactionType = "transfer"
	// TransactionAdjustment reconciles an account to a known balance.
	TransactionAdjustment TransactionType = "adjustment"
)

// Source tags where a transaction came from. It feeds the content digest so
// an identical manually-entered row and imported row do not collide.
type Source string

const (
	SourceManual Source = "manual"
	SourceImport Source = "import"
)

// DebtDirection tells whether money is owed to the user or by the user.
type DebtDirection string

const (
	DebtReceivable DebtDirection = "receivable"
	DebtPayable    DebtDirection = "payable"
)

// DebtStatus is the lifecycle state of a debt. Only open debts feed
// projections.
type DebtStatus string

const (
	DebtOpen       DebtStatus = "open"
	DebtClosed     DebtStatus = "closed"
	DebtDisputed   DebtStatus = "disputed"
	DebtWrittenOff DebtStatus = "writtenoff"
)

// DefaultConfidence is applied when a debt is created without an explicit
// confidence estimate.
const DefaultConfidence = 60

// TradeSide is the direction of a journaled trade.
type TradeSide string

const (
	TradeLong  TradeSide = "long"
	TradeShort TradeSide = "short"
)

// TradeResult is the trader's own classification of the outcome.
// An empty result means the trade is still open or unclassified.
type TradeResult string

const (
	TradeWin       TradeResult = "win"
	TradeLoss      TradeResult = "loss"
	TradeBreakEven TradeResult = "be"
	TradeUnset     TradeResult = ""
)

// GoalType selects which computed metric a goal is measured against.
type GoalType string

const (
	GoalCashInBank        GoalType = "cash_in_bank"
	GoalActualCash        GoalType = "actual_cash"
	GoalInvestments       GoalType = "investments"
	GoalNetWorth          GoalType = "net_worth"
	GoalMonthlyExpenseCap GoalType = "monthly_expense_cap"
)

// GoalStatus marks whether a goal still participates in alerting.
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalArchived GoalStatus = "archived"
)

// Account is a place money sits. Its balance is StartingBalance plus the sum
// of its linked transaction amounts; the balance itself is never stored.
type Account struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Type            AccountType     `json:"type"`
	Currency        string          `json:"currency"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Note            string          `json:"note,omitempty"`
}

// Transaction is a signed movement of money on an account. Positive amounts
// are inflows, negative amounts outflows. Transfer legs share a
// TransferGroupID and carry equal-and-opposite amounts; the store does not
// enforce that pairing, so readers must tolerate unmatched legs. AccountID
// and CategoryID may dangle after a delete; readers resolve those to
// placeholders rather than failing.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	Type            TransactionType `json:"type"`
	Date            Date            `json:"date"`
	AccountID       uuid.UUID       `json:"account_id"`
	CategoryID      uuid.UUID       `json:"category_id,omitempty"`
	Description     string          `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	ContentHash     string          `json:"content_hash,omitempty"`
	TransferGroupID uuid.UUID       `json:"transfer_group_id,omitempty"`
}

// Category is a flat label for transactions. No hierarchy.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Instrument is a tradable security referenced by positions.
type Instrument struct {
	ID       uuid.UUID `json:"id"`
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name,omitempty"`
	Type     string    `json:"type,omitempty"`
	Currency string    `json:"currency,omitempty"`
}

// Position is a holding in an instrument. CurrentValue is entered manually;
// there is no live pricing.
type Position struct {
	ID           uuid.UUID       `json:"id"`
	InstrumentID uuid.UUID       `json:"instrument_id"`
	Qty          decimal.Decimal `json:"qty"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Note         string          `json:"note,omitempty"`
}

// CostBasis returns Qty × AvgCost.
func (p Position) CostBasis() decimal.Decimal {
	return p.Qty.Mul(p.AvgCost)
}

// UnrealizedPnL returns CurrentValue minus cost basis.
func (p Position) UnrealizedPnL() decimal.Decimal {
	return p.CurrentValue.Sub(p.CostBasis())
}

// Debt is money owed to or by the user. Amount is stored non-negative
// regardless of direction; Direction alone decides the sign in aggregation.
// Confidence is a 0-100 estimate of collection probability and only matters
// for receivables. A nil DueDate means the debt could be called at any time,
// so projections always count it as due.
type Debt struct {
	ID         uuid.UUID       `json:"id"`
	Direction  DebtDirection   `json:"direction"`
	Status     DebtStatus      `json:"status"`
	Person     string          `json:"person"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    *Date           `json:"due_date,omitempty"`
	Confidence int             `json:"confidence"`
	Note       string          `json:"note,omitempty"`
}

// NewDebt applies the construction-time defaults: absolute amount, open
// status, and confidence defaulted (when nil) then clamped to [0,100].
// Consumers never re-apply these rules.
func NewDebt(direction DebtDirection, person string, amount decimal.Decimal, dueDate *Date, confidence *int) Debt {
	c := DefaultConfidence
	if confidence != nil {
		c = *confidence
	}
	return Debt{
		ID:         uuid.New(),
		Direction:  direction,
		Status:     DebtOpen,
		Person:     person,
		Amount:     amount.Abs(),
		DueDate:    dueDate,
		Confidence: ClampConfidence(c),
	}
}

// ClampConfidence bounds a confidence estimate to [0,100].
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// ConfidenceFraction returns confidence as a decimal in [0,1].
func (d Debt) ConfidenceFraction() decimal.Decimal {
	return decimal.NewFromInt(int64(ClampConfidence(d.Confidence))).Div(decimal.NewFromInt(100))
}

// Trade is one journaled trade with its R-multiple outcome.
type Trade struct {
	ID         uuid.UUID       `json:"id"`
	Date       Date            `json:"date"`
	Symbol     string          `json:"symbol"`
	Side       TradeSide       `json:"side"`
	Result     TradeResult     `json:"result,omitempty"`
	Entry      decimal.Decimal `json:"entry"`
	Exit       decimal.Decimal `json:"exit"`
	StopLoss   decimal.Decimal `json:"sl"`
	TakeProfit decimal.Decimal `json:"tp"`
	Size       decimal.Decimal `json:"size"`
	RMultiple  decimal.Decimal `json:"r_multiple"`
	Tag        string          `json:"tag,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// Goal is a target for one computed metric. Target may be nil, in which case
// progress is undefined rather than zero.
type Goal struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Type        GoalType         `json:"type"`
	Target      *decimal.Decimal `json:"target_value,omitempty"`
	StartDate   Date             `json:"start_date"`
	EndDate     *Date            `json:"end_date,omitempty"`
	Status      GoalStatus       `json:"status"`
	Description string           `json:"description,omitempty"`
}

// Snapshot is a manually captured copy of the headline metrics at a point in
// time. It is informational only and never read back by the computation.
type Snapshot struct {
	ID               uuid.UUID       `json:"id"`
	Date             Date            `json:"date"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	CashTotal        decimal.Decimal `json:"cash_total"`
	InvestmentsValue decimal.Decimal `json:"investments_value"`
}

// Settings is the singleton app configuration kept in the meta collection.
type Settings struct {
	BaseCurrency string `json:"base_currency"`
	Seeded       bool   `json:"seeded"`
}
