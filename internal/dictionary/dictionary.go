// Package dictionary holds the curated catalogs the app ships with: the
// default category set seeded on first run and the recognized goal types.
package dictionary

import "github.com/avely/fintrack/internal/fintrack"

// CategoryDef describes one seeded category.
type CategoryDef struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// DefaultCategories is inserted once when the store reports itself unseeded.
var DefaultCategories = []CategoryDef{
	{Code: "salary", Label: "Salary"},
	{Code: "other_income", Label: "Other Income"},
	{Code: "groceries", Label: "Groceries"},
	{Code: "eating_out", Label: "Eating Out"},
	{Code: "rent", Label: "Rent"},
	{Code: "utilities", Label: "Utilities"},
	{Code: "transport", Label: "Transport"},
	{Code: "shopping", Label: "Shopping"},
	{Code: "entertainment", Label: "Entertainment"},
	{Code: "health", Label: "Health"},
	{Code: "travel", Label: "Travel"},
	{Code: "fees", Label: "Fees"},
	{Code: "general", Label: "General"},
}

// GoalTypeDef describes one recognized goal type. HigherIsBetter encodes the
// polarity of the progress percentage: for an expense cap a high percentage
// means the cap is nearly used up, for every other type it means the target
// is nearly reached.
type GoalTypeDef struct {
	Code           fintrack.GoalType `json:"code"`
	Label          string            `json:"label"`
	HigherIsBetter bool              `json:"higher_is_better"`
}

// GoalTypes lists the goal types in presentation order.
var GoalTypes = []GoalTypeDef{
	{Code: fintrack.GoalCashInBank, Label: "Cash in bank", HigherIsBetter: true},
	{Code: fintrack.GoalActualCash, Label: "Actual cash", HigherIsBetter: true},
	{Code: fintrack.GoalInvestments, Label: "Investments", HigherIsBetter: true},
	{Code: fintrack.GoalNetWorth, Label: "Net worth", HigherIsBetter: true},
	{Code: fintrack.GoalMonthlyExpenseCap, Label: "Monthly expense cap", HigherIsBetter: false},
}

// IsGoalType reports whether t is one of the recognized goal types.
func IsGoalType(t fintrack.GoalType) bool {
	for _, def := range GoalTypes {
		if def.Code == t {
			return true
		}
	}
	return false
}
