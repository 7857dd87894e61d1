// Package normalize turns loosely formatted user input into canonical values.
// Both functions fail soft: unparseable amounts become zero and unparseable
// dates report not-ok, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avely/fintrack/internal/fintrack"
)

// amountJunk matches every rune that cannot be part of a numeric amount.
// Currency symbols, spaces and letters are all stripped before parsing.
var amountJunk = regexp.MustCompile(`[^0-9.,+-]`)

// looseDate matches D.M.Y with '.', '-' or '/' separators, 1-2 digit day and
// month, 2 or 4 digit year.
var looseDate = regexp.MustCompile(`^(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{2,4})$`)

// ParseAmount parses a free-form amount string like "€ 1.234,56" or
// "1,234.56". Whichever of '.' and ',' occurs last in the cleaned string is
// the decimal separator; every other occurrence of either is a grouping
// separator and is removed. Unparseable input yields zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := amountJunk.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')
	sep := -1
	if lastDot > lastComma {
		sep = lastDot
	} else if lastComma > lastDot {
		sep = lastComma
	}

	var b strings.Builder
	for i, r := range cleaned {
		switch r {
		case '.', ',':
			if i == sep {
				b.WriteByte('.')
			}
		default:
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDateLoose parses a date typed by a user. It tries the ISO form first
// and falls back to day-month-year with '.', '-' or '/' separators; 2-digit
// years are read as 2000+YY. The second return value is false when the input
// matches no pattern or names an impossible day.
func ParseDateLoose(s string) (fintrack.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fintrack.Date{}, false
	}
	if d, err := fintrack.ParseDate(s); err == nil {
		return d, true
	}
	m := looseDate.FindStringSubmatch(s)
	if m == nil {
		return fintrack.Date{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	return civil(year, month, day)
}

// civil builds a Date and rejects values that only normalize into a valid
// day by rolling over (e.g. 31-02).
func civil(year, month, day int) (fintrack.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return fintrack.Date{}, false
	}
	d := fintrack.NewDate(year, time.Month(month), day)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return fintrack.Date{}, false
	}
	return d, true
}
