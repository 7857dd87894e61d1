package fintrack

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the canonical ISO-8601 day format used everywhere a date is
// written out.
const DateFormat = "2006-01-02"

// readDateFormat is the permissive form accepted on read (allows 2025-7-1).
const readDateFormat = "2006-1-2"

// Date is a calendar day with no time-of-day or zone. The zero value is not a
// valid day and reads as "unset".
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month, and day.
// Out-of-range components roll over the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in UTC.
func Today() Date { return NewDate(time.Now().UTC().Date()) }

func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Year returns the year.
func (d Date) Year() int { return d.y }

// Month returns the month.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// AddDays returns the date i days after d (or before, for negative i).
func (d Date) AddDays(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// StartOfMonth returns the first day of d's calendar month.
func (d Date) StartOfMonth() Date { return NewDate(d.y, d.m, 1) }

// EndOfMonth returns the last day of d's calendar month.
func (d Date) EndOfMonth() Date { return NewDate(d.y, d.m+1, 0) }

// String formats the date in the canonical ISO form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// ParseDate parses an ISO date, tolerating single-digit month and day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want %q: %w", s, DateFormat, err)
	}
	return NewDate(t.Date()), nil
}

// MustParseDate is ParseDate that panics on error. Test helper.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON writes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a "YYYY-MM-DD" string. Empty and null read as unset.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
