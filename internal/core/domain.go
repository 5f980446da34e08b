package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

type (
	// Operation says whether a rule adds to or subtracts from its account.
	Operation string

	// Date is a naive calendar date. No timezone semantics apply; the
	// embedded time is always midnight UTC.
	Date struct {
		time.Time
	}

	// Snapshot is a dated record of all account balances, keyed by an
	// opaque GUID. The two derived fields are stored alongside the raw
	// ones even though they are recomputable.
	Snapshot struct {
		GUID   string `json:"guid"`
		Date   Date   `json:"date"`
		Values Values `json:"values"`
	}

	// Rule is a recurring instruction to add or subtract a fixed amount
	// from one account on a given day (and optionally month). Amount is
	// always stored positive; Operation carries the sign. Month nil means
	// the rule fires every month.
	Rule struct {
		ID          string          `json:"id"`
		Day         int             `json:"day"`
		Month       *int            `json:"month"`
		Description string          `json:"description"`
		Account     string          `json:"account"`
		Amount      decimal.Decimal `json:"amount"`
		Operation   Operation       `json:"operation"`
	}

	// Event is the materialized effect of one rule match on one future
	// date. Values carries the full account state after applying the rule.
	// Events are ephemeral; they are never persisted.
	Event struct {
		Date        Date   `json:"date"`
		Description string `json:"event"`
		Values      Values `json:"values"`
	}

	// TimelineRow is one day of the dense display timeline. Event is empty
	// on carry-forward rows.
	TimelineRow struct {
		Date   Date   `json:"date"`
		Event  string `json:"event"`
		Values Values `json:"values"`
	}
)

var (
	ErrInvalidDay       = errors.New("day must be between 1 and 31")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidOperation = errors.New("operation must be add or subtract")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroDate         = errors.New("date must not be zero")
)

// NewDate builds a Date from calendar components.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as an int.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n calendar months later, with Go's usual
// normalization for short months.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

// After reports whether d is after o.
func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

// Before reports whether d is before o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool { return d.Time.Equal(o.Time) }

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the snapshot against the registry. Unknown value keys are
// rejected; missing ones are fine, they read as zero.
func (s Snapshot) Validate(reg Registry) error {
	if s.Date.IsZero() {
		return ErrZeroDate
	}
	for name := range s.Values {
		if !reg.Has(name) {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	return nil
}

// Latest returns the snapshot with the maximum date. Ties break on the first
// match in input order, so the result is deterministic. ok is false when the
// ledger is empty.
func Latest(snapshots []Snapshot) (latest Snapshot, ok bool) {
	for _, s := range snapshots {
		if !ok || s.Date.After(latest.Date) {
			latest, ok = s, true
		}
	}
	return latest, ok
}

// Validate checks a rule at the editing boundary. The projection engine
// assumes rules passed to it already validate.
func (r Rule) Validate(reg Registry) error {
	if r.Day < 1 || r.Day > 31 {
		return ErrInvalidDay
	}
	if r.Month != nil {
		if *r.Month < 1 || *r.Month > 12 {
			return ErrInvalidMonth
		}
		// A month-bound rule whose day the month never reaches would
		// validate but never fire.
		if max := maxDayOfMonth(*r.Month); r.Day > max {
			return fmt.Errorf("%w: day %d never occurs in %s", ErrInvalidDay, r.Day, time.Month(*r.Month))
		}
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !reg.Has(r.Account) {
		return fmt.Errorf("%w: %q", ErrUnknownField, r.Account)
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	switch r.Operation {
	case OpAdd, OpSubtract:
	default:
		return ErrInvalidOperation
	}
	return nil
}

// maxDayOfMonth returns the highest day the month reaches in any year.
// February counts 29 for leap years.
func maxDayOfMonth(month int) int {
	switch time.Month(month) {
	case time.February:
		return 29
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// Matches reports whether the rule fires on the given day: the day of month
// must equal the rule's day, and the rule's month must be nil (any month) or
// equal the day's month.
func (r Rule) Matches(d Date) bool {
	if r.Day != d.Day() {
		return false
	}
	return r.Month == nil || *r.Month == d.Month()
}

// Signed returns the amount with the operation's sign applied.
func (r Rule) Signed() decimal.Decimal {
	if r.Operation == OpSubtract {
		return r.Amount.Neg()
	}
	return r.Amount
}

// Summary renders the rule as a human-readable sentence, e.g.
// "Every 2 of the month: Add ₹25,000 to SBI Overdraft (₹)."
func (r Rule) Summary(reg Registry) string {
	var when string
	if r.Month == nil {
		when = fmt.Sprintf("Every %d of the month", r.Day)
	} else {
		when = fmt.Sprintf("On %s %d", time.Month(*r.Month), r.Day)
	}
	verb := "Add"
	prep := "to"
	if r.Operation == OpSubtract {
		verb = "Subtract"
		prep = "from"
	}
	amount := reg.Symbol(r.Account) + groupThousands(r.Amount)
	return fmt.Sprintf("%s: %s %s %s %s.", when, verb, amount, prep, r.Account)
}

// groupThousands renders a non-negative decimal with comma separators and no
// fractional digits, matching the tracker's display convention.
func groupThousands(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
