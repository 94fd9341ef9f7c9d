package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// monthTokenLayout is the canonical wire format for billing months.
// All persisted month lists and breakdown maps are keyed by this token.
const monthTokenLayout = "2006-01"

// Month is a value object identifying one calendar billing month.
// It is the atomic unit of billing: tariffs resolve per Month, arrears
// are sets of Months, and payments settle lists of Months.
type Month struct {
	year  int
	month time.Month
}

// NewMonth creates a Month from a year and a calendar month
func NewMonth(year int, month time.Month) Month {
	return Month{year: year, month: month}
}

// MonthOf truncates a timestamp to its calendar month
func MonthOf(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

// ParseMonth parses a canonical "YYYY-MM" token
func ParseMonth(token string) (Month, error) {
	t, err := time.Parse(monthTokenLayout, token)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month token %q: %w", token, err)
	}
	return MonthOf(t), nil
}

// MustParseMonth parses a month token, panics on invalid input.
// Intended for tests and constants.
func MustParseMonth(token string) Month {
	m, err := ParseMonth(token)
	if err != nil {
		panic(err)
	}
	return m
}

// Year returns the calendar year
func (m Month) Year() int {
	return m.year
}

// Month returns the calendar month
func (m Month) Month() time.Month {
	return m.month
}

// IsZero returns true for the zero value
func (m Month) IsZero() bool {
	return m.year == 0 && m.month == 0
}

// Date returns the representative date for the month: the first day
// of the month at midnight UTC.
func (m Month) Date() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// String returns the canonical "YYYY-MM" token
func (m Month) String() string {
	return m.Date().Format(monthTokenLayout)
}

// Next returns the following calendar month
func (m Month) Next() Month {
	return MonthOf(m.Date().AddDate(0, 1, 0))
}

// Prev returns the preceding calendar month
func (m Month) Prev() Month {
	return MonthOf(m.Date().AddDate(0, -1, 0))
}

// Before reports whether m is chronologically before other
func (m Month) Before(other Month) bool {
	if m.year != other.year {
		return m.year < other.year
	}
	return m.month < other.month
}

// After reports whether m is chronologically after other
func (m Month) After(other Month) bool {
	return other.Before(m)
}

// Equal reports whether both months identify the same calendar month
func (m Month) Equal(other Month) bool {
	return m.year == other.year && m.month == other.month
}

// Compare returns -1, 0 or 1 ordering m against other chronologically
func (m Month) Compare(other Month) int {
	switch {
	case m.Before(other):
		return -1
	case m.After(other):
		return 1
	default:
		return 0
	}
}

// MonthsBetween enumerates every month from from through to inclusive,
// in chronological order. Returns nil when from is after to.
func MonthsBetween(from, to Month) []Month {
	if from.After(to) {
		return nil
	}
	months := make([]Month, 0, 12)
	for m := from; !m.After(to); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// MarshalText implements encoding.TextMarshaler so Months serialize as
// "YYYY-MM" both as JSON values and as JSON object keys.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so a Month column stores its token
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for reading a Month column
func (m *Month) Scan(value interface{}) error {
	var token string
	switch v := value.(type) {
	case string:
		token = v
	case []byte:
		token = string(v)
	case nil:
		*m = Month{}
		return nil
	default:
		return fmt.Errorf("failed to scan Month: unsupported type %T", value)
	}

	parsed, err := ParseMonth(token)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MonthList is an ordered list of billing months. It is persisted as a
// JSONB array of "YYYY-MM" tokens, the external shape reporting and
// receipt consumers depend on.
type MonthList []Month

// Contains reports whether the list includes the given month
func (l MonthList) Contains(month Month) bool {
	for _, m := range l {
		if m.Equal(month) {
			return true
		}
	}
	return false
}

// Tokens returns the canonical token for each month in order
func (l MonthList) Tokens() []string {
	tokens := make([]string, len(l))
	for i, m := range l {
		tokens[i] = m.String()
	}
	return tokens
}

// ParseMonthList parses a list of "YYYY-MM" tokens preserving order
func ParseMonthList(tokens []string) (MonthList, error) {
	months := make(MonthList, len(tokens))
	for i, token := range tokens {
		m, err := ParseMonth(token)
		if err != nil {
			return nil, err
		}
		months[i] = m
	}
	return months, nil
}

// Value implements driver.Valuer for GORM to store as JSONB
func (l MonthList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (l *MonthList) Scan(value interface{}) error {
	if value == nil {
		*l = MonthList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan MonthList: unsupported type %T", value)
	}

	if len(bytes) == 0 {
		*l = MonthList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}
