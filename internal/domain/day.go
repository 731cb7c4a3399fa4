package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayFormat is the layout used to store and display a Day (ISO-8601 calendar date)
const DayFormat = "2006-01-02"

// Day represents a calendar day with no time-of-day component.
// It is the key of a ledger bucket.
type Day struct {
	y int
	m time.Month
	d int
}

// NewDay returns a normalized Day for the given year, month and day
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// DayOf returns the calendar day of t in t's own location
func DayOf(t time.Time) Day { return NewDay(t.Date()) }

// ParseDay parses a Day in the "2006-01-02" form
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q, want format %q: %w", s, DayFormat, err)
	}
	return DayOf(t), nil
}

// MustParseDay is like ParseDay but panics on error
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Day) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether d is the zero Day
func (d Day) IsZero() bool { return d == Day{} }

// Before reports whether d is before x
func (d Day) Before(x Day) bool { return d.time().Before(x.time()) }

// After reports whether d is after x
func (d Day) After(x Day) bool { return d.time().After(x.time()) }

// AddDays returns d shifted by n days
func (d Day) AddDays(n int) Day { return NewDay(d.y, d.m, d.d+n) }

// String formats the day as YYYY-MM-DD
func (d Day) String() string { return d.time().Format(DayFormat) }

// MarshalJSON encodes the day as a "YYYY-MM-DD" string
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = Day{}
var _ json.Unmarshaler = (*Day)(nil)
