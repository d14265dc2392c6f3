// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// dayFormat is the wire format for calendar days: ISO-8601 date with no time
// component and no zone.
const dayFormat = "2006-01-02"

// Day is a single calendar day. It is comparable and usable as a map or set
// key; two Days are equal iff they denote the same calendar date.
type Day struct {
	year  int
	month time.Month
	day   int
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// MustDay is ParseDay for literals in tests and fixtures. Panics on bad input.
func MustDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DayOf truncates t to its calendar day in t's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// String renders the day in wire format.
func (d Day) String() string { return d.Time().Format(dayFormat) }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d == Day{} }

// Next returns the following calendar day, rolling over months and years.
func (d Day) Next() Day { return DayOf(d.Time().AddDate(0, 0, 1)) }

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d.Time().Before(o.Time()) }

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool { return d.Time().After(o.Time()) }

// MarshalJSON renders the day as a quoted YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid day %s: not a JSON string", data)
	}
	parsed, err := ParseDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
