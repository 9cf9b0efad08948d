package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and display layout of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time-of-day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts exactly what MarshalJSON writes, including the zero
// Date and components outside the calendar, so any Date survives a round
// trip. ParseDate is the strict parser for user input.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	var (
		parsed Date
		month  int
	)
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &parsed.Year, &month, &parsed.Day); err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	parsed.Month = time.Month(month)
	if parsed.String() != s {
		return fmt.Errorf("parse date %q: not in %s layout", s, DateLayout)
	}

	*d = parsed
	return nil
}
