package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. The fixed-width layout makes
// lexical comparison equal to chronological comparison.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: date %q", ErrInvalidInput, value)
	}
	return NewDate(t), nil
}

func (d Date) String() string { return string(d) }

func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

// Within reports whether d lies in the inclusive range [start, end].
func (d Date) Within(start, end Date) bool {
	return d >= start && d <= end
}

func (d Date) Weekend() bool {
	wd := d.Time().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// EachDay calls fn for every calendar day in [start, end].
func EachDay(start, end Date, fn func(Date)) {
	if !start.Valid() || !end.Valid() || start > end {
		return
	}
	for t, last := start.Time(), end.Time(); !t.After(last); t = t.AddDate(0, 0, 1) {
		fn(NewDate(t))
	}
}

// ClockHours returns the hours between two "15:04" clock times on the same
// day. An end before start is read as crossing midnight.
func ClockHours(start, end string) (float64, error) {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return 0, fmt.Errorf("%w: start time %q", ErrInvalidInput, start)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return 0, fmt.Errorf("%w: end time %q", ErrInvalidInput, end)
	}
	d := e.Sub(s)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours(), nil
}
