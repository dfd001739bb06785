package domain

import (
	"encoding/json"
	"time"
)

const dayLayout = "2006-01-02"

// CalendarDay is a date without time of day or zone.
// The zero value is the invalid day: it never equals a real date, and
// callers must check Valid before comparing.
type CalendarDay struct {
	year  int
	month time.Month
	day   int
	valid bool
}

// InvalidDay is the explicit marker for text that could not be read as a date.
var InvalidDay = CalendarDay{}

// NewCalendarDay returns the given day, or InvalidDay when the components do
// not name a real calendar date (e.g. 31 February).
func NewCalendarDay(year int, month time.Month, day int) CalendarDay {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return InvalidDay
	}
	return CalendarDay{year: year, month: month, day: day, valid: true}
}

// DayOf returns the calendar day of t as written, ignoring its time of day.
// No zone conversion happens; pass t.UTC() to get the UTC day.
func DayOf(t time.Time) CalendarDay {
	y, m, d := t.Date()
	return CalendarDay{year: y, month: m, day: d, valid: true}
}

// Today returns the UTC calendar day containing now.
func Today(now time.Time) CalendarDay {
	return DayOf(now.UTC())
}

// Valid reports whether c names a real date.
func (c CalendarDay) Valid() bool {
	return c.valid
}

func (c CalendarDay) Year() int {
	return c.year
}

func (c CalendarDay) Month() time.Month {
	return c.month
}

func (c CalendarDay) Day() int {
	return c.day
}

// Time returns midnight UTC of the day, or the zero time for InvalidDay.
func (c CalendarDay) Time() time.Time {
	if !c.valid {
		return time.Time{}
	}
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
}

// Compare orders two days by (year, month, day). Invalid days order after
// every valid day and equal to each other.
func (c CalendarDay) Compare(o CalendarDay) int {
	switch {
	case !c.valid && !o.valid:
		return 0
	case !c.valid:
		return 1
	case !o.valid:
		return -1
	}
	for _, d := range [3]int{c.year - o.year, int(c.month - o.month), c.day - o.day} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

// After reports whether c is strictly later than o. False if either is invalid.
func (c CalendarDay) After(o CalendarDay) bool {
	return c.valid && o.valid && c.Compare(o) > 0
}

// Before reports whether c is strictly earlier than o. False if either is invalid.
func (c CalendarDay) Before(o CalendarDay) bool {
	return c.valid && o.valid && c.Compare(o) < 0
}

// String returns the ISO form, or "invalid".
func (c CalendarDay) String() string {
	if !c.valid {
		return "invalid"
	}
	return c.Time().Format(dayLayout)
}

// MarshalJSON encodes a valid day as "2006-01-02" and InvalidDay as null.
func (c CalendarDay) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (c CalendarDay) MarshalYAML() (any, error) {
	if !c.valid {
		return nil, nil
	}
	return c.String(), nil
}
