// Package normalize turns the loosely formatted text of the race sheet into
// comparable values: calendar days, durations, identity keys and objectives.
// Every function is total: malformed input produces a marker value, never an
// error or a panic.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/racelog/internal/domain"
)

// weekdayPrefix matches a leading weekday name such as "Sab " or "Sat ".
var weekdayPrefix = regexp.MustCompile(`^[A-Za-z]+\s+`)

// isoLayouts are tried in order once slash dates have been rewritten.
// The single-digit layout also accepts zero-padded input.
var isoLayouts = []string{
	"2006-1-2",
	time.RFC3339,
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
}

// monthNames maps English and Italian three-letter month abbreviations.
var monthNames = map[string]time.Month{
	"jan": time.January, "gen": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May, "mag": time.May,
	"jun": time.June, "giu": time.June,
	"jul": time.July, "lug": time.July,
	"aug": time.August, "ago": time.August,
	"sep": time.September, "set": time.September,
	"oct": time.October, "ott": time.October,
	"nov": time.November,
	"dec": time.December, "dic": time.December,
}

// Date parses race-sheet date text into a calendar day.
//
// Slash dates are always day-first (29/11/2025); month-first is never tried.
// ISO dates (2025-11-29, optionally with a time of day) and day-name-year
// dates (29 Nov 2025, 29 nov 2025) are accepted too. A leading weekday name
// is ignored. Anything else yields domain.InvalidDay.
func Date(text string) domain.CalendarDay {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(weekdayPrefix.ReplaceAllString(s, ""))
	if s == "" {
		return domain.InvalidDay
	}

	if parts := strings.Split(s, "/"); len(parts) == 3 {
		day, month, year := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
		s = year + "-" + padTwo(month) + "-" + padTwo(day)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DayOf(t)
		}
	}
	return namedMonthDate(s)
}

// namedMonthDate reads "29 Nov 2025" style text.
func namedMonthDate(s string) domain.CalendarDay {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return domain.InvalidDay
	}
	name := strings.ToLower(fields[1])
	if len(name) < 3 {
		return domain.InvalidDay
	}
	month, ok := monthNames[name[:3]]
	if !ok {
		return domain.InvalidDay
	}
	d, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.InvalidDay
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil || y < 1000 {
		return domain.InvalidDay
	}
	return domain.NewCalendarDay(y, month, d)
}

func padTwo(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}
