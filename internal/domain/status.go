package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a race relative to a reference day.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusCompleted   Status = "completed"
	StatusWithdrawn   Status = "withdrawn"
	StatusInvalidDate Status = "invalid_date"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusScheduled, StatusCompleted, StatusWithdrawn, StatusInvalidDate}

var statusLabels = map[Status]string{
	StatusScheduled:   "In Programma",
	StatusCompleted:   "Completata",
	StatusWithdrawn:   "Ritirata",
	StatusInvalidDate: "Data Non Valida",
}

// Classify derives a status from the normalized date, the final time text and
// today. Comparison is at day granularity; a race on today counts as past.
func Classify(date CalendarDay, finalTime string, today CalendarDay) Status {
	switch {
	case !date.Valid():
		return StatusInvalidDate
	case date.After(today):
		return StatusScheduled
	case strings.TrimSpace(finalTime) != "":
		return StatusCompleted
	default:
		return StatusWithdrawn
	}
}

// Label is the display text used by the calendar UI.
func (s Status) Label() string {
	return statusLabels[s]
}

// ParseStatus reads a status filter value. It accepts the token form
// ("completed") and the display label ("Completata"), case-insensitively.
// An empty value, "all" or "Tutti" means no constraint and returns "".
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") || strings.EqualFold(s, "tutti") {
		return "", nil
	}
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, st.Label()) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}
