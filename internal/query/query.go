// Package query filters and orders race records.
// Every function is pure: inputs are never modified and the reference day is
// always passed in, so results are reproducible for any simulated date.
package query

import (
	"slices"
	"strings"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/normalize"
)

// Run returns the records matching every criterion of spec, sorted as spec
// asks. The input slice is left untouched.
func Run(records []domain.RaceRecord, spec domain.QuerySpec, today domain.CalendarDay) []domain.RaceRecord {
	m := newMatcher(spec)
	out := make([]domain.RaceRecord, 0, len(records))
	for _, r := range records {
		if m.match(r, today) {
			out = append(out, r)
		}
	}
	Sort(out, spec.Sort, spec.Order, today)
	return out
}

// Match reports whether r satisfies every non-empty criterion of spec.
func Match(r domain.RaceRecord, spec domain.QuerySpec, today domain.CalendarDay) bool {
	return newMatcher(spec).match(r, today)
}

type matcher struct {
	search    string
	status    domain.Status
	raceType  string
	eventName string
}

func newMatcher(spec domain.QuerySpec) matcher {
	return matcher{
		search:    strings.ToLower(strings.TrimSpace(spec.Search)),
		status:    spec.Status,
		raceType:  strings.ToLower(strings.TrimSpace(spec.RaceType)),
		eventName: strings.TrimSpace(spec.EventName),
	}
}

func (m matcher) match(r domain.RaceRecord, today domain.CalendarDay) bool {
	if m.search != "" && !containsFold(m.search, r.EventName, r.City, r.Distance, r.Region) {
		return false
	}
	if m.raceType != "" && r.RaceType != m.raceType {
		return false
	}
	if m.eventName != "" && r.EventName != m.eventName {
		return false
	}
	if m.status != "" && r.StatusAt(today) != m.status {
		return false
	}
	return true
}

// containsFold reports whether any field contains the lowercase needle.
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Sort orders records in place. The sort is stable: records that compare
// equal keep their input order.
//
// SortByDate defaults to newest first; invalid dates always come last.
// SortByResult defaults to fastest first; records without a comparable time
// always come last.
func Sort(records []domain.RaceRecord, field domain.SortField, order domain.SortOrder, today domain.CalendarDay) {
	if field == domain.SortByResult {
		desc := order == domain.OrderDesc
		slices.SortStableFunc(records, func(a, b domain.RaceRecord) int {
			return compareSeconds(ResultSeconds(a, today), ResultSeconds(b, today), desc)
		})
		return
	}

	desc := order != domain.OrderAsc
	slices.SortStableFunc(records, func(a, b domain.RaceRecord) int {
		return compareDays(a.Date, b.Date, desc)
	})
}

func compareDays(a, b domain.CalendarDay, desc bool) int {
	switch {
	case !a.Valid() && !b.Valid():
		return 0
	case !a.Valid():
		return 1
	case !b.Valid():
		return -1
	}
	if desc {
		return b.Compare(a)
	}
	return a.Compare(b)
}

func compareSeconds(a, b domain.Seconds, desc bool) int {
	switch {
	case a.IsInfinite() && b.IsInfinite():
		return 0
	case a.IsInfinite():
		return 1
	case b.IsInfinite():
		return -1
	}
	if desc {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ResultSeconds is the comparable time of a race on today: the final time of
// a completed race, the target time of a scheduled one, and domain.Infinite
// for everything else.
func ResultSeconds(r domain.RaceRecord, today domain.CalendarDay) domain.Seconds {
	switch r.StatusAt(today) {
	case domain.StatusCompleted:
		return normalize.ParseDuration(r.FinalTime)
	case domain.StatusScheduled:
		return normalize.ParseDuration(r.Objective.TargetTime)
	default:
		return domain.Infinite
	}
}
