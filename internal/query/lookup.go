package query

import (
	"slices"

	"github.com/pkordes/racelog/internal/domain"
)

// FindByID returns the record with the given ID. A miss is reported through
// the boolean, not an error.
func FindByID(records []domain.RaceRecord, id string) (domain.RaceRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.RaceRecord{}, false
}

// EventHistory returns every record sharing the exact event name, in input
// order.
func EventHistory(records []domain.RaceRecord, event string) []domain.RaceRecord {
	out := []domain.RaceRecord{}
	for _, r := range records {
		if r.EventName == event {
			out = append(out, r)
		}
	}
	return out
}

// RaceTypes returns the distinct non-empty race types, sorted.
func RaceTypes(records []domain.RaceRecord) []string {
	seen := make(map[string]struct{})
	types := []string{}
	for _, r := range records {
		if r.RaceType == "" {
			continue
		}
		if _, ok := seen[r.RaceType]; ok {
			continue
		}
		seen[r.RaceType] = struct{}{}
		types = append(types, r.RaceType)
	}
	slices.Sort(types)
	return types
}

// Page returns the slice of records covered by p.
func Page(records []domain.RaceRecord, p domain.PaginationParams) []domain.RaceRecord {
	start, end := p.Window(len(records))
	return records[start:end]
}
