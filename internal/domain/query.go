package domain

import (
	"fmt"
	"strings"
)

// SortField selects the ordering of a query result.
type SortField string

const (
	// SortByDate orders by race day; the default.
	SortByDate SortField = "date"
	// SortByResult orders by comparable time: final time for completed
	// races, target time for scheduled ones.
	SortByResult SortField = "result"
)

// SortOrder is the direction of a sort. The zero value picks the field's
// natural direction: newest first for dates, fastest first for results.
type SortOrder string

const (
	OrderDefault SortOrder = ""
	OrderAsc     SortOrder = "asc"
	OrderDesc    SortOrder = "desc"
)

// QuerySpec holds the optional criteria of a race query.
// Empty fields are not constraints. A record must satisfy every non-empty one.
type QuerySpec struct {
	Search    string // substring of event, city, distance or region
	Status    Status
	RaceType  string
	EventName string
	Sort      SortField
	Order     SortOrder
}

// ParseSortField validates a sort field. Empty means SortByDate.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SortByDate, nil
	case SortByDate, SortByResult:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown sort field %q", ErrValidation, s)
	}
}

// ParseSortOrder validates a sort direction. Empty means OrderDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderDefault, OrderAsc, OrderDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown sort order %q", ErrValidation, s)
	}
}
