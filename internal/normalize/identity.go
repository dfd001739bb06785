package normalize

import "strings"

// IdentityFields are the row values that can identify a race.
type IdentityFields struct {
	ID       string
	Date     string
	Event    string
	City     string
	Distance string
}

// ResolveID returns the explicit ID when present, otherwise the composite
// key date+event+city+distance (trimmed, no separators). Two rows that agree
// on all four composite fields are treated as the same race.
func ResolveID(f IdentityFields) string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return id
	}
	return strings.TrimSpace(f.Date) +
		strings.TrimSpace(f.Event) +
		strings.TrimSpace(f.City) +
		strings.TrimSpace(f.Distance)
}
