package normalize

import (
	"regexp"
	"strings"

	"github.com/pkordes/racelog/internal/domain"
)

// ObjectiveDelimiter separates target time and target pace in an objective.
const ObjectiveDelimiter = "⟹"

var pacePattern = regexp.MustCompile(ObjectiveDelimiter + `\s*([0-9:.\s]+\s*/ km)`)

// Objective splits "3:16:00 ⟹ 4:39 / km" into target time and pace.
// Without the delimiter the whole text is the target time and the pace is
// NotAvailable; so is a pace side that does not look like "m:ss / km".
func Objective(text string) domain.Objective {
	raw := strings.TrimSpace(text)
	obj := domain.Objective{Raw: raw, TargetTime: raw, TargetPace: NotAvailable}
	if raw == "" {
		obj.TargetTime = ""
		return obj
	}

	before, _, found := strings.Cut(raw, ObjectiveDelimiter)
	if !found {
		return obj
	}
	obj.TargetTime = strings.TrimSpace(before)
	if m := pacePattern.FindStringSubmatch(raw); m != nil {
		obj.TargetPace = strings.TrimSpace(m[1])
	}
	return obj
}
