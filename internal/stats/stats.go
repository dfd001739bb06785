// Package stats aggregates race histories into summary figures.
package stats

import (
	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/normalize"
)

// Summarize computes best and average final time over the records whose
// final time is a comparable duration, plus the personal-best count over
// all records.
//
// ok is false when no record has a comparable time, including for an empty
// input. Callers must not read the Stats in that case.
func Summarize(records []domain.RaceRecord) (s domain.Stats, ok bool) {
	var total domain.Seconds
	for _, r := range records {
		if r.IsPersonalBest {
			s.PersonalBests++
		}
		d := normalize.ParseDuration(r.FinalTime)
		if d.IsInfinite() {
			continue
		}
		if s.Completed == 0 || d < s.Best {
			s.Best = d
		}
		total += d
		s.Completed++
	}
	if s.Completed == 0 {
		return domain.Stats{}, false
	}
	s.Races = len(records)
	s.Average = total / domain.Seconds(s.Completed)
	return s, true
}
