package domain

import (
	"encoding/json"
	"math"
)

// Seconds is a race duration in seconds.
type Seconds float64

// Infinite marks text that is not a comparable duration (DNF, DNS, blanks).
// It orders after every finite duration.
var Infinite = Seconds(math.Inf(1))

// IsInfinite reports whether s is the Infinite sentinel.
func (s Seconds) IsInfinite() bool {
	return math.IsInf(float64(s), 1)
}

// MarshalJSON encodes Infinite as null; JSON has no infinity literal.
func (s Seconds) MarshalJSON() ([]byte, error) {
	if s.IsInfinite() || math.IsNaN(float64(s)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(s))
}

// Stats summarizes a set of races, usually the history of one event.
type Stats struct {
	Best          Seconds `json:"best_seconds"`
	Average       Seconds `json:"average_seconds"`
	Completed     int     `json:"completed"`
	PersonalBests int     `json:"personal_bests"`
	Races         int     `json:"races"`
}
