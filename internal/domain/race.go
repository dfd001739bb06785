// Package domain contains the core data types for the race log.
// This package has no dependencies on other internal packages and is imported
// by every layer (normalize, ingest, query, stats, service, handler).
package domain

// RaceRecord is one normalized row of the race calendar.
// A record is immutable once ingested: filtering, sorting and statistics
// always work on copies or derived views.
//
// Status is deliberately not a field. It depends on the reference day and is
// computed on demand via StatusAt.
type RaceRecord struct {
	ID             string      `json:"id"`
	RawDate        string      `json:"raw_date"`
	Date           CalendarDay `json:"date"`
	EventName      string      `json:"event"`
	RaceType       string      `json:"type"` // lowercase token
	City           string      `json:"city"`
	Region         string      `json:"region"`
	Distance       string      `json:"distance"`
	FinalTime      string      `json:"final_time,omitempty"`
	IsPersonalBest bool        `json:"personal_best"`
	Objective      Objective   `json:"objective"`
	WebsiteURL     string      `json:"website,omitempty"`

	// SourceRow is the zero-based index of the row this record came from.
	SourceRow int `json:"source_row"`
}

// Objective is the planned target of a race, e.g. "3:16:00 ⟹ 4:39 / km".
// TargetPace is "N/D" when the text carries no pace.
type Objective struct {
	Raw        string `json:"raw,omitempty"`
	TargetTime string `json:"target_time,omitempty"`
	TargetPace string `json:"target_pace,omitempty"`
}

// StatusAt derives the lifecycle status of the record relative to today.
func (r RaceRecord) StatusAt(today CalendarDay) Status {
	return Classify(r.Date, r.FinalTime, today)
}

// EventDetail groups a single race with every race sharing its event name.
// Stats is nil when no race in the history has a comparable final time.
type EventDetail struct {
	Race    RaceRecord
	History []RaceRecord
	Stats   *Stats
}
