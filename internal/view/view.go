// Package view renders domain values for output. The HTTP API and the CLI
// share these shapes so both print the same fields under the same names.
package view

import (
	"time"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/normalize"
)

// Race is a RaceRecord with its status resolved for a given day.
type Race struct {
	ID           string        `json:"id" yaml:"id"`
	Date         *string       `json:"date" yaml:"date"`
	RawDate      string        `json:"raw_date" yaml:"raw_date"`
	Event        string        `json:"event" yaml:"event"`
	Type         string        `json:"type" yaml:"type"`
	City         string        `json:"city" yaml:"city"`
	Region       string        `json:"region" yaml:"region"`
	Distance     string        `json:"distance" yaml:"distance"`
	Status       domain.Status `json:"status" yaml:"status"`
	StatusLabel  string        `json:"status_label" yaml:"status_label"`
	FinalTime    string        `json:"final_time,omitempty" yaml:"final_time,omitempty"`
	PersonalBest bool          `json:"personal_best" yaml:"personal_best"`
	Objective    *Objective    `json:"objective,omitempty" yaml:"objective,omitempty"`
	Website      string        `json:"website,omitempty" yaml:"website,omitempty"`
}

type Objective struct {
	Raw        string `json:"raw" yaml:"raw"`
	TargetTime string `json:"target_time" yaml:"target_time"`
	TargetPace string `json:"target_pace" yaml:"target_pace"`
}

// Stats carries durations formatted as "MM:SS" or "H:MM:SS".
type Stats struct {
	Best          string `json:"best" yaml:"best"`
	Average       string `json:"average" yaml:"average"`
	Completed     int    `json:"completed" yaml:"completed"`
	PersonalBests int    `json:"personal_bests" yaml:"personal_bests"`
	Races         int    `json:"races" yaml:"races"`
}

// EventDetail is a race with its event history. Stats is null when no
// edition has a comparable time.
type EventDetail struct {
	Race    Race   `json:"race" yaml:"race"`
	History []Race `json:"history" yaml:"history"`
	Stats   *Stats `json:"stats" yaml:"stats"`
}

// Snapshot summarizes the active snapshot without its records.
type Snapshot struct {
	ID         string             `json:"id" yaml:"id"`
	LoadedAt   time.Time          `json:"loaded_at" yaml:"loaded_at"`
	Records    int                `json:"records" yaml:"records"`
	Skipped    int                `json:"skipped" yaml:"skipped"`
	Duplicates []domain.Duplicate `json:"duplicates" yaml:"duplicates"`
}

// NewRace renders r with its status on today.
func NewRace(r domain.RaceRecord, today domain.CalendarDay) Race {
	status := r.StatusAt(today)
	out := Race{
		ID:           r.ID,
		RawDate:      r.RawDate,
		Event:        r.EventName,
		Type:         r.RaceType,
		City:         r.City,
		Region:       r.Region,
		Distance:     r.Distance,
		Status:       status,
		StatusLabel:  status.Label(),
		FinalTime:    r.FinalTime,
		PersonalBest: r.IsPersonalBest,
		Website:      r.WebsiteURL,
	}
	if r.Date.Valid() {
		d := r.Date.String()
		out.Date = &d
	}
	if r.Objective.Raw != "" {
		out.Objective = &Objective{
			Raw:        r.Objective.Raw,
			TargetTime: r.Objective.TargetTime,
			TargetPace: r.Objective.TargetPace,
		}
	}
	return out
}

// NewRaces renders every record. The result is never nil.
func NewRaces(records []domain.RaceRecord, today domain.CalendarDay) []Race {
	out := make([]Race, 0, len(records))
	for _, r := range records {
		out = append(out, NewRace(r, today))
	}
	return out
}

func NewStats(s domain.Stats) Stats {
	return Stats{
		Best:          normalize.FormatDuration(s.Best),
		Average:       normalize.FormatDuration(s.Average),
		Completed:     s.Completed,
		PersonalBests: s.PersonalBests,
		Races:         s.Races,
	}
}

func NewEventDetail(d domain.EventDetail, today domain.CalendarDay) EventDetail {
	out := EventDetail{
		Race:    NewRace(d.Race, today),
		History: NewRaces(d.History, today),
	}
	if d.Stats != nil {
		s := NewStats(*d.Stats)
		out.Stats = &s
	}
	return out
}

func NewSnapshot(s domain.Snapshot) Snapshot {
	dups := s.Duplicates
	if dups == nil {
		dups = []domain.Duplicate{}
	}
	return Snapshot{
		ID:         s.ID.String(),
		LoadedAt:   s.LoadedAt,
		Records:    len(s.Records),
		Skipped:    s.Skipped,
		Duplicates: dups,
	}
}
