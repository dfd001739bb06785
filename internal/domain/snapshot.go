package domain

import (
	"time"

	"github.com/google/uuid"
)

// Duplicate reports a source row whose identity key was already taken.
// The first row wins; the later one is dropped.
type Duplicate struct {
	ID         string `json:"id" yaml:"id"`
	KeptRow    int    `json:"kept_row" yaml:"kept_row"`
	DroppedRow int    `json:"dropped_row" yaml:"dropped_row"`
}

// Snapshot is one complete ingestion of the source. Snapshots are replaced
// wholesale; they are never updated in place.
type Snapshot struct {
	ID         uuid.UUID
	LoadedAt   time.Time
	Records    []RaceRecord
	Duplicates []Duplicate
	Skipped    int

	byID map[string]int
}

// NewSnapshot builds a snapshot and its identity index.
// records must already have unique IDs.
func NewSnapshot(id uuid.UUID, loadedAt time.Time, records []RaceRecord, dups []Duplicate, skipped int) Snapshot {
	idx := make(map[string]int, len(records))
	for i, r := range records {
		idx[r.ID] = i
	}
	if dups == nil {
		dups = []Duplicate{}
	}
	return Snapshot{
		ID:         id,
		LoadedAt:   loadedAt,
		Records:    records,
		Duplicates: dups,
		Skipped:    skipped,
		byID:       idx,
	}
}

// Find returns the record with the given ID.
func (s Snapshot) Find(id string) (RaceRecord, bool) {
	i, ok := s.byID[id]
	if !ok {
		return RaceRecord{}, false
	}
	return s.Records[i], true
}
