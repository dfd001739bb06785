package service

import (
	"context"
	"fmt"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/normalize"
)

// Export returns one flat row per race in source order, with status taken
// for today. Final times that parse are rewritten in canonical form; other
// text is kept as written.
func (s *RaceService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("service.RaceService.Export: %w", err)
	}

	today := s.Today()
	rows := make([]domain.ExportRow, 0, len(snap.Records))
	for _, r := range snap.Records {
		rows = append(rows, exportRow(r, today))
	}
	return rows, nil
}

func exportRow(r domain.RaceRecord, today domain.CalendarDay) domain.ExportRow {
	row := domain.ExportRow{
		ID:           r.ID,
		RawDate:      r.RawDate,
		EventName:    r.EventName,
		RaceType:     r.RaceType,
		City:         r.City,
		Region:       r.Region,
		Distance:     r.Distance,
		Status:       r.StatusAt(today),
		FinalTime:    r.FinalTime,
		PersonalBest: r.IsPersonalBest,
		TargetTime:   r.Objective.TargetTime,
		TargetPace:   r.Objective.TargetPace,
		WebsiteURL:   r.WebsiteURL,
	}
	if r.Date.Valid() {
		row.Date = r.Date.String()
	}
	if d := normalize.ParseDuration(r.FinalTime); !d.IsInfinite() {
		row.FinalTime = normalize.FormatDuration(d)
	}
	return row
}
