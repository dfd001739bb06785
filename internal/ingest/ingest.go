// Package ingest maps raw source rows into normalized race records.
// It is the only place where the sheet's column layout is known; everything
// downstream works on domain.RaceRecord.
package ingest

import (
	"fmt"
	"strings"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/normalize"
)

// Row is one source row. Positional rows use Cells, header-keyed rows use
// Named. Missing cells read as empty text.
type Row struct {
	Cells []string
	Named map[string]string
}

// Result is the outcome of one ingestion.
type Result struct {
	Records []domain.RaceRecord
	// Duplicates lists rows dropped because their ID was already taken.
	// The first row with a given ID wins.
	Duplicates []domain.Duplicate
	// Skipped counts rows without both date and event.
	Skipped int
}

// Ingest normalizes rows into records using mapping.
//
// Rows with neither a date nor an event are skipped. Rows whose identity key
// repeats an earlier row are dropped and reported in Result.Duplicates.
// An empty input returns domain.ErrEmptySource and no records.
func Ingest(rows []Row, mapping ColumnMapping) (Result, error) {
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("ingest.Ingest: %w", domain.ErrEmptySource)
	}

	pbMarker := strings.TrimSpace(mapping.PBMarker)
	if pbMarker == "" {
		pbMarker = DefaultPBMarker
	}

	res := Result{
		Records:    make([]domain.RaceRecord, 0, len(rows)),
		Duplicates: []domain.Duplicate{},
	}
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		cell := newCellReader(row, mapping)

		rawDate := cell(FieldDate)
		event := cell(FieldEvent)
		if rawDate == "" && event == "" {
			res.Skipped++
			continue
		}

		city := cell(FieldCity)
		distance := cell(FieldDistance)
		id := normalize.ResolveID(normalize.IdentityFields{
			ID:       cell(FieldID),
			Date:     rawDate,
			Event:    event,
			City:     city,
			Distance: distance,
		})

		if kept, dup := seen[id]; dup {
			res.Duplicates = append(res.Duplicates, domain.Duplicate{ID: id, KeptRow: kept, DroppedRow: i})
			continue
		}
		seen[id] = i

		res.Records = append(res.Records, domain.RaceRecord{
			ID:             id,
			RawDate:        rawDate,
			Date:           normalize.Date(rawDate),
			EventName:      event,
			RaceType:       strings.ToLower(cell(FieldType)),
			City:           city,
			Region:         cell(FieldRegion),
			Distance:       distance,
			FinalTime:      cell(FieldFinalTime),
			IsPersonalBest: strings.EqualFold(cell(FieldPB), pbMarker),
			Objective:      normalize.Objective(cell(FieldObjective)),
			WebsiteURL:     cell(FieldWebsite),
			SourceRow:      i,
		})
	}
	return res, nil
}

// newCellReader returns a lookup of trimmed cell text by field for one row.
func newCellReader(row Row, m ColumnMapping) func(Field) string {
	if m.Layout == LayoutHeader {
		folded := make(map[string]string, len(row.Named))
		keys := make([]string, 0, len(row.Named))
		for k, v := range row.Named {
			fk := foldHeader(k)
			if _, ok := folded[fk]; !ok {
				folded[fk] = v
				keys = append(keys, fk)
			}
		}
		return func(f Field) string {
			for _, alias := range m.Headers[f] {
				if v, ok := folded[foldHeader(alias)]; ok {
					return strings.TrimSpace(v)
				}
			}
			if words := m.HeaderContains[f]; len(words) > 0 {
				if k, ok := headerContaining(keys, words); ok {
					return strings.TrimSpace(folded[k])
				}
			}
			if d, ok := m.Derived[f]; ok && d.Derive != nil {
				if v, ok := folded[foldHeader(d.Header)]; ok {
					return strings.TrimSpace(d.Derive(v))
				}
			}
			return ""
		}
	}

	return func(f Field) string {
		i, ok := m.Positions[f]
		if !ok || i < 0 || i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i])
	}
}

// headerContaining returns the lexically smallest folded header holding every
// word, so the pick does not depend on map iteration order.
func headerContaining(keys []string, words []string) (string, bool) {
	best, found := "", false
	for _, k := range keys {
		match := true
		for _, w := range words {
			if !strings.Contains(k, foldHeader(w)) {
				match = false
				break
			}
		}
		if match && (!found || k < best) {
			best, found = k, true
		}
	}
	return best, found
}

// TableRows converts a raw table whose first row is the header into rows for
// layout. Positional rows drop the header; header rows key every cell by it.
// When a header name repeats, the leftmost column wins.
func TableRows(table [][]string, layout Layout) []Row {
	if len(table) < 2 {
		return nil
	}
	body := table[1:]
	rows := make([]Row, 0, len(body))

	if layout != LayoutHeader {
		for _, cells := range body {
			rows = append(rows, Row{Cells: cells})
		}
		return rows
	}

	header := table[0]
	for _, cells := range body {
		named := make(map[string]string, len(header))
		for j, name := range header {
			if _, taken := named[name]; taken || j >= len(cells) {
				continue
			}
			named[name] = cells[j]
		}
		rows = append(rows, Row{Named: named})
	}
	return rows
}
