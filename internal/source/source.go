// Package source fetches the raw race table from where it is published.
// A source returns every row of the table at once, header first; it never
// streams partial data.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Table is a raw tabular source: the header row followed by data rows.
// Rows may be ragged.
type Table [][]string

// Source produces the complete race table.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Fetch returns the whole table. Failures wrap domain.ErrSourceUnavailable.
	Fetch(ctx context.Context) (Table, error)
}

// Options tunes how a location is fetched.
type Options struct {
	// Sheet selects the worksheet of an XLSX file. Empty means the first.
	Sheet string
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// Retries is the number of extra HTTP attempts after the first.
	Retries uint64
}

// FromLocation returns an HTTPSource for http(s) URLs and a FileSource for
// anything else.
func FromLocation(location string, opts Options) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, WithTimeout(opts.Timeout), WithRetries(opts.Retries))
	}
	return NewFileSource(location, opts.Sheet)
}

// readCSV parses a CSV document. Quotes are read leniently and rows may have
// any number of fields, matching what spreadsheet exports produce.
func readCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return Table(records), nil
}
