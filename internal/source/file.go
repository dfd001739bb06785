package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/racelog/internal/domain"
)

// FileSource reads the race table from a local .csv or .xlsx file.
type FileSource struct {
	path  string
	sheet string
}

// NewFileSource returns a source for path. sheet picks the XLSX worksheet
// and is ignored for CSV files; empty means the first sheet.
func NewFileSource(path, sheet string) *FileSource {
	return &FileSource{path: path, sheet: sheet}
}

func (s *FileSource) Name() string { return "file" }

// Fetch reads the whole file. The format is chosen by extension.
func (s *FileSource) Fetch(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		t   Table
		err error
	)
	if strings.EqualFold(filepath.Ext(s.path), ".xlsx") {
		t, err = s.readXLSX()
	} else {
		t, err = s.readCSVFile()
	}
	if err != nil {
		return nil, fmt.Errorf("source.FileSource.Fetch: %w: %w", domain.ErrSourceUnavailable, err)
	}
	return t, nil
}

func (s *FileSource) readCSVFile() (Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func (s *FileSource) readXLSX() (Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return Table(rows), nil
}
