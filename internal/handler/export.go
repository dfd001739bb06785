package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/racelog/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "raw_date", "date", "event", "type", "city", "region", "distance",
	"status", "final_time", "personal_best", "target_time", "target_pace", "website",
}

// ExportRow is the JSON form of domain.ExportRow.
// Empty optional text becomes null; an invalid date is null.
type ExportRow struct {
	ID           string              `json:"id"`
	RawDate      string              `json:"raw_date"`
	Date         *openapi_types.Date `json:"date"`
	Event        string              `json:"event"`
	Type         string              `json:"type"`
	City         string              `json:"city"`
	Region       string              `json:"region"`
	Distance     string              `json:"distance"`
	Status       domain.Status       `json:"status"`
	FinalTime    *string             `json:"final_time"`
	PersonalBest bool                `json:"personal_best"`
	TargetTime   *string             `json:"target_time"`
	TargetPace   *string             `json:"target_pace"`
	Website      *string             `json:"website"`
}

// GetExport handles GET /export.
// It returns every race of the snapshot as a flat table.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "json" && format != "csv" {
		writeError(w, r, http.StatusUnprocessableEntity, "validation_error", "format must be csv or json")
		return
	}

	rows, err := s.races.Export(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	render.JSON(w, r, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to their JSON shape. The result is never nil.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToJSONRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="races.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func domainRowToJSONRow(r domain.ExportRow) ExportRow {
	row := ExportRow{
		ID:           r.ID,
		RawDate:      r.RawDate,
		Event:        r.EventName,
		Type:         r.RaceType,
		City:         r.City,
		Region:       r.Region,
		Distance:     r.Distance,
		Status:       r.Status,
		FinalTime:    optional(r.FinalTime),
		PersonalBest: r.PersonalBest,
		TargetTime:   optional(r.TargetTime),
		TargetPace:   optional(r.TargetPace),
		Website:      optional(r.WebsiteURL),
	}
	if t, err := time.Parse(time.DateOnly, r.Date); err == nil {
		row.Date = &openapi_types.Date{Time: t}
	}
	return row
}

func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.ID,
		r.RawDate,
		r.Date,
		r.EventName,
		r.RaceType,
		r.City,
		r.Region,
		r.Distance,
		string(r.Status),
		r.FinalTime,
		strconv.FormatBool(r.PersonalBest),
		r.TargetTime,
		r.TargetPace,
		r.WebsiteURL,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
