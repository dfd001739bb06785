package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a logical column of the race sheet.
type Field int

const (
	FieldID Field = iota
	FieldDate
	FieldEvent
	FieldType
	FieldCity
	FieldRegion
	FieldDistance
	FieldFinalTime
	FieldPB
	FieldObjective
	FieldWebsite

	numFields
)

var fieldNames = [numFields]string{
	"id", "date", "event", "type", "city", "region",
	"distance", "final_time", "pb", "objective", "website",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Layout says how a row addresses its cells.
type Layout string

const (
	// LayoutPositional rows are ordered cell lists in the fixed sheet order.
	LayoutPositional Layout = "positional"
	// LayoutHeader rows are keyed by header text.
	LayoutHeader Layout = "header"
)

// ParseLayout validates a layout name. Empty means LayoutPositional.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayoutPositional, nil
	case LayoutPositional, LayoutHeader:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q", s)
	}
}

// DefaultPBMarker is the cell value that flags a personal best in the
// positional (detail) sheet.
const DefaultPBMarker = "x"

// HeaderPBMarker flags a personal best in the header-keyed (main) sheet.
const HeaderPBMarker = "Si"

// DerivedColumn computes a field from another column's text. It is the last
// resort after Headers and HeaderContains.
type DerivedColumn struct {
	Header string
	Derive func(string) string
}

// ColumnMapping tells the ingester where each logical field lives.
type ColumnMapping struct {
	Layout Layout

	// Positions maps fields to zero-based cell indexes (LayoutPositional).
	// Fields without an entry read as empty.
	Positions map[Field]int

	// Headers lists accepted header names per field (LayoutHeader). Matching
	// ignores case, accents and surrounding whitespace; the first alias
	// present in the row wins.
	Headers map[Field][]string

	// HeaderContains is the fallback for fields whose header text drifts:
	// the first header containing every listed word is used.
	HeaderContains map[Field][]string

	// Derived lists fields computed from another column (LayoutHeader).
	Derived map[Field]DerivedColumn

	// PBMarker is compared case-insensitively to the PB cell.
	PBMarker string
}

// PositionalMapping is the fixed column order of the race sheet:
// id, date, event, type, city, region, distance, final time, pb, objective,
// website.
func PositionalMapping() ColumnMapping {
	pos := make(map[Field]int, numFields)
	for f := FieldID; f < numFields; f++ {
		pos[f] = int(f)
	}
	return ColumnMapping{Layout: LayoutPositional, Positions: pos, PBMarker: DefaultPBMarker}
}

// HeaderMapping reads rows keyed by the sheet's Italian headers, including
// the variants seen across its revisions.
func HeaderMapping() ColumnMapping {
	return ColumnMapping{
		Layout: LayoutHeader,
		Headers: map[Field][]string{
			FieldID:        {"ID"},
			FieldDate:      {"Data"},
			FieldEvent:     {"Evento"},
			FieldType:      {"Tipo", "Tipo Gara"},
			FieldCity:      {"Città"},
			FieldRegion:    {"Regione"},
			FieldDistance:  {"Distanza"},
			FieldFinalTime: {"Tempo Finale"},
			FieldPB:        {"PB"},
			FieldObjective: {"Obiettivo", "Pace Target / Obiettivo"},
			FieldWebsite:   {"Sito Web", "Sito"},
		},
		HeaderContains: map[Field][]string{
			FieldFinalTime: {"tempo", "finale"},
		},
		Derived: map[Field]DerivedColumn{
			FieldType: {Header: "Ruolo Strategico", Derive: StrategicRoleType},
		},
		PBMarker: HeaderPBMarker,
	}
}

// StrategicRoleType reads the race type out of a "Ruolo Strategico" cell such
// as "Maratona OBIETTIVO A": the first word, without the OBIETTIVO tag.
func StrategicRoleType(role string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(role), " ")
	return strings.TrimSpace(strings.Replace(first, "OBIETTIVO", "", 1))
}

// MappingFor returns the default mapping of a layout with the given PB marker.
// An empty marker keeps the layout's own: DefaultPBMarker for positional
// sheets, HeaderPBMarker for header-keyed ones.
func MappingFor(layout Layout, pbMarker string) ColumnMapping {
	m := PositionalMapping()
	if layout == LayoutHeader {
		m = HeaderMapping()
	}
	if pbMarker = strings.TrimSpace(pbMarker); pbMarker != "" {
		m.PBMarker = pbMarker
	}
	return m
}

// foldHeader lowercases, strips accents and collapses whitespace so that
// "Città", "citta" and " CITTA " compare equal.
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
