package ingest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/ingest"
)

// ---- helpers ---------------------------------------------------------------

// positional builds a positional row from the 11 sheet columns.
func positional(cells ...string) ingest.Row {
	return ingest.Row{Cells: cells}
}

// ---- positional layout -----------------------------------------------------

func TestIngest_Positional_FullRow(t *testing.T) {
	rows := []ingest.Row{positional(
		"", " Sab 29/11/2025 ", " Firenze Marathon ", " Maratona ", "Firenze", "Toscana", "42.195",
		"3:12:40", " X ", "3:16:00 ⟹ 4:39 / km", "https://firenzemarathon.it",
	)}

	res, err := ingest.Ingest(rows, ingest.PositionalMapping())

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.Equal(t, "Sab 29/11/2025Firenze MarathonFirenze42.195", r.ID)
	assert.Equal(t, "Sab 29/11/2025", r.RawDate)
	assert.Equal(t, domain.NewCalendarDay(2025, time.November, 29), r.Date)
	assert.Equal(t, "Firenze Marathon", r.EventName)
	assert.Equal(t, "maratona", r.RaceType)
	assert.Equal(t, "Firenze", r.City)
	assert.Equal(t, "Toscana", r.Region)
	assert.Equal(t, "42.195", r.Distance)
	assert.Equal(t, "3:12:40", r.FinalTime)
	assert.True(t, r.IsPersonalBest)
	assert.Equal(t, "3:16:00", r.Objective.TargetTime)
	assert.Equal(t, "4:39 / km", r.Objective.TargetPace)
	assert.Equal(t, "https://firenzemarathon.it", r.WebsiteURL)
	assert.Equal(t, 0, r.SourceRow)
}

func TestIngest_Positional_ShortRowDefaultsToEmpty(t *testing.T) {
	res, err := ingest.Ingest([]ingest.Row{positional("7", "2025-01-10", "Corsa")}, ingest.PositionalMapping())

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.Equal(t, "7", r.ID)
	assert.Empty(t, r.City)
	assert.Empty(t, r.FinalTime)
	assert.False(t, r.IsPersonalBest)
	assert.Equal(t, "N/D", r.Objective.TargetPace)
}

func TestIngest_SkipsRowsWithoutDateAndEvent(t *testing.T) {
	rows := []ingest.Row{
		positional("", "", "", "trail"),
		positional("", "  ", "  "),
		positional("", "", "Only Event"),
		positional("", "2025-01-10", ""),
	}

	res, err := ingest.Ingest(rows, ingest.PositionalMapping())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Records, 2)
	assert.False(t, res.Records[0].Date.Valid(), "event without a date is kept with an invalid date")
	assert.Equal(t, 2, res.Records[0].SourceRow)
}

func TestIngest_MalformedDateKeepsRawText(t *testing.T) {
	res, err := ingest.Ingest([]ingest.Row{positional("", "31/02/2025", "Winter Run")}, ingest.PositionalMapping())

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.False(t, res.Records[0].Date.Valid())
	assert.Equal(t, "31/02/2025", res.Records[0].RawDate)
}

func TestIngest_PBMarkerIsExactToken(t *testing.T) {
	rows := []ingest.Row{
		positional("1", "2025-01-10", "A", "", "", "", "", "", "x"),
		positional("2", "2025-01-10", "B", "", "", "", "", "", "X"),
		positional("3", "2025-01-10", "C", "", "", "", "", "", "xx"),
		positional("4", "2025-01-10", "D", "", "", "", "", "", "Si"),
	}

	res, err := ingest.Ingest(rows, ingest.PositionalMapping())

	require.NoError(t, err)
	got := []bool{}
	for _, r := range res.Records {
		got = append(got, r.IsPersonalBest)
	}
	assert.Equal(t, []bool{true, true, false, false}, got)
}

func TestIngest_DuplicatesFirstWins(t *testing.T) {
	rows := []ingest.Row{
		positional("", "2025-01-10", "City Marathon", "", "Rome", "", "42.195", "3:45:00"),
		positional("", "2025-01-10", "City Marathon", "", "Rome", "", "42.195", "3:50:00"),
		positional("9", "2025-02-01", "Half"),
		positional("9", "2025-03-01", "Other"),
	}

	res, err := ingest.Ingest(rows, ingest.PositionalMapping())

	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "3:45:00", res.Records[0].FinalTime)
	assert.Equal(t, "Half", res.Records[1].EventName)
	assert.Equal(t, []domain.Duplicate{
		{ID: "2025-01-10City MarathonRome42.195", KeptRow: 0, DroppedRow: 1},
		{ID: "9", KeptRow: 2, DroppedRow: 3},
	}, res.Duplicates)
}

func TestIngest_EmptyInputIsAnError(t *testing.T) {
	_, err := ingest.Ingest(nil, ingest.PositionalMapping())

	assert.ErrorIs(t, err, domain.ErrEmptySource)
}

func TestIngest_AllRowsBlankIsAnEmptyResult(t *testing.T) {
	res, err := ingest.Ingest([]ingest.Row{positional(), positional("", "")}, ingest.PositionalMapping())

	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.NotNil(t, res.Records)
	assert.Equal(t, 2, res.Skipped)
}

// ---- header layout ---------------------------------------------------------

func TestIngest_Header_AccentAndCaseVariants(t *testing.T) {
	rows := []ingest.Row{
		{Named: map[string]string{
			"ID": "", "Data": "2025-04-06", "Evento": "Milano Marathon", "TIPO": "Maratona",
			"Citta": "Milano", "regione ": "Lombardia", "Distanza": "42.195",
			"Tempo Finale (hh:mm:ss)": "3:20:11", "PB": "Si",
			"Pace Target / Obiettivo": "3:25:00 ⟹ 4:51 / km", "Sito Web": "https://example.org",
		}},
		{Named: map[string]string{"Data": "2025-05-01", "Evento": "Trail", "Città": "Bergamo"}},
	}

	res, err := ingest.Ingest(rows, ingest.HeaderMapping())

	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	r := res.Records[0]
	assert.Equal(t, "Milano", r.City)
	assert.Equal(t, "Lombardia", r.Region)
	assert.Equal(t, "maratona", r.RaceType)
	assert.Equal(t, "3:20:11", r.FinalTime, "final time found by fuzzy header")
	assert.True(t, r.IsPersonalBest)
	assert.Equal(t, "4:51 / km", r.Objective.TargetPace)
	assert.Equal(t, "Bergamo", res.Records[1].City)
}

func TestMappingFor_PBMarkerPerLayout(t *testing.T) {
	assert.Equal(t, ingest.DefaultPBMarker, ingest.MappingFor(ingest.LayoutPositional, " ").PBMarker)
	assert.Equal(t, ingest.HeaderPBMarker, ingest.MappingFor(ingest.LayoutHeader, "").PBMarker)

	m := ingest.MappingFor(ingest.LayoutHeader, "x")
	rows := []ingest.Row{{Named: map[string]string{"Data": "2025-04-06", "Evento": "E", "PB": "X"}}}

	res, err := ingest.Ingest(rows, m)

	require.NoError(t, err)
	assert.True(t, res.Records[0].IsPersonalBest, "explicit marker overrides the layout default")
}

// The main sheet has no type column; the type is the first word of
// "Ruolo Strategico" and PBs are marked "Si".
func TestIngest_MainSheetHeaderRow(t *testing.T) {
	table := [][]string{
		{"ID", "Data", "Evento", "Ruolo Strategico", "Distanza", "Città", "Regione",
			"Pace Target / Obiettivo", "Tempo Finale", "Sito Web", "PB"},
		{"7", "Sab 29/11/2025", "Firenze Marathon", "Maratona OBIETTIVO A", "42.195", "Firenze", "Toscana",
			"3:15:00 ⟹ 4:37 / km", "3:20:00", "https://example.org", "Si"},
		{"8", "2025-10-12", "Mezza di Roma", "OBIETTIVOMezza B", "21.097", "Roma", "Lazio",
			"", "", "", "No"},
		{"9", "2025-09-01", "Corsa", "", "10", "Pisa", "Toscana", "", "", "", ""},
	}

	res, err := ingest.Ingest(ingest.TableRows(table, ingest.LayoutHeader), ingest.MappingFor(ingest.LayoutHeader, ""))

	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	r := res.Records[0]
	assert.Equal(t, "maratona", r.RaceType)
	assert.True(t, r.IsPersonalBest)
	assert.Equal(t, "3:20:00", r.FinalTime)
	assert.Equal(t, domain.NewCalendarDay(2025, time.November, 29), r.Date)
	assert.Equal(t, "mezza", res.Records[1].RaceType)
	assert.False(t, res.Records[1].IsPersonalBest)
	assert.Empty(t, res.Records[2].RaceType)
}

func TestStrategicRoleType(t *testing.T) {
	tests := map[string]string{
		"Maratona OBIETTIVO A": "Maratona",
		" Trail ":              "Trail",
		"OBIETTIVOMezza":       "Mezza",
		"OBIETTIVO":            "",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ingest.StrategicRoleType(in), "input %q", in)
	}
}

// ---- TableRows -------------------------------------------------------------

func TestTableRows_Positional_DropsHeader(t *testing.T) {
	table := [][]string{
		{"ID", "Data", "Evento"},
		{"1", "2025-01-10", "A"},
		{"2", "2025-01-11", "B"},
	}

	rows := ingest.TableRows(table, ingest.LayoutPositional)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2025-01-10", "A"}, rows[0].Cells)
	assert.Nil(t, rows[0].Named)
}

func TestTableRows_Header_KeysByHeader(t *testing.T) {
	table := [][]string{
		{"Data", "Evento", "Data"},
		{"2025-01-10", "A", "ignored"},
		{"2025-01-11"},
	}

	rows := ingest.TableRows(table, ingest.LayoutHeader)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"Data": "2025-01-10", "Evento": "A"}, rows[0].Named)
	assert.Equal(t, map[string]string{"Data": "2025-01-11"}, rows[1].Named)
}

func TestTableRows_HeaderOnlyIsEmpty(t *testing.T) {
	assert.Empty(t, ingest.TableRows([][]string{{"ID", "Data"}}, ingest.LayoutPositional))
	assert.Empty(t, ingest.TableRows(nil, ingest.LayoutHeader))
}

func TestParseLayout(t *testing.T) {
	l, err := ingest.ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, ingest.LayoutPositional, l)

	l, err = ingest.ParseLayout("Header")
	require.NoError(t, err)
	assert.Equal(t, ingest.LayoutHeader, l)

	_, err = ingest.ParseLayout("columns")
	assert.Error(t, err)
}
