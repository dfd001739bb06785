package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/racelog/internal/view"
)

// ---- helpers ---------------------------------------------------------------

// writeSheet writes a small race sheet to a temp CSV and returns its path.
func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "races.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll([][]string{
		{"ID", "Data", "Evento", "Tipo", "Città", "Regione", "Distanza", "Tempo Finale", "PB", "Obiettivo", "Sito"},
		{"1", "Dom 12/01/2025", "City Marathon", "Maratona", "Rome", "Lazio", "42.195", "3:30:00", "", "3:25:00 ⟹ 4:51 / km", ""},
		{"2", "2024-01-14", "City Marathon", "Maratona", "Rome", "Lazio", "42.195", "3:20:00", "x", "", ""},
		{"3", "2025-10-19", "City Marathon", "Maratona", "Rome", "Lazio", "42.195", "", "", "3:15:00 ⟹ 4:37 / km", ""},
		{"4", "2025-03-02", "Trail del Lago", "Trail", "Bracciano", "Lazio", "21", "", "", "", ""},
		{"2", "2023-01-15", "City Marathon", "Maratona", "Rome", "Lazio", "42.195", "3:40:00", "", "", ""},
	}))
	return path
}

// run executes racectl with args against the sheet and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--source", writeSheet(t), "--today", "2025-06-01"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

// ---- list ------------------------------------------------------------------

func TestList_StatusFilter(t *testing.T) {
	out, err := run(t, "list", "--status", "scheduled", "-o", "json")
	require.NoError(t, err)

	got := decode[raceList](t, out)
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Races, 1)
	assert.Equal(t, "3", got.Races[0].ID)
	assert.Equal(t, "In Programma", got.Races[0].StatusLabel)
}

func TestList_Paging(t *testing.T) {
	out, err := run(t, "list", "--limit", "2", "--page", "2", "-o", "json")
	require.NoError(t, err)

	got := decode[raceList](t, out)
	assert.Equal(t, 4, got.Total)
	assert.Len(t, got.Races, 2)
}

func TestList_InvalidStatus(t *testing.T) {
	_, err := run(t, "list", "--status", "someday")
	assert.Error(t, err)
}

func TestList_YAMLOutput(t *testing.T) {
	out, err := run(t, "list", "--type", "Trail")
	require.NoError(t, err)

	var got raceList
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "Trail del Lago", got.Races[0].Event)
}

// ---- show / stats ----------------------------------------------------------

func TestShow(t *testing.T) {
	out, err := run(t, "show", "1", "-o", "json")
	require.NoError(t, err)

	got := decode[view.EventDetail](t, out)
	assert.Equal(t, "1", got.Race.ID)
	assert.Len(t, got.History, 3)
	require.NotNil(t, got.Stats)
	assert.Equal(t, "3:20:00", got.Stats.Best)
}

func TestShow_UnknownID(t *testing.T) {
	_, err := run(t, "show", "99")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats", "City Marathon", "-o", "json")
	require.NoError(t, err)

	got := decode[view.Stats](t, out)
	assert.Equal(t, "3:20:00", got.Best)
	assert.Equal(t, "3:25:00", got.Average)
	assert.Equal(t, 2, got.Completed)
}

func TestStats_NoData(t *testing.T) {
	_, err := run(t, "stats", "Trail del Lago")
	assert.ErrorContains(t, err, "no completed races")
}

// ---- types / snapshot ------------------------------------------------------

func TestTypes(t *testing.T) {
	out, err := run(t, "types", "-o", "json")
	require.NoError(t, err)

	got := decode[typeList](t, out)
	assert.Len(t, got.Types, 2)
}

func TestSnapshot(t *testing.T) {
	out, err := run(t, "snapshot", "-o", "json")
	require.NoError(t, err)

	got := decode[view.Snapshot](t, out)
	assert.Equal(t, 4, got.Records)
	require.Len(t, got.Duplicates, 1)
	assert.Equal(t, "2", got.Duplicates[0].ID)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "types", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
