package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/racelog/internal/config"
)

var allVars = []string{
	"PORT", "LOG_LEVEL", "CORS_ORIGINS", "DATABASE_URL",
	"SOURCE_URL", "SOURCE_FILE", "SOURCE_LAYOUT", "SOURCE_SHEET", "PB_MARKER",
	"FETCH_TIMEOUT", "FETCH_RETRIES", "RELOAD_INTERVAL", "MAX_BODY_BYTES",
}

// cleanEnv unsets every config variable for the duration of the test.
// t.Setenv registers the restore; Unsetenv then removes the variable so the
// loader sees it as absent rather than empty.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only a source is provided.
func TestLoad_defaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SOURCE_FILE", "/data/races.xlsx")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, config.Origins{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "/data/races.xlsx", cfg.Source())
	require.Equal(t, "positional", cfg.SourceLayout)
	require.Empty(t, cfg.PBMarker, "empty selects the layout marker")
	require.Equal(t, 15*time.Second, cfg.FetchTimeout)
	require.Equal(t, uint64(3), cfg.FetchRetries)
	require.Zero(t, cfg.ReloadInterval)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/races")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("SOURCE_URL", "https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv")
	t.Setenv("SOURCE_LAYOUT", "header")
	t.Setenv("PB_MARKER", "Si")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RETRIES", "0")
	t.Setenv("RELOAD_INTERVAL", "10m")
	t.Setenv("MAX_BODY_BYTES", "4096")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "postgres://user:pass@db:5432/races", cfg.DatabaseURL)
	require.Equal(t, config.Origins{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv", cfg.Source())
	require.Equal(t, "header", cfg.SourceLayout)
	require.Equal(t, "Si", cfg.PBMarker)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
	require.Zero(t, cfg.FetchRetries)
	require.Equal(t, 10*time.Minute, cfg.ReloadInterval)
	require.Equal(t, int64(4096), cfg.MaxBodyBytes)
}

// TestLoad_missingSource verifies that an error is returned when neither
// SOURCE_URL nor SOURCE_FILE is set, and that the message names both.
func TestLoad_missingSource(t *testing.T) {
	cleanEnv(t)

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "required environment variables not set: SOURCE_URL or SOURCE_FILE")
}

func TestLoad_bothSources(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SOURCE_URL", "https://example.com/races.csv")
	t.Setenv("SOURCE_FILE", "races.csv")

	_, err := config.Load()

	require.ErrorContains(t, err, "SOURCE_FILE")
}

func TestLoad_invalidValues(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SOURCE_FILE", "races.csv")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("SOURCE_LAYOUT", "diagonal")

	_, err := config.Load()

	require.ErrorContains(t, err, "LOG_LEVEL (oneof)")
	require.ErrorContains(t, err, "SOURCE_LAYOUT (oneof)")
}

func TestLoad_unparsableDuration(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SOURCE_FILE", "races.csv")
	t.Setenv("FETCH_TIMEOUT", "soon")

	_, err := config.Load()

	require.ErrorContains(t, err, "FETCH_TIMEOUT")
}
