// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration values for the API server and the CLI.
// Values are populated by Load from environment variables. A variable that is
// set to the empty string counts as set and does not fall back to its default.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	// LogLevel controls the minimum log level: debug, info, warn or error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override the Vite dev server default.
	CORSOrigins Origins `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// DatabaseURL is the Postgres connection string. Optional: without it
	// snapshots are kept in memory only.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// SourceURL is the published CSV export of the race sheet.
	// Exactly one of SourceURL and SourceFile must be set.
	SourceURL string `envconfig:"SOURCE_URL" validate:"omitempty,url"`
	// SourceFile is a local .csv or .xlsx file.
	SourceFile string `envconfig:"SOURCE_FILE"`
	// SourceLayout is positional (fixed column order) or header (keyed by header text).
	SourceLayout string `envconfig:"SOURCE_LAYOUT" default:"positional" validate:"oneof=positional header"`
	// SourceSheet picks the worksheet of an XLSX source. Empty means the first.
	SourceSheet string `envconfig:"SOURCE_SHEET"`
	// PBMarker is the cell value that flags a personal best. Empty uses the
	// layout's marker: "x" for positional sheets, "Si" for header sheets.
	PBMarker string `envconfig:"PB_MARKER"`

	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s" validate:"gt=0"`
	FetchRetries uint64        `envconfig:"FETCH_RETRIES" default:"3" validate:"lte=10"`

	// ReloadInterval re-fetches the source periodically. Zero disables it.
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL" default:"0s" validate:"gte=0"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576" validate:"gt=0"`
}

// Source returns the configured source location: the URL if set, else the file.
func (c Config) Source() string {
	if c.SourceURL != "" {
		return c.SourceURL
	}
	return c.SourceFile
}

// Origins is a comma-separated list of origins. Entries are trimmed and
// empty entries dropped.
type Origins []string

// Decode implements envconfig.Decoder.
func (o *Origins) Decode(value string) error {
	*o = splitCSV(value)
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable that is missing or invalid.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if err := newValidator().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", describe(err))
	}
	return cfg, nil
}

// newValidator returns a validator that names fields by their environment
// variable and enforces the one-source rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("envconfig")
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(Config)
		switch {
		case c.SourceURL == "" && c.SourceFile == "":
			sl.ReportError(c.SourceURL, "SOURCE_URL", "SourceURL", "required_without", "SOURCE_FILE")
		case c.SourceURL != "" && c.SourceFile != "":
			sl.ReportError(c.SourceFile, "SOURCE_FILE", "SourceFile", "excluded_with", "SOURCE_URL")
		}
	}, Config{})
	return v
}

// describe turns validator errors into one message in the style of
// "required environment variables not set: A; invalid environment variables: B (oneof)".
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "required_without":
			missing = append(missing, fe.Field()+" or "+fe.Param())
		case "excluded_with":
			invalid = append(invalid, fe.Field()+" (not allowed with "+fe.Param()+")")
		default:
			invalid = append(invalid, fe.Field()+" ("+fe.Tag()+")")
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	return errors.New(strings.Join(parts, "; "))
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
