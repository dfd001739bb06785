package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/racelog/internal/config"
	"github.com/pkordes/racelog/internal/ingest"
	"github.com/pkordes/racelog/internal/service"
	"github.com/pkordes/racelog/internal/source"
)

// options holds the flags shared by every command.
type options struct {
	source   string
	layout   string
	sheet    string
	pbMarker string
	output   string
	today    string
	timeout  time.Duration
	retries  uint64
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "racectl",
		Short:        "Query the race calendar",
		Long:         `Loads the race sheet from a CSV/XLSX file or a published CSV URL and answers queries on it.`,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.source, "source", "s", "", "CSV/XLSX file or CSV URL (default: SOURCE_URL or SOURCE_FILE)")
	f.StringVar(&opts.layout, "layout", string(ingest.LayoutPositional), "column layout: positional or header")
	f.StringVar(&opts.sheet, "sheet", "", "XLSX worksheet (default: first)")
	f.StringVar(&opts.pbMarker, "pb-marker", "", "cell value flagging a personal best (default: x positional, Si header)")
	f.StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")
	f.StringVar(&opts.today, "today", "", "reference day for statuses, YYYY-MM-DD (default: today in UTC)")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-attempt timeout for URL sources")
	f.Uint64Var(&opts.retries, "retries", 3, "retries for URL sources")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newStatsCmd(opts),
		newTypesCmd(opts),
		newSnapshotCmd(opts),
	)
	return root
}

// load reads the source and returns a service holding its snapshot.
// Warnings such as duplicate IDs go to stderr.
func (o *options) load(ctx context.Context, stderr io.Writer) (*service.RaceService, error) {
	location := o.source
	if location == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, errors.New("no source: pass --source or set SOURCE_URL / SOURCE_FILE")
		}
		location = cfg.Source()
	}

	layout, err := ingest.ParseLayout(o.layout)
	if err != nil {
		return nil, err
	}

	svcOpts := []service.Option{
		service.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))),
	}
	if o.today != "" {
		day, err := time.Parse(time.DateOnly, o.today)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		svcOpts = append(svcOpts, service.WithClock(func() time.Time { return day }))
	}

	src := source.FromLocation(location, source.Options{
		Sheet:   o.sheet,
		Timeout: o.timeout,
		Retries: o.retries,
	})
	svc := service.NewRaceService(src, ingest.MappingFor(layout, o.pbMarker), svcOpts...)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// print writes v in the selected output format.
func (o *options) print(w io.Writer, v any) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}
