package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/view"
)

type raceList struct {
	Races []view.Race `json:"races" yaml:"races"`
	Total int         `json:"total" yaml:"total"`
}

type typeList struct {
	Types []string `json:"types" yaml:"types"`
}

func newListCmd(opts *options) *cobra.Command {
	var (
		search, status, raceType, event, sortBy, order string
		page, limit                                    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List races matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := domain.ParseStatus(status)
			if err != nil {
				return err
			}
			field, err := domain.ParseSortField(sortBy)
			if err != nil {
				return err
			}
			dir, err := domain.ParseSortOrder(order)
			if err != nil {
				return err
			}

			svc, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			spec := domain.QuerySpec{
				Search:    search,
				Status:    st,
				RaceType:  raceType,
				EventName: event,
				Sort:      field,
				Order:     dir,
			}
			races, total, err := svc.Query(cmd.Context(), spec, domain.PaginationParams{Page: page, Limit: limit})
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), raceList{Races: view.NewRaces(races, svc.Today()), Total: total})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&search, "query", "q", "", "substring of event, city, distance or region")
	f.StringVar(&status, "status", "", "scheduled, completed, withdrawn or invalid_date")
	f.StringVar(&raceType, "type", "", "race type")
	f.StringVar(&event, "event", "", "exact event name")
	f.StringVar(&sortBy, "sort", "date", "date or result")
	f.StringVar(&order, "order", "", "asc or desc (default: newest first for date, fastest first for result)")
	f.IntVar(&page, "page", 1, "page number")
	f.IntVar(&limit, "limit", 0, "page size (0: all)")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a race with every edition of its event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			detail, err := svc.EventDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), view.NewEventDetail(detail, svc.Today()))
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <event>",
		Short: "Summarize the finished editions of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st, ok, err := svc.EventStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no completed races for %q", args[0])
			}
			return opts.print(cmd.OutOrStdout(), view.NewStats(st))
		},
	}
}

func newTypesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the distinct race types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			types, err := svc.RaceTypes(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), typeList{Types: types})
		},
	}
}

func newSnapshotCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Show ingestion counts, skipped rows and duplicate IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			snap, err := svc.Snapshot()
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), view.NewSnapshot(snap))
		},
	}
}
