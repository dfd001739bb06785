// Package service contains the business logic of the race log.
// It owns the current snapshot, orchestrates source, ingest and persistence,
// and answers queries against the snapshot. No SQL or HTTP lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/ingest"
	"github.com/pkordes/racelog/internal/metrics"
	"github.com/pkordes/racelog/internal/query"
	"github.com/pkordes/racelog/internal/repo"
	"github.com/pkordes/racelog/internal/source"
	"github.com/pkordes/racelog/internal/stats"
)

// RaceService serves queries from the latest ingested snapshot.
//
// The snapshot is swapped atomically: readers see either the old or the new
// collection, never a mix. Concurrent Reload calls share one fetch.
type RaceService struct {
	src     source.Source
	mapping ingest.ColumnMapping
	store   repo.SnapshotRepo
	metrics *metrics.Recorder
	log     *slog.Logger
	now     func() time.Time

	current atomic.Pointer[domain.Snapshot]
	reloads singleflight.Group
}

// Option configures a RaceService.
type Option func(*RaceService)

// WithStore enables snapshot persistence. Without it Restore is a no-op.
func WithStore(store repo.SnapshotRepo) Option {
	return func(s *RaceService) { s.store = store }
}

// WithMetrics records reload outcomes on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *RaceService) { s.metrics = rec }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *RaceService) { s.log = l }
}

// WithClock replaces time.Now. The reference day for statuses is the UTC
// day of the clock.
func WithClock(now func() time.Time) Option {
	return func(s *RaceService) { s.now = now }
}

// NewRaceService constructs a RaceService reading src with the given mapping.
// It holds no snapshot until Reload or Restore succeeds.
func NewRaceService(src source.Source, mapping ingest.ColumnMapping, opts ...Option) *RaceService {
	s := &RaceService{
		src:     src,
		mapping: mapping,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the reference day used for status classification.
func (s *RaceService) Today() domain.CalendarDay {
	return domain.Today(s.now())
}

// Reload fetches the source, ingests it and publishes the new snapshot.
// On failure the previous snapshot stays in place. A persistence failure is
// logged and does not fail the reload.
func (s *RaceService) Reload(ctx context.Context) (domain.Snapshot, error) {
	v, err, _ := s.reloads.Do("reload", func() (any, error) {
		return s.reload(ctx)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return v.(domain.Snapshot), nil
}

func (s *RaceService) reload(ctx context.Context) (domain.Snapshot, error) {
	start := s.now()
	name := s.src.Name()

	table, err := s.src.Fetch(ctx)
	if err != nil {
		s.metrics.ReloadFailed(name, s.now().Sub(start))
		return domain.Snapshot{}, fmt.Errorf("service.RaceService.Reload: %w", err)
	}

	res, err := ingest.Ingest(ingest.TableRows(table, s.mapping.Layout), s.mapping)
	if err != nil {
		s.metrics.ReloadFailed(name, s.now().Sub(start))
		return domain.Snapshot{}, fmt.Errorf("service.RaceService.Reload: %w", err)
	}

	loadedAt := s.now().UTC()
	snap := domain.NewSnapshot(uuid.New(), loadedAt, res.Records, res.Duplicates, res.Skipped)
	s.current.Store(&snap)

	for _, d := range snap.Duplicates {
		s.log.Warn("duplicate race id dropped", "id", d.ID, "kept_row", d.KeptRow, "dropped_row", d.DroppedRow)
	}
	s.metrics.ReloadSucceeded(name, s.now().Sub(start), len(snap.Records), len(snap.Duplicates), snap.Skipped, loadedAt)
	s.log.Info("races reloaded",
		"source", name,
		"snapshot_id", snap.ID,
		"records", len(snap.Records),
		"duplicates", len(snap.Duplicates),
		"skipped", snap.Skipped,
	)

	if s.store != nil {
		if err := s.store.Replace(ctx, snap); err != nil {
			s.log.Warn("snapshot not persisted", "snapshot_id", snap.ID, "error", err)
		}
	}
	return snap, nil
}

// Restore loads the last persisted snapshot when nothing has been loaded
// yet. It reports whether a snapshot was installed; a snapshot published by
// a concurrent Reload is never overwritten.
func (s *RaceService) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}

	snap, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("service.RaceService.Restore: %w", err)
	}

	if !s.current.CompareAndSwap(nil, &snap) {
		return false, nil
	}
	s.log.Info("races restored from store",
		"snapshot_id", snap.ID,
		"loaded_at", snap.LoadedAt,
		"records", len(snap.Records),
	)
	return true, nil
}

// ReloadEvery calls Reload on every tick of interval until ctx is done.
// Failures are logged; the previous snapshot keeps serving.
func (s *RaceService) ReloadEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("scheduled reload failed", "error", err)
			}
		}
	}
}

// Snapshot returns the current snapshot, or domain.ErrNotLoaded.
func (s *RaceService) Snapshot() (domain.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Snapshot{}, domain.ErrNotLoaded
	}
	return *snap, nil
}

// Query filters and sorts the snapshot and returns one page of the result
// together with the total number of matches.
func (s *RaceService) Query(ctx context.Context, spec domain.QuerySpec, page domain.PaginationParams) ([]domain.RaceRecord, int, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, 0, fmt.Errorf("service.RaceService.Query: %w", err)
	}

	matches := query.Run(snap.Records, spec, s.Today())
	return query.Page(matches, page), len(matches), nil
}

// FindByID returns the race with the given ID or domain.ErrNotFound.
func (s *RaceService) FindByID(ctx context.Context, id string) (domain.RaceRecord, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.RaceRecord{}, fmt.Errorf("service.RaceService.FindByID: %w", err)
	}

	rec, ok := snap.Find(id)
	if !ok {
		return domain.RaceRecord{}, fmt.Errorf("service.RaceService.FindByID: %w", domain.ErrNotFound)
	}
	return rec, nil
}

// EventDetail returns the race with the given ID, every edition of its
// event ordered by result, and the statistics of those editions.
func (s *RaceService) EventDetail(ctx context.Context, id string) (domain.EventDetail, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.EventDetail{}, fmt.Errorf("service.RaceService.EventDetail: %w", err)
	}

	rec, ok := snap.Find(id)
	if !ok {
		return domain.EventDetail{}, fmt.Errorf("service.RaceService.EventDetail: %w", domain.ErrNotFound)
	}

	history := query.EventHistory(snap.Records, rec.EventName)
	query.Sort(history, domain.SortByResult, domain.OrderDefault, s.Today())

	detail := domain.EventDetail{Race: rec, History: history}
	if st, ok := stats.Summarize(history); ok {
		detail.Stats = &st
	}
	return detail, nil
}

// EventStats summarizes every race named event. ok is false when none of
// them has a comparable final time.
func (s *RaceService) EventStats(ctx context.Context, event string) (domain.Stats, bool, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.Stats{}, false, fmt.Errorf("service.RaceService.EventStats: %w", err)
	}

	st, ok := stats.Summarize(query.EventHistory(snap.Records, event))
	return st, ok, nil
}

// RaceTypes returns the distinct race types of the snapshot, sorted.
func (s *RaceService) RaceTypes(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("service.RaceService.RaceTypes: %w", err)
	}
	return query.RaceTypes(snap.Records), nil
}
