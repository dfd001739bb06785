// Package repo contains the database access logic for race snapshots.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/racelog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a pgx.Tx that is rolled back after each test; Begin
// on a pgx.Tx opens a savepoint, so Replace still runs atomically inside it.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotRepo persists ingested snapshots so a restarted server can answer
// queries before the source has been fetched again.
type SnapshotRepo interface {
	// Replace stores snap as the only persisted snapshot, removing older ones.
	// Either the whole snapshot is written or nothing changes.
	Replace(ctx context.Context, snap domain.Snapshot) error

	// Latest returns the most recently stored snapshot with its records in
	// source order. Returns domain.ErrNotFound if nothing was ever stored.
	Latest(ctx context.Context) (domain.Snapshot, error)
}

// pgSnapshotRepo is the Postgres implementation of SnapshotRepo.
type pgSnapshotRepo struct {
	db db
}

// NewSnapshotRepo constructs a SnapshotRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSnapshotRepo(db db) SnapshotRepo {
	return &pgSnapshotRepo{db: db}
}

var recordColumns = []string{
	"snapshot_id", "position", "id", "raw_date", "race_date",
	"event_name", "race_type", "city", "region", "distance",
	"final_time", "personal_best", "objective_raw", "target_time", "target_pace",
	"website_url", "source_row",
}

// Replace writes the snapshot header and bulk-copies its records.
func (r *pgSnapshotRepo) Replace(ctx context.Context, snap domain.Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Replace: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Replace: clear: %w", err)
	}

	const q = `
		INSERT INTO snapshots (id, loaded_at, skipped, duplicates)
		VALUES (@id, @loaded_at, @skipped, @duplicates)`

	args := pgx.NamedArgs{
		"id":         pgtype.UUID{Bytes: snap.ID, Valid: true},
		"loaded_at":  snap.LoadedAt,
		"skipped":    snap.Skipped,
		"duplicates": snap.Duplicates,
	}
	if _, err := tx.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Replace: insert snapshot: %w", err)
	}

	snapID := pgtype.UUID{Bytes: snap.ID, Valid: true}
	src := pgx.CopyFromSlice(len(snap.Records), func(i int) ([]any, error) {
		rec := snap.Records[i]
		return []any{
			snapID, i, rec.ID, rec.RawDate, dateParam(rec.Date),
			rec.EventName, rec.RaceType, rec.City, rec.Region, rec.Distance,
			rec.FinalTime, rec.IsPersonalBest, rec.Objective.Raw, rec.Objective.TargetTime, rec.Objective.TargetPace,
			rec.WebsiteURL, rec.SourceRow,
		}, nil
	})
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"race_records"}, recordColumns, src); err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Replace: copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Replace: commit: %w", err)
	}
	return nil
}

// Latest loads the newest snapshot and its records.
func (r *pgSnapshotRepo) Latest(ctx context.Context) (domain.Snapshot, error) {
	const header = `
		SELECT id, loaded_at, skipped, duplicates
		FROM snapshots
		ORDER BY loaded_at DESC
		LIMIT 1`

	var (
		snap domain.Snapshot
		id   pgtype.UUID
		dups []domain.Duplicate
	)
	err := r.db.QueryRow(ctx, header).Scan(&id, &snap.LoadedAt, &snap.Skipped, &dups)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: %w", domain.ErrNotFound)
		}
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: %w", err)
	}

	const q = `
		SELECT id, raw_date, race_date, event_name, race_type, city, region, distance,
		       final_time, personal_best, objective_raw, target_time, target_pace,
		       website_url, source_row
		FROM race_records
		WHERE snapshot_id = @snapshot_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"snapshot_id": id})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: %w", err)
	}
	defer rows.Close()

	records := []domain.RaceRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("repo.SnapshotRepo.Latest: rows: %w", err)
	}

	return domain.NewSnapshot(uuid.UUID(id.Bytes), snap.LoadedAt, records, dups, snap.Skipped), nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps a race_records row into a domain.RaceRecord.
// A NULL race_date becomes domain.InvalidDay.
func scanRecord(s scanner) (domain.RaceRecord, error) {
	var (
		rec  domain.RaceRecord
		date pgtype.Date
	)
	err := s.Scan(
		&rec.ID, &rec.RawDate, &date, &rec.EventName, &rec.RaceType, &rec.City, &rec.Region, &rec.Distance,
		&rec.FinalTime, &rec.IsPersonalBest, &rec.Objective.Raw, &rec.Objective.TargetTime, &rec.Objective.TargetPace,
		&rec.WebsiteURL, &rec.SourceRow,
	)
	if err != nil {
		return domain.RaceRecord{}, err
	}

	rec.Date = domain.InvalidDay
	if date.Valid {
		rec.Date = domain.DayOf(date.Time)
	}
	return rec, nil
}

func dateParam(d domain.CalendarDay) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: d.Valid()}
}
