package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/handler"
	"github.com/pkordes/racelog/internal/normalize"
)

// mockRaceServicer is a test double for handler.RaceServicer.
// Set only the method fields your test needs.
type mockRaceServicer struct {
	reload      func(ctx context.Context) (domain.Snapshot, error)
	snapshot    func() (domain.Snapshot, error)
	query       func(ctx context.Context, spec domain.QuerySpec, page domain.PaginationParams) ([]domain.RaceRecord, int, error)
	findByID    func(ctx context.Context, id string) (domain.RaceRecord, error)
	eventDetail func(ctx context.Context, id string) (domain.EventDetail, error)
	eventStats  func(ctx context.Context, event string) (domain.Stats, bool, error)
	raceTypes   func(ctx context.Context) ([]string, error)
	export      func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockRaceServicer) Today() domain.CalendarDay {
	return domain.NewCalendarDay(2025, time.June, 1)
}
func (m *mockRaceServicer) Reload(ctx context.Context) (domain.Snapshot, error) {
	return m.reload(ctx)
}
func (m *mockRaceServicer) Snapshot() (domain.Snapshot, error) {
	return m.snapshot()
}
func (m *mockRaceServicer) Query(ctx context.Context, spec domain.QuerySpec, page domain.PaginationParams) ([]domain.RaceRecord, int, error) {
	return m.query(ctx, spec, page)
}
func (m *mockRaceServicer) FindByID(ctx context.Context, id string) (domain.RaceRecord, error) {
	return m.findByID(ctx, id)
}
func (m *mockRaceServicer) EventDetail(ctx context.Context, id string) (domain.EventDetail, error) {
	return m.eventDetail(ctx, id)
}
func (m *mockRaceServicer) EventStats(ctx context.Context, event string) (domain.Stats, bool, error) {
	return m.eventStats(ctx, event)
}
func (m *mockRaceServicer) RaceTypes(ctx context.Context) ([]string, error) {
	return m.raceTypes(ctx)
}
func (m *mockRaceServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time check: mockRaceServicer must satisfy handler.RaceServicer.
var _ handler.RaceServicer = (*mockRaceServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mock into a chi router,
// the same way main.go mounts it.
func newHTTPHandler(svc handler.RaceServicer) http.Handler {
	return handler.Handler(handler.NewServer(svc, nil))
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func raceFixture(id string) domain.RaceRecord {
	return domain.RaceRecord{
		ID:        id,
		RawDate:   "Dom 12/01/2025",
		Date:      normalize.Date("Dom 12/01/2025"),
		EventName: "City Marathon",
		RaceType:  "maratona",
		City:      "Rome",
		Region:    "Lazio",
		Distance:  "42.195",
		FinalTime: "3:30:00",
	}
}

func snapshotFixture() domain.Snapshot {
	return domain.NewSnapshot(
		uuid.MustParse("3f1c3e0a-7b8e-4d59-9a55-0d3c1f2b4a10"),
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		[]domain.RaceRecord{raceFixture("1"), raceFixture("2")},
		[]domain.Duplicate{{ID: "2", KeptRow: 1, DroppedRow: 4}},
		1,
	)
}

func notLoaded() (domain.Snapshot, error) {
	return domain.Snapshot{}, domain.ErrNotLoaded
}

func wrapped(err error) error {
	return fmt.Errorf("service.RaceService.Op: %w", err)
}
