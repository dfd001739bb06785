// Package handler implements the HTTP API of the race log.
// All handlers are methods on Server. They are split into files by resource
// (health.go, races.go, export.go) but share the same Server struct.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/spec"
)

// RaceServicer defines the business operations the handlers depend on.
// It is declared here, in the consumer package, so handler tests can inject
// a mock without a source or database.
type RaceServicer interface {
	Today() domain.CalendarDay
	Reload(ctx context.Context) (domain.Snapshot, error)
	Snapshot() (domain.Snapshot, error)
	Query(ctx context.Context, spec domain.QuerySpec, page domain.PaginationParams) ([]domain.RaceRecord, int, error)
	FindByID(ctx context.Context, id string) (domain.RaceRecord, error)
	EventDetail(ctx context.Context, id string) (domain.EventDetail, error)
	EventStats(ctx context.Context, event string) (domain.Stats, bool, error)
	RaceTypes(ctx context.Context) ([]string, error)
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server serves every API endpoint.
type Server struct {
	races RaceServicer
	log   *slog.Logger
}

// NewServer constructs the Server. A nil logger uses slog.Default.
func NewServer(races RaceServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{races: races, log: log}
}

// Mount registers the API routes on r. Middleware is left to the caller.
func (s *Server) Mount(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/races", func(r chi.Router) {
		r.Get("/", s.ListRaces)
		r.Get("/{id}", s.GetRace)
		r.Get("/{id}/history", s.GetRaceHistory)
	})
	r.Get("/events/stats", s.GetEventStats)
	r.Get("/race-types", s.ListRaceTypes)
	r.Get("/snapshot", s.GetSnapshot)
	r.Post("/reload", s.PostReload)
	r.Get("/export", s.GetExport)
}

// Handler returns a chi router with the API mounted and no middleware.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	s.Mount(r)
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
