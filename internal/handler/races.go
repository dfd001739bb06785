package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/racelog/internal/domain"
	"github.com/pkordes/racelog/internal/view"
)

// RaceList is one page of a race query.
type RaceList struct {
	Data       []view.Race `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type RaceTypeList struct {
	Data []string `json:"data"`
}

// ListRaces handles GET /races.
// Supports ?q=, ?status=, ?type=, ?event=, ?sort=, ?order=, ?page= and ?limit=
// (defaults: sort=date, newest first, page=1, limit=50, max=500).
func (s *Server) ListRaces(w http.ResponseWriter, r *http.Request) {
	spec, params, err := parseRaceQuery(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	races, total, err := s.races.Query(r.Context(), spec, params)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, RaceList{
		Data: view.NewRaces(races, s.races.Today()),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetRace handles GET /races/{id}.
func (s *Server) GetRace(w http.ResponseWriter, r *http.Request) {
	race, err := s.races.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "race not found")
		return
	}
	render.JSON(w, r, view.NewRace(race, s.races.Today()))
}

// GetRaceHistory handles GET /races/{id}/history.
// It returns the race, every edition of its event and their statistics.
func (s *Server) GetRaceHistory(w http.ResponseWriter, r *http.Request) {
	detail, err := s.races.EventDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "race not found")
		return
	}
	render.JSON(w, r, view.NewEventDetail(detail, s.races.Today()))
}

// GetEventStats handles GET /events/stats?name=.
// An event with no comparable final time is 404 no_data.
func (s *Server) GetEventStats(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	st, ok, err := s.races.EventStats(r.Context(), name)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "no_data", "no completed races for event")
		return
	}
	render.JSON(w, r, view.NewStats(st))
}

// ListRaceTypes handles GET /race-types.
func (s *Server) ListRaceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.races.RaceTypes(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	render.JSON(w, r, RaceTypeList{Data: types})
}

// GetSnapshot handles GET /snapshot.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.races.Snapshot()
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	render.JSON(w, r, view.NewSnapshot(snap))
}

// PostReload handles POST /reload. It fetches the source now and returns the
// new snapshot summary; on failure the previous snapshot keeps serving.
func (s *Server) PostReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.races.Reload(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	render.JSON(w, r, view.NewSnapshot(snap))
}

// --- query parsing ----------------------------------------------------------

// parseRaceQuery reads the race filter, sort and paging parameters.
// Any malformed value is a domain.ErrValidation.
func parseRaceQuery(r *http.Request) (domain.QuerySpec, domain.PaginationParams, error) {
	q := r.URL.Query()

	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.QuerySpec{}, domain.PaginationParams{}, fmt.Errorf("%w: page must be an integer", domain.ErrValidation)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.QuerySpec{}, domain.PaginationParams{}, fmt.Errorf("%w: limit must be an integer", domain.ErrValidation)
	}

	status, statusErr := domain.ParseStatus(q.Get("status"))
	sort, sortErr := domain.ParseSortField(q.Get("sort"))
	order, orderErr := domain.ParseSortOrder(q.Get("order"))
	for _, err := range []error{statusErr, sortErr, orderErr} {
		if err != nil {
			return domain.QuerySpec{}, domain.PaginationParams{}, err
		}
	}

	spec := domain.QuerySpec{
		Search:    q.Get("q"),
		Status:    status,
		RaceType:  q.Get("type"),
		EventName: q.Get("event"),
		Sort:      sort,
		Order:     order,
	}
	return spec, domain.NewPaginationParams(page, limit), nil
}
