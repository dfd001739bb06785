package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

type HealthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"loaded"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 while the process runs; loaded reports whether a
// snapshot is being served.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.races != nil {
		_, err := s.races.Snapshot()
		resp.Loaded = err == nil
	}
	render.JSON(w, r, resp)
}
