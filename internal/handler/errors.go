package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pkordes/racelog/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError renders an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// fail maps a service error onto its HTTP response. notFound is the message
// used for domain.ErrNotFound, since only the handler knows what was looked up.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotLoaded):
		writeError(w, r, http.StatusServiceUnavailable, "not_loaded", "races have not been loaded yet")
	case errors.Is(err, domain.ErrSourceUnavailable), errors.Is(err, domain.ErrEmptySource):
		s.log.Warn("source error", "error", err)
		writeError(w, r, http.StatusBadGateway, "source_error", unwrapMessage(err, domain.ErrSourceUnavailable, domain.ErrEmptySource))
	default:
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part following the first
// sentinel found in err's text.
// e.g. "service.RaceService.Query: validation error: unknown status \"x\"" → "unknown status \"x\""
func unwrapMessage(err error, sentinels ...error) string {
	msg := err.Error()
	for _, sentinel := range sentinels {
		marker := sentinel.Error() + ": "
		if i := strings.Index(msg, marker); i >= 0 && len(msg) > i+len(marker) {
			return msg[i+len(marker):]
		}
		if strings.HasSuffix(msg, sentinel.Error()) {
			return sentinel.Error()
		}
	}
	return msg
}
