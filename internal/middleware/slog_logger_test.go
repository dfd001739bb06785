package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/racelog/internal/middleware"
)

// TestSlogLogger_logsRequestFields checks the fields of the request line,
// including the chi route pattern and the ID set by chi's RequestID.
func TestSlogLogger_logsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(middleware.NewSlogLogger(logger))
	r.Get("/races/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"7"}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/races/7", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimiddleware.RequestIDKey, "req-7"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	require.Equal(t, "INFO", logEntry["level"])
	require.Equal(t, "GET", logEntry["method"])
	require.Equal(t, "/races/7", logEntry["path"])
	require.Equal(t, "/races/{id}", logEntry["route"])
	require.EqualValues(t, http.StatusOK, logEntry["status"])
	require.EqualValues(t, len(`{"id":"7"}`), logEntry["bytes"])
	require.Equal(t, "req-7", logEntry["request_id"])
	require.NotNil(t, logEntry["duration_ms"])
}

// TestSlogLogger_levelFollowsStatus verifies that client errors log at WARN
// and server errors at ERROR.
func TestSlogLogger_levelFollowsStatus(t *testing.T) {
	for status, level := range map[int]string{
		http.StatusOK:                 "INFO",
		http.StatusNotFound:           "WARN",
		http.StatusServiceUnavailable: "ERROR",
	} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		h := middleware.NewSlogLogger(logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}),
		)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/races/1", nil))

		var logEntry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		require.Equal(t, level, logEntry["level"], "status %d", status)
	}
}
