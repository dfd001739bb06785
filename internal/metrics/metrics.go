// Package metrics exposes Prometheus instrumentation for snapshot reloads
// and the HTTP API.
//
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "racelog"

// Recorder holds the collectors registered by New.
type Recorder struct {
	reloads        *prometheus.CounterVec
	reloadDuration prometheus.Histogram
	records        prometheus.Gauge
	duplicates     prometheus.Gauge
	skipped        prometheus.Gauge
	lastReload     prometheus.Gauge
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// It panics if any of them is already registered.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Snapshot reload attempts by source and result",
		}, []string{"source", "result"}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Time spent fetching and ingesting the race table",
			Buckets:   prometheus.DefBuckets,
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the active snapshot",
		}),
		duplicates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_duplicates",
			Help:      "Rows dropped from the active snapshot because their ID repeated",
		}),
		skipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_skipped_rows",
			Help:      "Rows skipped in the active snapshot because date and event were empty",
		}),
		lastReload: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_reload_timestamp_seconds",
			Help:      "Unix timestamp of the last successful reload",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		r.reloads, r.reloadDuration,
		r.records, r.duplicates, r.skipped, r.lastReload,
		r.requests, r.requestLatency,
	)
	return r
}

// ReloadSucceeded records a successful reload and the shape of the new snapshot.
func (r *Recorder) ReloadSucceeded(source string, took time.Duration, records, duplicates, skipped int, at time.Time) {
	if r == nil {
		return
	}
	r.reloads.WithLabelValues(source, "ok").Inc()
	r.reloadDuration.Observe(took.Seconds())
	r.records.Set(float64(records))
	r.duplicates.Set(float64(duplicates))
	r.skipped.Set(float64(skipped))
	r.lastReload.Set(float64(at.Unix()))
}

// ReloadFailed records a reload that left the previous snapshot in place.
func (r *Recorder) ReloadFailed(source string, took time.Duration) {
	if r == nil {
		return
	}
	r.reloads.WithLabelValues(source, "error").Inc()
	r.reloadDuration.Observe(took.Seconds())
}

// Middleware counts requests and observes latency. Routes are labelled by
// their chi pattern so path parameters do not explode cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		r.requests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.requestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
