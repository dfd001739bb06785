// Package main is the entry point for the race log API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/racelog/internal/config"
	"github.com/pkordes/racelog/internal/handler"
	"github.com/pkordes/racelog/internal/ingest"
	"github.com/pkordes/racelog/internal/metrics"
	"github.com/pkordes/racelog/internal/middleware"
	"github.com/pkordes/racelog/internal/repo"
	"github.com/pkordes/racelog/internal/service"
	"github.com/pkordes/racelog/internal/source"
	"github.com/pkordes/racelog/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(reg)

	// --- Source -----------------------------------------------------------
	layout, err := ingest.ParseLayout(cfg.SourceLayout)
	if err != nil {
		slog.Error("invalid source layout", "error", err)
		os.Exit(1)
	}
	src := source.FromLocation(cfg.Source(), source.Options{
		Sheet:   cfg.SourceSheet,
		Timeout: cfg.FetchTimeout,
		Retries: cfg.FetchRetries,
	})

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(recorder),
	}

	// --- Database (optional) ----------------------------------------------
	if cfg.DatabaseURL != "" {
		pool, err := openPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		slog.Info("database connection established")
		opts = append(opts, service.WithStore(repo.NewSnapshotRepo(pool)))
	}

	svc := service.NewRaceService(src, ingest.MappingFor(layout, cfg.PBMarker), opts...)

	// Warm the cache from the store first so the API can answer while the
	// source is slow or down. A failed initial reload is not fatal: the
	// server starts and answers 503 until a reload succeeds.
	if _, err := svc.Restore(ctx); err != nil {
		slog.Warn("snapshot restore failed", "error", err)
	}
	if _, err := svc.Reload(ctx); err != nil {
		slog.Error("initial reload failed", "source", src.Name(), "error", err)
	}
	if cfg.ReloadInterval > 0 {
		go svc.ReloadEvery(ctx, cfg.ReloadInterval)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(recorder.Middleware)

	handler.NewServer(svc, logger).Mount(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for POST /reload, which waits on the source.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchTimeout*time.Duration(cfg.FetchRetries+1) + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Give in-flight requests up to 15 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openPool connects to Postgres, verifies the connection and applies all
// pending migrations.
func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations applied", "count", len(results))

	return pool, nil
}
