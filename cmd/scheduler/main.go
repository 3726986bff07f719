// jobmate-ingest-scheduler: runs extraction followed by the bronze load on
// a cron schedule and exposes a health endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmate/ingestion-service/internal/bootstrap"
	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/scheduler"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.LogLevel).With("service", "ingest-scheduler")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	extractor, err := bootstrap.NewExtractor(cfg)
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	// ── Warehouse ───────────────────────────────────────────────────────────
	deps, err := bootstrap.NewLoader(ctx, cfg)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	// ── Scheduler ───────────────────────────────────────────────────────────
	sched := scheduler.New(extractor, deps.Loader, cfg.ScheduleSpec)
	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler start failed", "err", err)
		os.Exit(1)
	}

	// ── HTTP health ─────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HealthPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "version", version, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", "err", err)
	}
	logger.Info("stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "ingest-scheduler",
		"version": version,
	}); err != nil {
		slog.Debug("health response write failed", "err", err)
	}
}
