// jobmate-load: loads new rows from the raw jobs CSV into the bronze
// staging table, skipping job ids that are already there.
package main

import (
	"context"
	"log/slog"
	"os"

	"jobmate/ingestion-service/internal/bootstrap"
	"jobmate/ingestion-service/internal/config"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.LogLevel).With("service", "load")

	ctx := context.Background()

	// ── Warehouse ───────────────────────────────────────────────────────────
	deps, err := bootstrap.NewLoader(ctx, cfg)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	// ── Load ────────────────────────────────────────────────────────────────
	res, err := deps.Loader.Run(ctx)
	if cerr := deps.Close(); cerr != nil {
		logger.Warn("close connections", "err", cerr)
	}
	if err != nil {
		logger.Error("load failed", "err", err)
		os.Exit(1)
	}

	logger.Info("done", "loaded", res.Loaded, "skipped", res.Skipped, "rejected", res.Rejected)
}
