// jobmate-extract: pulls postings for the target companies from Adzuna and
// writes the deduplicated raw jobs CSV.
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
	logger := bootstrap.InitLogger(cfg.LogLevel).With("service", "extract")

	extractor, err := bootstrap.NewExtractor(cfg)
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	// ── Extraction ──────────────────────────────────────────────────────────
	summary, err := extractor.Run(context.Background())
	if err != nil {
		logger.Error("extraction failed", "err", err)
		os.Exit(1)
	}

	logger.Info("done",
		"unique", summary.Unique,
		"path", summary.OutputPath,
		"companiesCovered", summary.CompaniesCovered)
}
