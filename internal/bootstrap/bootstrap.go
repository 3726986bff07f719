// Package bootstrap builds the ingestion components from a Config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/db"
	"jobmate/ingestion-service/internal/events"
	"jobmate/ingestion-service/internal/loader"
	"jobmate/ingestion-service/internal/scraper"
	"jobmate/ingestion-service/internal/warehouse"
)

// InitLogger installs a JSON slog logger on stdout as the default.
func InitLogger(level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewExtractor builds the Adzuna-backed extractor.
func NewExtractor(cfg *config.Config) (*scraper.Extractor, error) {
	if err := cfg.ValidateExtract(); err != nil {
		return nil, err
	}
	fetcher := scraper.NewAdzunaFetcher(cfg.Adzuna)
	return scraper.NewExtractor(fetcher, cfg.Extract), nil
}

// LoaderDeps holds the connections behind a Loader.
type LoaderDeps struct {
	Loader *loader.Loader
	close  []func() error
}

// Close releases every connection opened for the loader.
func (d *LoaderDeps) Close() error {
	var errs []error
	for i := len(d.close) - 1; i >= 0; i-- {
		if err := d.close[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewLoader connects to the warehouse (and Redis when REDIS_URL is set) and
// builds the loader.
func NewLoader(ctx context.Context, cfg *config.Config) (*LoaderDeps, error) {
	if err := cfg.ValidateLoad(); err != nil {
		return nil, err
	}

	deps := &LoaderDeps{}

	slog.Info("connecting to warehouse", "driver", cfg.Warehouse.Driver, "table", cfg.Warehouse.Table)
	wh, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("warehouse: %w", err)
	}
	deps.close = append(deps.close, wh.Close)

	var notifier loader.Notifier
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.close = append(deps.close, rdb.Close)
		notifier = events.NewRedisPublisher(rdb)
	}

	deps.Loader = loader.NewLoader(cfg.Extract.OutputPath, cfg.Warehouse.Table, wh, notifier)
	return deps, nil
}
