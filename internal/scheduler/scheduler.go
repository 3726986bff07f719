// Package scheduler wires up the cron job that periodically runs an
// extraction followed by a bronze load.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"jobmate/ingestion-service/internal/loader"
	"jobmate/ingestion-service/internal/scraper"
)

// Extractor produces the CSV artifact.
type Extractor interface {
	Run(ctx context.Context) (scraper.RunSummary, error)
}

// Loader consumes the CSV artifact.
type Loader interface {
	Run(ctx context.Context) (loader.Result, error)
}

// Scheduler wraps robfig/cron and manages the ingestion loop.
type Scheduler struct {
	cron      *cron.Cron
	extractor Extractor
	loader    Loader
	spec      string // cron spec, e.g. "@every 24h"
	logger    *slog.Logger
	initial   sync.WaitGroup
}

// New creates a Scheduler that fires on spec. A pass still running when the
// next tick arrives causes that tick to be skipped.
func New(extractor Extractor, ld Loader, spec string) *Scheduler {
	logger := slog.Default().With("component", "scheduler")
	cl := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		extractor: extractor,
		loader:    ld,
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the job and starts the scheduler. Also runs one pass
// immediately so the table is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("ingestion pass failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cron started", "spec", s.spec)

	// First pass goes through the cron chain so it cannot overlap a tick.
	job := s.cron.Entry(id).WrappedJob
	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		job.Run()
	}()

	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.logger.Info("cron stopped")
}

// RunOnce runs one extraction then one load. The load is skipped when the
// extraction could not write its artifact.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.logger.Info("ingestion pass started")

	summary, err := s.extractor.Run(ctx)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if len(summary.FailedCompanies) > 0 {
		s.logger.Warn("extraction finished with failed companies", "failed", summary.FailedCompanies)
	}

	res, err := s.loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	s.logger.Info("ingestion pass complete",
		"unique", summary.Unique, "loaded", res.Loaded, "skipped", res.Skipped)
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
