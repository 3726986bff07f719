package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jobmate/ingestion-service/internal/artifact"
	"jobmate/ingestion-service/internal/events"
	"jobmate/ingestion-service/internal/model"
	"jobmate/ingestion-service/internal/warehouse"
)

// Notifier is told about every committed load that inserted rows.
type Notifier interface {
	NotifyLoaded(ctx context.Context, ev events.BronzeLoaded) error
}

// Loader runs one incremental load of the CSV artifact into the warehouse.
type Loader struct {
	csvPath  string
	table    string
	wh       warehouse.Warehouse
	cleaner  *Cleaner
	notifier Notifier
	now      func() time.Time
	logger   *slog.Logger
}

// NewLoader constructs a Loader. notifier may be nil.
func NewLoader(csvPath, table string, wh warehouse.Warehouse, notifier Notifier) *Loader {
	return &Loader{
		csvPath:  csvPath,
		table:    table,
		wh:       wh,
		cleaner:  DefaultCleaner(),
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   slog.Default().With("component", "loader"),
	}
}

// Result reports the outcome of one run.
type Result struct {
	Read     int     // data rows in the CSV
	Loaded   int     // rows inserted
	Skipped  int     // rows whose job_id already existed (in the table or earlier in the CSV)
	Rejected int     // rows without a job_id
	Stages   []Stage // stages visited, START through DONE
}

// Run reads, cleans and reconciles the CSV, then inserts the new rows in a
// single committed batch. Warehouse errors are returned as-is (wrapped);
// nothing is retried.
func (l *Loader) Run(ctx context.Context) (Result, error) {
	var res Result
	tr := newTracker()
	step := func(s Stage) error {
		err := tr.advance(s)
		res.Stages = tr.path
		return err
	}

	if err := step(StageReadCSV); err != nil {
		return res, err
	}
	rows, err := artifact.ReadFile(l.csvPath)
	if err != nil {
		return res, fmt.Errorf("read csv: %w", err)
	}
	res.Read = len(rows)

	if err := step(StageClean); err != nil {
		return res, err
	}
	records := make([]model.JobRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, l.cleaner.CleanRow(row))
	}

	if err := step(StageFetchExistingIDs); err != nil {
		return res, err
	}
	existing, err := l.wh.ExistingJobIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch existing job ids: %w", err)
	}

	if err := step(StageFilter); err != nil {
		return res, err
	}
	fresh, skipped, rejected := Filter(records, existing)
	res.Skipped, res.Rejected = skipped, rejected

	if len(fresh) == 0 {
		l.logger.Info("no new jobs to load, everything already exists",
			"table", l.table, "read", res.Read, "skipped", skipped, "rejected", rejected)
		return res, step(StageDone)
	}

	if err := step(StageInsert); err != nil {
		return res, err
	}
	if err := l.wh.InsertJobs(ctx, fresh); err != nil {
		return res, fmt.Errorf("insert into %s: %w", l.table, err)
	}
	res.Loaded = len(fresh)

	if err := step(StageCommit); err != nil {
		return res, err
	}
	l.logger.Info("loaded new rows",
		"table", l.table, "loaded", res.Loaded, "skipped", res.Skipped, "rejected", res.Rejected)

	l.notify(ctx, res)

	return res, step(StageDone)
}

func (l *Loader) notify(ctx context.Context, res Result) {
	if l.notifier == nil {
		return
	}
	ev := events.BronzeLoaded{
		Table:    l.table,
		Loaded:   res.Loaded,
		Skipped:  res.Skipped,
		Rejected: res.Rejected,
		LoadedAt: l.now(),
	}
	if err := l.notifier.NotifyLoaded(ctx, ev); err != nil {
		l.logger.Warn("publish load event failed", "err", err)
	}
}

// Filter keeps records whose job_id is neither in existing nor repeated
// earlier in records. Records without a job_id are rejected.
func Filter(records []model.JobRecord, existing map[string]struct{}) (fresh []model.JobRecord, skipped, rejected int) {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.JobID == "" {
			rejected++
			continue
		}
		if _, ok := existing[r.JobID]; ok {
			skipped++
			continue
		}
		if _, ok := seen[r.JobID]; ok {
			skipped++
			continue
		}
		seen[r.JobID] = struct{}{}
		fresh = append(fresh, r)
	}
	return fresh, skipped, rejected
}
