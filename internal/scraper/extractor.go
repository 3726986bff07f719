package scraper

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"jobmate/ingestion-service/internal/artifact"
	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/model"
)

// CompanyFetcher fetches every page of offers for one company.
type CompanyFetcher interface {
	FetchCompany(ctx context.Context, company string, maxPages int) ([]model.JobRecord, error)
}

// Extractor runs the full extraction pass over the configured companies and
// writes the deduplicated result to the CSV artifact.
type Extractor struct {
	fetcher      CompanyFetcher
	companies    []string
	maxPages     int
	companyDelay time.Duration
	outputPath   string

	sleep  func(context.Context, time.Duration) error
	logger *slog.Logger
}

// NewExtractor constructs an Extractor.
func NewExtractor(fetcher CompanyFetcher, cfg config.ExtractConfig) *Extractor {
	return &Extractor{
		fetcher:      fetcher,
		companies:    cfg.Companies,
		maxPages:     cfg.MaxPages,
		companyDelay: cfg.CompanyDelay,
		outputPath:   cfg.OutputPath,
		sleep:        sleepCtx,
		logger:       slog.Default().With("component", "extractor"),
	}
}

// CategoryCount is one row of the category histogram in RunSummary.
type CategoryCount struct {
	Category string
	Count    int
}

// RunSummary describes one extraction pass.
type RunSummary struct {
	Fetched          int // records before dedup
	Unique           int // records written
	CompaniesCovered int // distinct searched companies present in the output
	FailedCompanies  []string
	TopCategories    []CategoryCount
	OutputPath       string
}

// Run fetches every company in order, deduplicates by job_id and writes
// the CSV. A failing company is logged and skipped; the file is written even
// when nothing was fetched. Errors come only from ctx or the CSV write.
func (e *Extractor) Run(ctx context.Context) (RunSummary, error) {
	e.logger.Info("extraction started", "companies", len(e.companies))

	var (
		all    []model.JobRecord
		failed []string
	)

	for _, company := range e.companies {
		records, err := e.fetcher.FetchCompany(ctx, company, e.maxPages)
		all = append(all, records...)
		if err != nil {
			failed = append(failed, company)
			e.logger.Warn("company fetch aborted, continuing",
				"company", company, "kept", len(records), "err", err)
		}
		e.logger.Info("company done", "company", company, "jobs", len(records), "total", len(all))

		if err := e.sleep(ctx, e.companyDelay); err != nil {
			return RunSummary{Fetched: len(all), FailedCompanies: failed}, err
		}
	}

	unique := Dedup(all)
	if err := artifact.WriteFile(e.outputPath, unique); err != nil {
		return RunSummary{Fetched: len(all), FailedCompanies: failed}, err
	}

	summary := summarize(unique)
	summary.Fetched = len(all)
	summary.FailedCompanies = failed
	summary.OutputPath = e.outputPath

	e.logger.Info("extraction complete",
		"unique", summary.Unique,
		"fetched", summary.Fetched,
		"companiesCovered", summary.CompaniesCovered,
		"failed", len(failed),
		"path", e.outputPath)
	for _, c := range summary.TopCategories {
		e.logger.Info("category", "name", c.Category, "jobs", c.Count)
	}

	return summary, nil
}

// Dedup keeps the first record for each job_id, preserving order.
// Records without a job_id cannot be compared and are all kept.
func Dedup(records []model.JobRecord) []model.JobRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.JobRecord, 0, len(records))
	for _, r := range records {
		if r.JobID != "" {
			if _, dup := seen[r.JobID]; dup {
				continue
			}
			seen[r.JobID] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

const topCategories = 10

func summarize(records []model.JobRecord) RunSummary {
	companies := make(map[string]struct{})
	categories := make(map[string]int)
	for _, r := range records {
		companies[r.CompanyNameSearched] = struct{}{}
		if r.Category != nil {
			categories[*r.Category]++
		}
	}

	counts := make([]CategoryCount, 0, len(categories))
	for name, n := range categories {
		counts = append(counts, CategoryCount{Category: name, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	if len(counts) > topCategories {
		counts = counts[:topCategories]
	}

	return RunSummary{
		Unique:           len(records),
		CompaniesCovered: len(companies),
		TopCategories:    counts,
	}
}
