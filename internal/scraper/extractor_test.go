package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/ingestion-service/internal/artifact"
	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/model"
)

// stubFetcher returns canned records per company.
type stubFetcher struct {
	records map[string][]model.JobRecord
	errs    map[string]error
	calls   []string
}

func (s *stubFetcher) FetchCompany(_ context.Context, company string, _ int) ([]model.JobRecord, error) {
	s.calls = append(s.calls, company)
	return s.records[company], s.errs[company]
}

func newTestExtractor(t *testing.T, f CompanyFetcher, companies ...string) (*Extractor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "raw_jobs.csv")
	e := NewExtractor(f, config.ExtractConfig{
		Companies:  companies,
		MaxPages:   10,
		OutputPath: path,
	})
	e.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return e, path
}

func readIDs(t *testing.T, path string) []string {
	t.Helper()
	rows, err := artifact.ReadFile(path)
	require.NoError(t, err)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		id, _ := r.Get(model.ColJobID)
		ids = append(ids, id)
	}
	return ids
}

func job(company, id string) model.JobRecord {
	return model.JobRecord{CompanyNameSearched: company, JobID: id, ExtractedAt: fixedNow}
}

func TestRun_PartialFailureIsolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		company := r.URL.Query().Get("company")
		onFirst := r.URL.Path == "/ca/search/1"
		switch {
		case company == "OpenText":
			http.Error(w, "boom", http.StatusInternalServerError)
		case onFirst && company == "Fortinet":
			fmt.Fprint(w, page(100, 2))
		case onFirst && company == "Autodesk":
			fmt.Fprint(w, page(300, 3))
		default:
			fmt.Fprint(w, `{"results": []}`)
		}
	}))
	defer srv.Close()

	fetcher, _ := newTestFetcher(srv.URL)
	e, path := newTestExtractor(t, fetcher, "Fortinet", "OpenText", "Autodesk")

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"100", "101", "300", "301", "302"}, readIDs(t, path))
	assert.Equal(t, []string{"OpenText"}, summary.FailedCompanies)
	assert.Equal(t, 5, summary.Unique)
	assert.Equal(t, 2, summary.CompaniesCovered)
}

func TestRun_DeduplicatesAcrossCompanies(t *testing.T) {
	first := job("Google", "A")
	first.JobTitle = model.Ptr("first seen")
	second := job("Amazon", "A")
	second.JobTitle = model.Ptr("second seen")

	f := &stubFetcher{records: map[string][]model.JobRecord{
		"Google": {first, job("Google", "B")},
		"Amazon": {second, job("Amazon", "C")},
	}}
	e, path := newTestExtractor(t, f, "Google", "Amazon")

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, readIDs(t, path))
	assert.Equal(t, 4, summary.Fetched)
	assert.Equal(t, 3, summary.Unique)

	rows, err := artifact.ReadFile(path)
	require.NoError(t, err)
	title, _ := rows[0].Get(model.ColJobTitle)
	assert.Equal(t, "first seen", title)
}

func TestRun_AllCompaniesFailWritesEmptyFile(t *testing.T) {
	boom := errors.New("connection refused")
	f := &stubFetcher{errs: map[string]error{"Mitel": boom, "Staples": boom}}
	e, path := newTestExtractor(t, f, "Mitel", "Staples")

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, readIDs(t, path))
	assert.Equal(t, []string{"Mitel", "Staples"}, f.calls)
	assert.Equal(t, []string{"Mitel", "Staples"}, summary.FailedCompanies)
}

func TestRun_CompanyDelayAfterEachCompany(t *testing.T) {
	f := &stubFetcher{}
	e, _ := newTestExtractor(t, f, "SAP", "Deloitte", "Accenture")

	var delays []time.Duration
	e.companyDelay = time.Second
	e.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, delays)
}

func TestRun_CancelledContextStopsRun(t *testing.T) {
	f := &stubFetcher{}
	e, _ := newTestExtractor(t, f, "SAP", "Deloitte")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"SAP"}, f.calls)
}

func TestDedup_KeepsRecordsWithoutID(t *testing.T) {
	in := []model.JobRecord{job("x", ""), job("x", "1"), job("y", ""), job("y", "1")}

	out := Dedup(in)
	require.Len(t, out, 3)
	assert.Equal(t, "", out[0].JobID)
	assert.Equal(t, "1", out[1].JobID)
	assert.Equal(t, "y", out[2].CompanyNameSearched)
}

func TestSummarize_TopCategories(t *testing.T) {
	var records []model.JobRecord
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			r := job("Hootsuite", fmt.Sprintf("%d-%d", i, j))
			r.Category = model.Ptr(fmt.Sprintf("cat-%02d", i))
			records = append(records, r)
		}
	}

	s := summarize(records)
	require.Len(t, s.TopCategories, 10)
	assert.Equal(t, CategoryCount{Category: "cat-11", Count: 12}, s.TopCategories[0])
	assert.Equal(t, CategoryCount{Category: "cat-02", Count: 3}, s.TopCategories[9])
	assert.Equal(t, 1, s.CompaniesCovered)
}
