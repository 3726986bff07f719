// Package scraper implements job offer fetching and the extraction run.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/model"
)

const (
	// PageSize is the number of results requested per page.
	PageSize = 50
	// DefaultMaxPages caps pagination per company when no cap is given.
	DefaultMaxPages = 10
)

// AdzunaFetcher fetches job offers for one company at a time from the
// Adzuna search API. Pages are requested one by one with a fixed delay
// after every request.
type AdzunaFetcher struct {
	AppID     string
	AppKey    string
	Country   string // "ca", "gb", "us", …
	BaseURL   string
	PageDelay time.Duration

	client *http.Client
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
	logger *slog.Logger
}

// NewAdzunaFetcher constructs a fetcher with a shared HTTP client.
func NewAdzunaFetcher(cfg config.AdzunaConfig) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:     cfg.AppID,
		AppKey:    cfg.AppKey,
		Country:   cfg.Country,
		BaseURL:   cfg.BaseURL,
		PageDelay: cfg.PageDelay,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		now:       func() time.Time { return time.Now().UTC() },
		sleep:     sleepCtx,
		logger:    slog.Default().With("component", "fetcher"),
	}
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID           jobID           `json:"id"`
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Company      *adzunaLabelled `json:"company"`
	Location     *adzunaLabelled `json:"location"`
	Category     *adzunaLabelled `json:"category"`
	SalaryMin    *float64        `json:"salary_min"`
	SalaryMax    *float64        `json:"salary_max"`
	ContractType *string         `json:"contract_type"`
	ContractTime *string         `json:"contract_time"`
	Created      string          `json:"created"`
	RedirectURL  string          `json:"redirect_url"`
}

// adzunaLabelled covers the nested company, location and category objects.
type adzunaLabelled struct {
	DisplayName *string `json:"display_name"`
	Label       *string `json:"label"`
}

// jobID accepts the listing id as either a JSON string or a JSON number.
type jobID string

func (id *jobID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = jobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("job id: %w", err)
	}
	*id = jobID(n.String())
	return nil
}

// FetchCompany retrieves up to maxPages pages of offers for company.
// Pagination stops at the first empty page. A failed request ends the
// company's loop: the records gathered so far are returned with the error.
func (f *AdzunaFetcher) FetchCompany(ctx context.Context, company string, maxPages int) ([]model.JobRecord, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var records []model.JobRecord

	for page := 1; page <= maxPages; page++ {
		batch, err := f.fetchPage(ctx, company, page)
		if err != nil {
			f.logger.Warn("page fetch failed", "company", company, "page", page, "err", err)
			return records, fmt.Errorf("page %d: %w", page, err)
		}

		if len(batch) > 0 {
			for _, r := range batch {
				records = append(records, flatten(company, r, f.now()))
			}
			f.logger.Info("page fetched", "company", company, "page", page, "jobs", len(batch))
		}

		if err := f.sleep(ctx, f.PageDelay); err != nil {
			return records, err
		}

		if len(batch) == 0 {
			break // No more results
		}
	}

	return records, nil
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, company string, page int) ([]adzunaResult, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", f.BaseURL, f.Country, page)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("company", company)
	params.Set("results_per_page", strconv.Itoa(PageSize))
	params.Set("content-type", "application/json")

	reqURL := endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return apiResp.Results, nil
}

// flatten converts one listing into a JobRecord stamped with extractedAt.
func flatten(company string, r adzunaResult, extractedAt time.Time) model.JobRecord {
	rec := model.JobRecord{
		CompanyNameSearched: company,
		JobID:               string(r.ID),
		JobTitle:            unixNewlines(r.Title),
		Description:         unixNewlines(r.Description),
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		ContractType:        r.ContractType,
		ContractTime:        r.ContractTime,
		Created:             r.Created,
		RedirectURL:         r.RedirectURL,
		ExtractedAt:         extractedAt,
	}
	if r.Company != nil {
		rec.Company = r.Company.DisplayName
	}
	if r.Location != nil {
		rec.Location = r.Location.DisplayName
	}
	if r.Category != nil {
		rec.Category = r.Category.Label
	}
	return rec
}

// unixNewlines rewrites CRLF and bare CR as LF. encoding/csv drops the CR
// of a quoted CRLF on read, so the artifact and the warehouse only agree
// on LF line endings.
func unixNewlines(s *string) *string {
	if s == nil || !strings.ContainsRune(*s, '\r') {
		return s
	}
	v := strings.ReplaceAll(*s, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\r", "\n")
	return &v
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}

// sleepCtx waits d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
