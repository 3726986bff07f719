// Package model defines shared data structures for the ingestion service.
package model

import "time"

// ExtractedAtLayout is the serialized form of JobRecord.ExtractedAt.
const ExtractedAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// Column names of the raw job postings table, in load order.
// The CSV header and the INSERT column list both follow this order.
const (
	ColCompanyNameSearched = "company_name_searched"
	ColJobID               = "job_id"
	ColJobTitle            = "job_title"
	ColCompany             = "company"
	ColLocation            = "location"
	ColDescription         = "description"
	ColSalaryMin           = "salary_min"
	ColSalaryMax           = "salary_max"
	ColContractType        = "contract_type"
	ColContractTime        = "contract_time"
	ColCategory            = "category"
	ColCreated             = "created"
	ColRedirectURL         = "redirect_url"
	ColExtractedAt         = "extracted_at"
)

// Columns is the ordered column list shared by the CSV artifact and the warehouse.
var Columns = []string{
	ColCompanyNameSearched,
	ColJobID,
	ColJobTitle,
	ColCompany,
	ColLocation,
	ColDescription,
	ColSalaryMin,
	ColSalaryMax,
	ColContractType,
	ColContractTime,
	ColCategory,
	ColCreated,
	ColRedirectURL,
	ColExtractedAt,
}

// JobRecord is one posting returned by a company search, flattened for the
// bronze layer. Pointer fields are nullable.
type JobRecord struct {
	CompanyNameSearched string
	JobID               string
	JobTitle            *string
	Company             *string // as reported by the source, may differ from the searched name
	Location            *string
	Description         *string
	SalaryMin           *float64
	SalaryMax           *float64
	ContractType        *string
	ContractTime        *string
	Category            *string
	Created             string
	RedirectURL         string
	ExtractedAt         time.Time
}

// Values returns the record's cells in Columns order. Null cells are nil;
// the remaining cells are string, float64 or time.Time.
func (r JobRecord) Values() []any {
	return []any{
		nilIfEmpty(r.CompanyNameSearched),
		nilIfEmpty(r.JobID),
		deref(r.JobTitle),
		deref(r.Company),
		deref(r.Location),
		deref(r.Description),
		deref(r.SalaryMin),
		deref(r.SalaryMax),
		deref(r.ContractType),
		deref(r.ContractTime),
		deref(r.Category),
		nilIfEmpty(r.Created),
		nilIfEmpty(r.RedirectURL),
		nilIfZero(r.ExtractedAt),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfZero(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
