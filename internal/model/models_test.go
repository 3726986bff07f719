package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/ingestion-service/internal/model"
)

func TestValues_FollowColumnOrder(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := model.JobRecord{
		CompanyNameSearched: "Kinaxis",
		JobID:               "42",
		JobTitle:            model.Ptr("Planner"),
		SalaryMax:           model.Ptr(95000.0),
		Created:             "2026-02-28T10:00:00Z",
		ExtractedAt:         at,
	}

	vals := rec.Values()
	require.Len(t, vals, len(model.Columns))

	byCol := make(map[string]any, len(vals))
	for i, col := range model.Columns {
		byCol[col] = vals[i]
	}

	assert.Equal(t, "Kinaxis", byCol[model.ColCompanyNameSearched])
	assert.Equal(t, "42", byCol[model.ColJobID])
	assert.Equal(t, "Planner", byCol[model.ColJobTitle])
	assert.Equal(t, 95000.0, byCol[model.ColSalaryMax])
	assert.Equal(t, at, byCol[model.ColExtractedAt])
}

func TestValues_NullCells(t *testing.T) {
	vals := model.JobRecord{}.Values()

	for i, col := range model.Columns {
		assert.Nilf(t, vals[i], "column %s should be null", col)
	}
}
