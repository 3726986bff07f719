// Package warehouse provides the bronze staging table adapters used by the
// loader. Each adapter issues exactly two statement kinds: a read of the
// existing job ids and a parameterized multi-row INSERT.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/db"
	"jobmate/ingestion-service/internal/model"
)

// Warehouse is the loader's view of the destination table.
type Warehouse interface {
	// ExistingJobIDs returns every job_id already present in the table.
	ExistingJobIDs(ctx context.Context) (map[string]struct{}, error)
	// InsertJobs inserts records and commits them as one unit.
	InsertJobs(ctx context.Context, records []model.JobRecord) error
	Close() error
}

// ErrInvalidTable is returned for table names that are not plain
// (optionally schema- or database-qualified) identifiers.
var ErrInvalidTable = errors.New("invalid table name")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// ValidateTable rejects anything that cannot be spliced into SQL verbatim.
func ValidateTable(name string) error {
	if !tableName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	return nil
}

// Open connects to the warehouse selected by cfg.Driver.
func Open(ctx context.Context, cfg config.WarehouseConfig) (Warehouse, error) {
	if err := ValidateTable(cfg.Table); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverSnowflake:
		return OpenSnowflake(ctx, cfg.Snowflake, cfg.Table)
	case config.DriverPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool, cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", cfg.Driver)
	}
}

// placeholder renders the n-th (1-based) bind parameter of a dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// maxRowsPerStatement keeps bind parameter counts under driver limits
// (PostgreSQL allows 65535 per statement).
const maxRowsPerStatement = 1000

func selectIDsQuery(table string) string {
	return "SELECT job_id FROM " + table
}

// insertQuery builds an INSERT for rows records using Columns order.
func insertQuery(table string, rows int, ph placeholder) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(model.Columns, ", "))
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range model.Columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ph(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// insertArgs flattens records into bind arguments matching insertQuery.
func insertArgs(records []model.JobRecord) []any {
	args := make([]any, 0, len(records)*len(model.Columns))
	for _, r := range records {
		args = append(args, r.Values()...)
	}
	return args
}

// chunks splits records into statement-sized batches.
func chunks(records []model.JobRecord, size int) [][]model.JobRecord {
	var out [][]model.JobRecord
	for len(records) > size {
		out = append(out, records[:size])
		records = records[size:]
	}
	if len(records) > 0 {
		out = append(out, records)
	}
	return out
}
