package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/ingestion-service/internal/model"
)

// pgxDB is the subset of *pgxpool.Pool used by Postgres.
type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Postgres writes to a PostgreSQL staging table through pgx.
type Postgres struct {
	pool  pgxDB
	table string
}

var _ pgxDB = (*pgxpool.Pool)(nil)

// NewPostgres wraps a connected pool.
func NewPostgres(pool *pgxpool.Pool, table string) *Postgres {
	return &Postgres{pool: pool, table: table}
}

// ExistingJobIDs reads every job_id in one query.
func (p *Postgres) ExistingJobIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := p.pool.Query(ctx, selectIDsQuery(p.table))
	if err != nil {
		return nil, fmt.Errorf("query existing job ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id *string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job id: %w", err)
		}
		if id != nil {
			ids[*id] = struct{}{}
		}
	}
	return ids, rows.Err()
}

// InsertJobs inserts records in one transaction.
func (p *Postgres) InsertJobs(ctx context.Context, records []model.JobRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after Commit

	for _, batch := range chunks(records, maxRowsPerStatement) {
		if _, err := tx.Exec(ctx, insertQuery(p.table, len(batch), dollar), insertArgs(batch)...); err != nil {
			return fmt.Errorf("insert %d rows: %w", len(batch), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
