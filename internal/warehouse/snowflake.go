package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"

	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/model"
)

// SnowflakeDSN builds a gosnowflake DSN from the connection settings.
func SnowflakeDSN(cfg config.SnowflakeConfig) (string, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
	})
	if err != nil {
		return "", fmt.Errorf("snowflake dsn: %w", err)
	}
	return dsn, nil
}

// Snowflake writes to a Snowflake table through database/sql.
type Snowflake struct {
	db    *sql.DB
	table string
}

// OpenSnowflake opens and verifies a Snowflake connection.
func OpenSnowflake(ctx context.Context, cfg config.SnowflakeConfig, table string) (*Snowflake, error) {
	dsn, err := SnowflakeDSN(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("snowflake ping failed: %w", err)
	}

	return NewSnowflake(conn, table), nil
}

// NewSnowflake wraps an already-open handle.
func NewSnowflake(conn *sql.DB, table string) *Snowflake {
	return &Snowflake{db: conn, table: table}
}

// ExistingJobIDs reads every job_id in one query.
func (s *Snowflake) ExistingJobIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, selectIDsQuery(s.table))
	if err != nil {
		return nil, fmt.Errorf("query existing job ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job id: %w", err)
		}
		if id.Valid {
			ids[id.String] = struct{}{}
		}
	}
	return ids, rows.Err()
}

// InsertJobs inserts records in one transaction.
func (s *Snowflake) InsertJobs(ctx context.Context, records []model.JobRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for _, batch := range chunks(records, maxRowsPerStatement) {
		if _, err := tx.ExecContext(ctx, insertQuery(s.table, len(batch), questionMark), insertArgs(batch)...); err != nil {
			return fmt.Errorf("insert %d rows: %w", len(batch), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Snowflake) Close() error {
	return s.db.Close()
}
