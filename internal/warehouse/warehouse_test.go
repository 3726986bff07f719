package warehouse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/ingestion-service/internal/config"
	"jobmate/ingestion-service/internal/model"
)

func TestValidateTable(t *testing.T) {
	for _, ok := range []string{"RAW_JOB_POSTINGS", "BRONZE.RAW_JOB_POSTINGS", "ANALYTICS.BRONZE.RAW_JOB_POSTINGS", "_t$1"} {
		assert.NoErrorf(t, ValidateTable(ok), "%q should be valid", ok)
	}
	for _, bad := range []string{"", "1abc", "a.b.c.d", "jobs; DROP TABLE x", "bronze.", `"quoted"`} {
		assert.ErrorIsf(t, ValidateTable(bad), ErrInvalidTable, "%q should be rejected", bad)
	}
}

func TestInsertQuery_Placeholders(t *testing.T) {
	cols := strings.Join(model.Columns, ", ")

	q := insertQuery("BRONZE.RAW_JOB_POSTINGS", 2, questionMark)
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(model.Columns)), ", ") + ")"
	assert.Equal(t, "INSERT INTO BRONZE.RAW_JOB_POSTINGS ("+cols+") VALUES "+row+", "+row, q)

	q = insertQuery("bronze.raw_job_postings", 2, dollar)
	assert.True(t, strings.HasSuffix(q, "$27, $28)"), q)
	assert.Contains(t, q, "($15, $16, ")
	assert.Equal(t, 28, strings.Count(q, "$"))
}

func TestInsertArgs_Order(t *testing.T) {
	recs := []model.JobRecord{
		{CompanyNameSearched: "CGI", JobID: "1"},
		{CompanyNameSearched: "SAP", JobID: "2", SalaryMin: model.Ptr(1.5)},
	}
	args := insertArgs(recs)
	require.Len(t, args, 2*len(model.Columns))

	n := len(model.Columns)
	assert.Equal(t, "CGI", args[0])
	assert.Equal(t, "1", args[1])
	assert.Equal(t, "SAP", args[n])
	assert.Equal(t, "2", args[n+1])
	assert.Equal(t, 1.5, args[n+6])
}

func TestChunks(t *testing.T) {
	recs := make([]model.JobRecord, 2501)
	got := chunks(recs, 1000)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 1000)
	assert.Len(t, got[2], 501)

	assert.Empty(t, chunks(nil, 1000))
}

func TestSnowflakeDSN(t *testing.T) {
	dsn, err := SnowflakeDSN(config.SnowflakeConfig{
		User: "loader", Password: "pw", Account: "xy12345",
		Warehouse: "COMPUTE_WH", Database: "JOBS", Schema: "BRONZE",
	})
	require.NoError(t, err)
	assert.Contains(t, dsn, "loader:pw@xy12345")
	assert.Contains(t, dsn, "warehouse=COMPUTE_WH")
	assert.Contains(t, dsn, "database=JOBS")
	assert.Contains(t, dsn, "schema=BRONZE")

	_, err = SnowflakeDSN(config.SnowflakeConfig{User: "loader", Password: "pw"})
	assert.Error(t, err, "account is required")
}

func TestOpen_RejectsBadTableBeforeConnecting(t *testing.T) {
	_, err := Open(context.Background(), config.WarehouseConfig{Driver: config.DriverPostgres, Table: "x;y"})
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = Open(context.Background(), config.WarehouseConfig{Driver: "duckdb", Table: "jobs"})
	assert.Error(t, err)
}

// ── pgx fakes ──────────────────────────────────────────────────────────────

type fakeRows struct {
	pgx.Rows
	ids []*string
	i   int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.ids) }
func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(**string)) = r.ids[r.i-1]
	return nil
}

type execCall struct {
	sql  string
	args []any
}

type fakeTx struct {
	pgx.Tx
	execs      []execCall
	execErr    error
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, execCall{sql: sql, args: args})
	if tx.execErr != nil {
		return pgconn.CommandTag{}, tx.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakePool struct {
	rows    *fakeRows
	queries []string
	tx      *fakeTx
}

func (p *fakePool) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	p.queries = append(p.queries, sql)
	return p.rows, nil
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) { return p.tx, nil }
func (p *fakePool) Close()                                {}

func TestPostgres_ExistingJobIDs(t *testing.T) {
	pool := &fakePool{rows: &fakeRows{ids: []*string{model.Ptr("A"), nil, model.Ptr("B")}}}
	pg := &Postgres{pool: pool, table: "bronze.raw_job_postings"}

	ids, err := pg.ExistingJobIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]struct{}{"A": {}, "B": {}}, ids)
	assert.Equal(t, []string{"SELECT job_id FROM bronze.raw_job_postings"}, pool.queries)
}

func TestPostgres_InsertJobsCommitsOnce(t *testing.T) {
	tx := &fakeTx{}
	pg := &Postgres{pool: &fakePool{tx: tx}, table: "jobs"}

	recs := make([]model.JobRecord, maxRowsPerStatement+1)
	for i := range recs {
		recs[i] = model.JobRecord{CompanyNameSearched: "IBM", JobID: string(rune('a' + i%26))}
	}

	require.NoError(t, pg.InsertJobs(context.Background(), recs))

	require.Len(t, tx.execs, 2)
	assert.Len(t, tx.execs[0].args, maxRowsPerStatement*len(model.Columns))
	assert.Len(t, tx.execs[1].args, len(model.Columns))
	assert.True(t, strings.HasPrefix(tx.execs[1].sql, "INSERT INTO jobs ("))
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestPostgres_InsertJobsRollsBackOnError(t *testing.T) {
	tx := &fakeTx{execErr: errors.New("duplicate key")}
	pg := &Postgres{pool: &fakePool{tx: tx}, table: "jobs"}

	err := pg.InsertJobs(context.Background(), []model.JobRecord{{JobID: "1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestPostgres_InsertJobsEmpty(t *testing.T) {
	pool := &fakePool{}
	pg := &Postgres{pool: pool, table: "jobs"}
	require.NoError(t, pg.InsertJobs(context.Background(), nil))
}
