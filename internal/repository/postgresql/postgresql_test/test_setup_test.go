package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id          TEXT PRIMARY KEY,
	full_name   TEXT NOT NULL,
	department  TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT 'teacher',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	hire_date   DATE NOT NULL DEFAULT CURRENT_DATE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS attendance_records (
	id          TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	date        DATE NOT NULL,
	check_in    TEXT,
	check_out   TEXT,
	status      TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (employee_id, date)
);

CREATE TABLE IF NOT EXISTS holidays (
	id        TEXT PRIMARY KEY,
	date      DATE NOT NULL,
	name      TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS leave_requests (
	id               TEXT PRIMARY KEY,
	employee_id      TEXT NOT NULL REFERENCES employees(id),
	kind             TEXT NOT NULL DEFAULT 'leave',
	start_date       DATE NOT NULL,
	end_date         DATE NOT NULL,
	reason           TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	reviewed_by      TEXT,
	reviewed_at      TIMESTAMPTZ,
	rejection_reason TEXT,
	applied_date     DATE,
	submitted_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// TestDatabaseSetup holds the connection used by repository tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and creates the schema. The
// test is skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		t.Fatalf("failed to create schema: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("%v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row from the test tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendance_records",
		"leave_requests",
		"holidays",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

func (t *TestDatabaseSetup) insertEmployee(tb testing.TB, id, name, department string, active bool) {
	tb.Helper()
	_, err := t.DB.Exec(context.Background(), `
		INSERT INTO employees (id, full_name, department, is_active, hire_date)
		VALUES ($1, $2, $3, $4, '2020-01-01')
	`, id, name, department, active)
	if err != nil {
		tb.Fatalf("failed to insert employee: %v", err)
	}
}
