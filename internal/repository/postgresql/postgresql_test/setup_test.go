package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

// TestDatabaseSetup holds the connection to the integration database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.applySchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to truncate tables: %v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

func (t *TestDatabaseSetup) applySchema(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.sql")

	schema, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = t.DB.Exec(ctx, string(schema))
	return err
}

// TruncateAllTables removes all rows from the engine's tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payroll_records",
		"attendances",
		"managers",
		"staff",
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

// SeedEmployee inserts an active employee into the given registry ("managers", "staff" or "").
func (t *TestDatabaseSetup) SeedEmployee(ctx context.Context, id, code, registry string) error {
	_, err := t.DB.Exec(ctx,
		`INSERT INTO employees (id, employee_code, full_name, insurance_base) VALUES ($1, $2, $3, 10000000)`,
		id, code, "Employee "+code)
	if err != nil {
		return err
	}
	if registry == "" {
		return nil
	}
	_, err = t.DB.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (employee_code) VALUES ($1)`, registry), code)
	return err
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
