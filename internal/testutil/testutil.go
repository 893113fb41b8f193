// Package testutil provides warehouse helpers for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/lakegen/lakegen/internal/db"
)

// OpenMemoryWarehouse opens an in-memory DuckDB database for a test and
// closes it on cleanup. Tests skip if the driver cannot start, matching
// how the integration tests behave when no engine is available.
func OpenMemoryWarehouse(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, "", 2)
	if err != nil {
		t.Skipf("DuckDB not available, skipping: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TempWarehousePath returns a database path under the test's temp dir.
func TempWarehousePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "warehouse.duckdb")
}

// MustExec runs a statement and fails the test on error.
func MustExec(t *testing.T, conn *sql.DB, stmt string, args ...any) {
	t.Helper()
	if _, err := conn.Exec(stmt, args...); err != nil {
		t.Fatalf("Failed to execute %q: %v", stmt, err)
	}
}

// CountRows returns COUNT(*) for a table.
func CountRows(t *testing.T, conn *sql.DB, schema, table string) int64 {
	t.Helper()
	var n int64
	query := "SELECT COUNT(*) FROM " + db.QualifiedName(schema, table)
	if err := conn.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows of %s.%s: %v", schema, table, err)
	}
	return n
}
