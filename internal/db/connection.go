// Package db provides access to the DuckDB warehouse file.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "duckdb" database/sql driver.
	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/lakegen/lakegen/internal/logging"
)

// Open opens (creating if necessary) the warehouse database file and
// applies the thread pragma. An empty path opens an in-memory database,
// which is what the tests use.
func Open(ctx context.Context, path string, threads int) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create warehouse directory: %w", err)
		}
	}

	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	if threads > 0 {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA threads=%d", threads)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set threads pragma: %w", err)
		}
	}

	logging.Debug().
		Str("path", path).
		Int("threads", threads).
		Msg("Opened warehouse")

	return conn, nil
}
