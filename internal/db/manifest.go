package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// The manifest records every raw file that has been ingested so that
// repeated loads are idempotent.
const createManifestSQL = `
CREATE TABLE IF NOT EXISTS manifest_processed_files (
    src_path     TEXT PRIMARY KEY,
    processed_at TIMESTAMP NOT NULL,
    row_count    BIGINT NOT NULL
)`

// InitManifest creates the manifest table if it does not exist.
func InitManifest(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, createManifestSQL); err != nil {
		return fmt.Errorf("failed to create manifest table: %w", err)
	}
	return nil
}

// Processed reports whether the file was already ingested.
func Processed(ctx context.Context, conn *sql.DB, path string) (bool, error) {
	var one int
	err := conn.QueryRowContext(ctx, `
        SELECT 1 FROM manifest_processed_files WHERE src_path = ?
    `, path).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkProcessed records (or refreshes) a file in the manifest.
func MarkProcessed(ctx context.Context, conn *sql.DB, path string, rowCount int64) error {
	_, err := conn.ExecContext(ctx, `
        INSERT OR REPLACE INTO manifest_processed_files (src_path, processed_at, row_count)
        VALUES (?, ?, ?)
    `, path, time.Now().UTC(), rowCount)
	if err != nil {
		return fmt.Errorf("failed to mark %s processed: %w", path, err)
	}
	return nil
}

// ProcessedFiles returns every manifest entry as a path -> row count map.
func ProcessedFiles(ctx context.Context, conn *sql.DB) (map[string]int64, error) {
	rows, err := conn.QueryContext(ctx, `
        SELECT src_path, row_count FROM manifest_processed_files
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make(map[string]int64)
	for rows.Next() {
		var path string
		var count int64
		if err := rows.Scan(&path, &count); err != nil {
			return nil, err
		}
		files[path] = count
	}
	return files, rows.Err()
}

// ClearManifest removes every manifest entry. Used by forced reloads.
func ClearManifest(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `DELETE FROM manifest_processed_files`)
	return err
}
