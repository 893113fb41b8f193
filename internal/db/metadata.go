package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lakegen/lakegen/internal/logging"
	"github.com/lakegen/lakegen/pkg/version"
)

const metadataTable = "lakegen_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS lakegen_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveLoadMetadata records details of the last bronze load.
func SaveLoadMetadata(ctx context.Context, conn *sql.DB, rawDir string, tableCount int) error {
	if _, err := conn.ExecContext(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"raw_dir":     rawDir,
		"version":     version.Short(),
		"loaded_at":   time.Now().UTC().Format(time.RFC3339),
		"table_count": fmt.Sprintf("%d", tableCount),
	}

	for key, value := range metadata {
		_, err := conn.ExecContext(ctx, `
            INSERT OR REPLACE INTO lakegen_metadata (key, value) VALUES (?, ?)
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("raw_dir", rawDir).
		Int("table_count", tableCount).
		Msg("Saved load metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, conn *sql.DB, key string) (string, error) {
	var value string
	err := conn.QueryRowContext(ctx, `
        SELECT value FROM lakegen_metadata WHERE key = ?
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, conn *sql.DB) (map[string]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT key, value FROM lakegen_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}
	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
