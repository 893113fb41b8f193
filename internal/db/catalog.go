package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MedallionSchemas are the layer schemas created by `lakegen schemas`.
// Bronze tables live in main, so only the downstream layers need schemas.
var MedallionSchemas = []string{"stg", "silver", "gold"}

// systemSchemas are never listed, dropped from, or cleaned.
var systemSchemas = map[string]bool{
	"information_schema": true,
	"pg_catalog":         true,
	"system":             true,
	"temp":               true,
}

// TableInfo identifies a table within a schema.
type TableInfo struct {
	Schema string
	Name   string
	Type   string // BASE TABLE or VIEW
}

// TableSummary is one row of the catalog summary.
type TableSummary struct {
	Schema      string
	Name        string
	RowCount    int64
	ColumnCount int64
}

// ColumnInfo describes a single column.
type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
}

// QuoteIdent quotes a SQL identifier for DuckDB.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifiedName returns a quoted schema.table reference.
func QualifiedName(schema, table string) string {
	return QuoteIdent(schema) + "." + QuoteIdent(table)
}

// SplitQualifiedName splits a schema.table argument. A bare table name
// is resolved against the main schema.
func SplitQualifiedName(arg string) (schema, table string, err error) {
	parts := strings.Split(arg, ".")
	switch len(parts) {
	case 1:
		return "main", parts[0], nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("invalid table reference: %s", arg)
		}
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("invalid table reference: %s (expected schema.table)", arg)
	}
}

// CreateSchemas creates the given schemas if they do not exist.
func CreateSchemas(ctx context.Context, conn *sql.DB, schemas []string) error {
	for _, s := range schemas {
		if _, err := conn.ExecContext(ctx,
			fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", QuoteIdent(s))); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", s, err)
		}
	}
	return nil
}

// ListSchemas returns all user schemas in the warehouse.
func ListSchemas(ctx context.Context, conn *sql.DB) ([]string, error) {
	rows, err := conn.QueryContext(ctx, `
        SELECT schema_name FROM information_schema.schemata
        ORDER BY schema_name
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if systemSchemas[name] {
			continue
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

// ListTables returns all tables and views. An empty schema lists every
// user schema.
func ListTables(ctx context.Context, conn *sql.DB, schema string) ([]TableInfo, error) {
	query := `
        SELECT table_schema, table_name, table_type
        FROM information_schema.tables
        ORDER BY table_schema, table_name
    `
	args := []any{}
	if schema != "" {
		query = `
            SELECT table_schema, table_name, table_type
            FROM information_schema.tables
            WHERE table_schema = ?
            ORDER BY table_name
        `
		args = append(args, schema)
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Schema, &t.Name, &t.Type); err != nil {
			return nil, err
		}
		if systemSchemas[t.Schema] {
			continue
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// Summarize returns row and column counts for every table in the given
// schema ("" = all user schemas).
func Summarize(ctx context.Context, conn *sql.DB, schema string) ([]TableSummary, error) {
	tables, err := ListTables(ctx, conn, schema)
	if err != nil {
		return nil, err
	}

	summaries := make([]TableSummary, 0, len(tables))
	for _, t := range tables {
		s := TableSummary{Schema: t.Schema, Name: t.Name}

		err := conn.QueryRowContext(ctx,
			fmt.Sprintf("SELECT COUNT(*) FROM %s", QualifiedName(t.Schema, t.Name)),
		).Scan(&s.RowCount)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows of %s.%s: %w", t.Schema, t.Name, err)
		}

		err = conn.QueryRowContext(ctx, `
            SELECT COUNT(*) FROM information_schema.columns
            WHERE table_schema = ? AND table_name = ?
        `, t.Schema, t.Name).Scan(&s.ColumnCount)
		if err != nil {
			return nil, fmt.Errorf("failed to count columns of %s.%s: %w", t.Schema, t.Name, err)
		}

		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Describe returns column metadata of the table.
func Describe(ctx context.Context, conn *sql.DB, schema, table string) ([]ColumnInfo, error) {
	rows, err := conn.QueryContext(ctx, `
        SELECT column_name, data_type, is_nullable
        FROM information_schema.columns
        WHERE table_schema = ? AND table_name = ?
        ORDER BY ordinal_position
    `, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		var nullable string
		if err := rows.Scan(&c.Name, &c.Type, &nullable); err != nil {
			return nil, err
		}
		c.Nullable = nullable == "YES"
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s.%s does not exist", schema, table)
	}
	return cols, nil
}

// Preview returns up to limit rows of the table rendered as strings.
func Preview(ctx context.Context, conn *sql.DB, schema, table string, limit int) ([]string, [][]string, error) {
	rows, err := conn.QueryContext(ctx, fmt.Sprintf(
		"SELECT * FROM %s LIMIT %d", QualifiedName(schema, table), limit))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		rendered := make([]string, len(cols))
		for i, v := range values {
			switch v := v.(type) {
			case nil:
				rendered[i] = "NULL"
			case []byte:
				rendered[i] = string(v)
			default:
				rendered[i] = fmt.Sprintf("%v", v)
			}
		}
		out = append(out, rendered)
	}
	return cols, out, rows.Err()
}

// DropTable drops a single table if it exists.
func DropTable(ctx context.Context, conn *sql.DB, schema, table string) error {
	_, err := conn.ExecContext(ctx, fmt.Sprintf(
		"DROP TABLE IF EXISTS %s", QualifiedName(schema, table)))
	return err
}

// DropSchemaTables drops every table and view in one schema. System
// schemas are refused.
func DropSchemaTables(ctx context.Context, conn *sql.DB, schema string) (int, error) {
	if systemSchemas[schema] {
		return 0, fmt.Errorf("refusing to drop tables in system schema %s", schema)
	}

	tables, err := ListTables(ctx, conn, schema)
	if err != nil {
		return 0, err
	}

	dropped := 0
	for _, t := range tables {
		stmt := "DROP TABLE IF EXISTS %s"
		if t.Type == "VIEW" {
			stmt = "DROP VIEW IF EXISTS %s"
		}
		if _, err := conn.ExecContext(ctx, fmt.Sprintf(stmt, QualifiedName(t.Schema, t.Name))); err != nil {
			return dropped, fmt.Errorf("failed to drop %s.%s: %w", t.Schema, t.Name, err)
		}
		dropped++
	}
	return dropped, nil
}

// DropAllTables drops every table and view in every user schema and
// returns the total dropped.
func DropAllTables(ctx context.Context, conn *sql.DB) (int, error) {
	schemas, err := ListSchemas(ctx, conn)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, s := range schemas {
		n, err := DropSchemaTables(ctx, conn, s)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
