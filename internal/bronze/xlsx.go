package bronze

import (
	"context"
	"fmt"
	"strings"

	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/db"
	"github.com/lakegen/lakegen/internal/sink"
)

// xlsxInsertBatch bounds how many rows go into one INSERT statement.
const xlsxInsertBatch = 500

// loadXLSX ingests spreadsheet files. DuckDB has no built-in XLSX
// reader, so the workbook is decoded in-process and inserted in batches.
// All columns land as VARCHAR; typing them is a staging concern.
func (l *Loader) loadXLSX(ctx context.Context, tbl datasets.BronzeTable, files []string, replace bool, fileRows map[string]int64) error {
	for i, f := range files {
		rows, err := sink.ReadXLSX(f, tbl.Sheet)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f, err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("%s has no rows in sheet %s", f, tbl.Sheet)
		}
		header := rows[0]
		data := rows[1:]

		if replace && i == 0 {
			cols := make([]string, len(header))
			for j, c := range header {
				cols[j] = db.QuoteIdent(c) + " VARCHAR"
			}
			stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)",
				db.QuoteIdent(tbl.Name), strings.Join(cols, ", "))
			if _, err := l.conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create %s: %w", tbl.Name, err)
			}
		}

		if err := l.insertRows(ctx, tbl.Name, len(header), data); err != nil {
			return fmt.Errorf("failed to insert %s: %w", f, err)
		}
		fileRows[f] = int64(len(data))
	}
	return nil
}

// insertRows writes rows with multi-row parameterized INSERTs.
func (l *Loader) insertRows(ctx context.Context, table string, width int, rows [][]string) error {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"

	for start := 0; start < len(rows); start += xlsxInsertBatch {
		end := min(start+xlsxInsertBatch, len(rows))
		batch := rows[start:end]

		groups := make([]string, len(batch))
		args := make([]any, 0, len(batch)*width)
		for i, row := range batch {
			groups[i] = placeholder
			for j := 0; j < width; j++ {
				// Trailing empty cells are omitted by the decoder.
				if j < len(row) {
					args = append(args, row[j])
				} else {
					args = append(args, "")
				}
			}
		}

		stmt := fmt.Sprintf("INSERT INTO %s VALUES %s",
			db.QuoteIdent(table), strings.Join(groups, ", "))
		if _, err := l.conn.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}
