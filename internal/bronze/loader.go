// Package bronze implements raw file ingestion into bronze warehouse
// tables. Each bronze table is fed by one glob of raw files; tables load
// concurrently and a failure on one table never aborts the others.
package bronze

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/db"
	"github.com/lakegen/lakegen/internal/logging"
)

// Config holds loader settings.
type Config struct {
	// RawDir is the directory raw files are read from.
	RawDir string

	// Workers bounds how many tables load concurrently.
	Workers int

	// Force clears the manifest and reloads every file.
	Force bool
}

// Loader ingests raw files into bronze tables.
type Loader struct {
	conn *sql.DB
	cfg  Config
}

// New creates a loader.
func New(conn *sql.DB, cfg Config) *Loader {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Loader{conn: conn, cfg: cfg}
}

// Run loads every bronze table declared by the given datasets and
// returns a per-table report. The returned error covers infrastructure
// failures only; per-table load errors are carried in the report.
func (l *Loader) Run(ctx context.Context, dss []datasets.Dataset) (*Report, error) {
	start := time.Now()

	if err := db.InitManifest(ctx, l.conn); err != nil {
		return nil, err
	}
	if l.cfg.Force {
		logging.Info().Msg("Force reload: clearing manifest")
		if err := db.ClearManifest(ctx, l.conn); err != nil {
			return nil, err
		}
	}

	type job struct {
		dataset string
		table   datasets.BronzeTable
	}
	var jobs []job
	for _, ds := range dss {
		for _, tbl := range ds.BronzeTables() {
			jobs = append(jobs, job{dataset: ds.Name(), table: tbl})
		}
	}

	results := make([]TableResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)

	for i, j := range jobs {
		g.Go(func() error {
			results[i] = l.loadTable(gctx, j.dataset, j.table)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loaded := 0
	for _, r := range results {
		if r.Status == StatusLoaded || r.Status == StatusAppended {
			loaded++
		}
	}
	if err := db.SaveLoadMetadata(ctx, l.conn, l.cfg.RawDir, loaded); err != nil {
		return nil, err
	}

	return &Report{
		RunID:    uuid.NewString(),
		Results:  results,
		Duration: time.Since(start),
	}, nil
}

// loadTable loads one bronze table. All failure modes are folded into
// the result so the caller can keep going.
func (l *Loader) loadTable(ctx context.Context, dataset string, tbl datasets.BronzeTable) TableResult {
	log := logging.ForTable(tbl.Name)
	start := time.Now()
	result := TableResult{Table: tbl.Name, Dataset: dataset, Format: tbl.Format}

	fail := func(err error) TableResult {
		log.Error().Err(err).Msg("Bronze load failed")
		result.Status = StatusFailed
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	files, err := filepath.Glob(filepath.Join(l.cfg.RawDir, tbl.Glob))
	if err != nil {
		return fail(fmt.Errorf("bad glob %s: %w", tbl.Glob, err))
	}
	sort.Strings(files)

	if len(files) == 0 {
		log.Warn().Str("glob", tbl.Glob).Msg("No source files, skipping")
		result.Status = StatusMissing
		result.Duration = time.Since(start)
		return result
	}

	exists, err := l.tableExists(ctx, tbl.Name)
	if err != nil {
		return fail(err)
	}

	newFiles := make([]string, 0, len(files))
	for _, f := range files {
		seen, err := db.Processed(ctx, l.conn, f)
		if err != nil {
			return fail(fmt.Errorf("manifest lookup failed: %w", err))
		}
		if !seen {
			newFiles = append(newFiles, f)
		}
	}
	if !exists {
		// The table may have been dropped since the files were recorded;
		// rebuild it from everything the glob matched.
		newFiles = files
	}
	result.Files = len(newFiles)

	if len(newFiles) == 0 {
		result.Status = StatusUpToDate
		l.fillCounts(ctx, &result)
		result.Duration = time.Since(start)
		log.Debug().Msg("Up to date")
		return result
	}

	replace := !exists || l.cfg.Force

	fileRows := make(map[string]int64, len(newFiles))
	switch tbl.Format {
	case datasets.FormatCSV, datasets.FormatParquet, datasets.FormatJSONL:
		err = l.loadWithReader(ctx, tbl, newFiles, replace, fileRows)
	case datasets.FormatXLSX:
		err = l.loadXLSX(ctx, tbl, newFiles, replace, fileRows)
	default:
		err = fmt.Errorf("unsupported format %s", tbl.Format)
	}
	if err != nil {
		return fail(err)
	}

	for _, f := range newFiles {
		if err := db.MarkProcessed(ctx, l.conn, f, fileRows[f]); err != nil {
			return fail(err)
		}
	}

	if replace {
		result.Status = StatusLoaded
	} else {
		result.Status = StatusAppended
	}
	l.fillCounts(ctx, &result)
	result.Duration = time.Since(start)

	log.Info().
		Str("status", string(result.Status)).
		Int("files", result.Files).
		Int64("rows", result.Rows).
		Dur("elapsed", result.Duration).
		Msg("Bronze table loaded")
	return result
}

// loadWithReader ingests formats DuckDB can read natively.
func (l *Loader) loadWithReader(ctx context.Context, tbl datasets.BronzeTable, files []string, replace bool, fileRows map[string]int64) error {
	stmt := fmt.Sprintf("INSERT INTO %s BY NAME SELECT * FROM %s",
		db.QuoteIdent(tbl.Name), readerExpr(tbl.Format, files))
	if replace {
		stmt = fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s",
			db.QuoteIdent(tbl.Name), readerExpr(tbl.Format, files))
	}
	if _, err := l.conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to load %s: %w", tbl.Name, err)
	}

	// Per-file row counts for the manifest.
	for _, f := range files {
		var n int64
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s", readerExpr(tbl.Format, []string{f}))
		if err := l.conn.QueryRowContext(ctx, q).Scan(&n); err != nil {
			return fmt.Errorf("failed to count %s: %w", f, err)
		}
		fileRows[f] = n
	}
	return nil
}

// readerExpr builds the DuckDB table function call for a file list.
// CSV and JSON reads tolerate malformed rows; the raw data deliberately
// contains some.
func readerExpr(format datasets.Format, files []string) string {
	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = "'" + strings.ReplaceAll(f, "'", "''") + "'"
	}
	list := "[" + strings.Join(quoted, ", ") + "]"

	switch format {
	case datasets.FormatCSV:
		return fmt.Sprintf("read_csv_auto(%s, ignore_errors=true)", list)
	case datasets.FormatParquet:
		return fmt.Sprintf("read_parquet(%s)", list)
	case datasets.FormatJSONL:
		return fmt.Sprintf("read_json_auto(%s, format='newline_delimited', ignore_errors=true)", list)
	default:
		return ""
	}
}

func (l *Loader) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := l.conn.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM information_schema.tables
        WHERE table_schema = 'main' AND table_name = ?
    `, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return n > 0, nil
}

// fillCounts records the table's post-load row and column counts.
// Failures here only leave the counts at zero.
func (l *Loader) fillCounts(ctx context.Context, result *TableResult) {
	_ = l.conn.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s", db.QuoteIdent(result.Table))).Scan(&result.Rows)
	_ = l.conn.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM information_schema.columns
        WHERE table_schema = 'main' AND table_name = ?
    `, result.Table).Scan(&result.Columns)
}
