package bronze_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lakegen/lakegen/internal/bronze"
	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/sink"
	"github.com/lakegen/lakegen/internal/testutil"
)

// fixtureDataset declares bronze tables over hand-written raw files.
type fixtureDataset struct {
	name   string
	tables []datasets.BronzeTable
}

func (d *fixtureDataset) Name() string        { return d.name }
func (d *fixtureDataset) Description() string { return "test fixture" }

func (d *fixtureDataset) Generate(ctx context.Context, spec datasets.GenerateSpec) ([]datasets.Output, error) {
	return nil, nil
}

func (d *fixtureDataset) BronzeTables() []datasets.BronzeTable {
	return d.tables
}

func writeCSVFixture(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()
	f, err := sink.CreateCSV(path, header)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	for _, row := range rows {
		if err := f.Write(row); err != nil {
			t.Fatalf("Failed to write row: %v", err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close %s: %v", path, err)
	}
}

func writeOrdersFixture(t *testing.T, rawDir string, day string, n int) {
	t.Helper()
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("ORD_%s_%d", day, i), day, fmt.Sprintf("%d", i)}
	}
	writeCSVFixture(t, filepath.Join(rawDir, "orders", day, "orders.csv"),
		[]string{"order_id", "order_date", "customer_id"}, rows)
}

func TestLoaderRun(t *testing.T) {
	conn := testutil.OpenMemoryWarehouse(t)
	rawDir := t.TempDir()
	ctx := context.Background()

	writeOrdersFixture(t, rawDir, "2024-01-01", 5)
	writeOrdersFixture(t, rawDir, "2024-01-02", 3)

	jf, err := sink.CreateJSONL(filepath.Join(rawDir, "events", "events-00000.jsonl"))
	if err != nil {
		t.Fatalf("Failed to create JSONL: %v", err)
	}
	for i := 0; i < 4; i++ {
		event := map[string]any{"event_id": i, "event_type": "click"}
		if err := jf.Write(event); err != nil {
			t.Fatalf("Failed to write event: %v", err)
		}
	}
	if err := jf.Close(); err != nil {
		t.Fatalf("Failed to close JSONL: %v", err)
	}

	err = sink.WriteXLSX(filepath.Join(rawDir, "rates.xlsx"), "rates",
		[]string{"date", "currency", "rate"},
		[][]any{
			{"2024-01-01", "USD", 1.0},
			{"2024-01-01", "PHP", 56.2},
		})
	if err != nil {
		t.Fatalf("Failed to write XLSX: %v", err)
	}

	ds := &fixtureDataset{
		name: "fixture",
		tables: []datasets.BronzeTable{
			{Name: "bronze_fixture_orders", Format: datasets.FormatCSV, Glob: "orders/*/*.csv"},
			{Name: "bronze_fixture_events", Format: datasets.FormatJSONL, Glob: "events/*.jsonl"},
			{Name: "bronze_fixture_rates", Format: datasets.FormatXLSX, Glob: "rates.xlsx", Sheet: "rates"},
			{Name: "bronze_fixture_absent", Format: datasets.FormatCSV, Glob: "nowhere/*.csv"},
		},
	}

	loader := bronze.New(conn, bronze.Config{RawDir: rawDir, Workers: 2})
	report, err := loader.Run(ctx, []datasets.Dataset{ds})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.RunID == "" {
		t.Error("Expected a run ID")
	}
	if got := report.Failed(); got != 0 {
		t.Fatalf("Expected no failures, got %d: %+v", got, report.Results)
	}

	byTable := make(map[string]bronze.TableResult)
	for _, r := range report.Results {
		byTable[r.Table] = r
	}

	orders := byTable["bronze_fixture_orders"]
	if orders.Status != bronze.StatusLoaded {
		t.Errorf("Expected orders loaded, got %s", orders.Status)
	}
	if orders.Rows != 8 || orders.Files != 2 {
		t.Errorf("Expected 8 rows from 2 files, got %d rows from %d files", orders.Rows, orders.Files)
	}
	if orders.Columns != 3 {
		t.Errorf("Expected 3 columns, got %d", orders.Columns)
	}
	if got := testutil.CountRows(t, conn, "main", "bronze_fixture_orders"); got != 8 {
		t.Errorf("Expected 8 rows in warehouse, got %d", got)
	}

	if got := byTable["bronze_fixture_events"].Rows; got != 4 {
		t.Errorf("Expected 4 event rows, got %d", got)
	}
	if got := byTable["bronze_fixture_rates"].Rows; got != 2 {
		t.Errorf("Expected 2 rate rows, got %d", got)
	}
	if got := byTable["bronze_fixture_absent"].Status; got != bronze.StatusMissing {
		t.Errorf("Expected missing status for empty glob, got %s", got)
	}

	// Second run with nothing new: everything is up to date.
	report, err = loader.Run(ctx, []datasets.Dataset{ds})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	for _, name := range []string{"bronze_fixture_orders", "bronze_fixture_events", "bronze_fixture_rates"} {
		var found *bronze.TableResult
		for i := range report.Results {
			if report.Results[i].Table == name {
				found = &report.Results[i]
			}
		}
		if found == nil {
			t.Fatalf("No result for %s", name)
		}
		if found.Status != bronze.StatusUpToDate {
			t.Errorf("Expected %s up to date, got %s", name, found.Status)
		}
		if found.Rows == 0 {
			t.Errorf("Expected %s to report existing rows", name)
		}
	}

	// A new partition appends without reloading old files.
	writeOrdersFixture(t, rawDir, "2024-01-03", 2)
	report, err = loader.Run(ctx, []datasets.Dataset{ds})
	if err != nil {
		t.Fatalf("Third run failed: %v", err)
	}
	for _, r := range report.Results {
		if r.Table != "bronze_fixture_orders" {
			continue
		}
		if r.Status != bronze.StatusAppended {
			t.Errorf("Expected appended, got %s", r.Status)
		}
		if r.Files != 1 {
			t.Errorf("Expected 1 new file, got %d", r.Files)
		}
		if r.Rows != 10 {
			t.Errorf("Expected 10 total rows, got %d", r.Rows)
		}
	}
}

func TestLoaderForceReload(t *testing.T) {
	conn := testutil.OpenMemoryWarehouse(t)
	rawDir := t.TempDir()
	ctx := context.Background()

	writeOrdersFixture(t, rawDir, "2024-02-01", 6)
	ds := &fixtureDataset{
		name: "fixture",
		tables: []datasets.BronzeTable{
			{Name: "bronze_force_orders", Format: datasets.FormatCSV, Glob: "orders/*/*.csv"},
		},
	}

	loader := bronze.New(conn, bronze.Config{RawDir: rawDir, Workers: 1})
	if _, err := loader.Run(ctx, []datasets.Dataset{ds}); err != nil {
		t.Fatalf("Initial run failed: %v", err)
	}

	forced := bronze.New(conn, bronze.Config{RawDir: rawDir, Workers: 1, Force: true})
	report, err := forced.Run(ctx, []datasets.Dataset{ds})
	if err != nil {
		t.Fatalf("Forced run failed: %v", err)
	}
	r := report.Results[0]
	if r.Status != bronze.StatusLoaded {
		t.Errorf("Expected forced reload, got %s", r.Status)
	}
	if r.Rows != 6 {
		t.Errorf("Expected 6 rows after forced reload, got %d", r.Rows)
	}
}

func TestLoaderRebuildsDroppedTable(t *testing.T) {
	conn := testutil.OpenMemoryWarehouse(t)
	rawDir := t.TempDir()
	ctx := context.Background()

	writeOrdersFixture(t, rawDir, "2024-02-10", 4)
	ds := &fixtureDataset{
		name: "fixture",
		tables: []datasets.BronzeTable{
			{Name: "bronze_rebuild_orders", Format: datasets.FormatCSV, Glob: "orders/*/*.csv"},
		},
	}

	loader := bronze.New(conn, bronze.Config{RawDir: rawDir, Workers: 1})
	if _, err := loader.Run(ctx, []datasets.Dataset{ds}); err != nil {
		t.Fatalf("Initial run failed: %v", err)
	}

	// Drop the table but leave the manifest entries behind.
	testutil.MustExec(t, conn, "DROP TABLE bronze_rebuild_orders")

	report, err := loader.Run(ctx, []datasets.Dataset{ds})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	r := report.Results[0]
	if r.Status != bronze.StatusLoaded {
		t.Errorf("Expected dropped table to be rebuilt, got %s", r.Status)
	}
	if r.Rows != 4 {
		t.Errorf("Expected 4 rows after rebuild, got %d", r.Rows)
	}
}

func TestLoaderIsolatesFailures(t *testing.T) {
	conn := testutil.OpenMemoryWarehouse(t)
	rawDir := t.TempDir()
	ctx := context.Background()

	writeOrdersFixture(t, rawDir, "2024-03-01", 2)
	// Not a parquet file; reading it must fail.
	if err := os.WriteFile(filepath.Join(rawDir, "broken.parquet"), []byte("nope"), 0o644); err != nil {
		t.Fatalf("Failed to write broken file: %v", err)
	}

	ds := &fixtureDataset{
		name: "fixture",
		tables: []datasets.BronzeTable{
			{Name: "bronze_iso_broken", Format: datasets.FormatParquet, Glob: "broken.parquet"},
			{Name: "bronze_iso_orders", Format: datasets.FormatCSV, Glob: "orders/*/*.csv"},
		},
	}

	loader := bronze.New(conn, bronze.Config{RawDir: rawDir, Workers: 2})
	report, err := loader.Run(ctx, []datasets.Dataset{ds})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := report.Failed(); got != 1 {
		t.Fatalf("Expected exactly 1 failure, got %d", got)
	}

	for _, r := range report.Results {
		switch r.Table {
		case "bronze_iso_broken":
			if r.Status != bronze.StatusFailed || r.Err == nil {
				t.Errorf("Expected broken table to fail, got %s", r.Status)
			}
		case "bronze_iso_orders":
			if r.Status != bronze.StatusLoaded {
				t.Errorf("Expected orders to load despite sibling failure, got %s", r.Status)
			}
		}
	}
}

func TestReportSummary(t *testing.T) {
	report := &bronze.Report{
		RunID: "test-run",
		Results: []bronze.TableResult{
			{Table: "bronze_a", Dataset: "retail", Status: bronze.StatusLoaded, Files: 2, Rows: 10, Columns: 3},
			{Table: "bronze_b", Dataset: "retail", Status: bronze.StatusFailed, Err: fmt.Errorf("boom")},
		},
	}

	var buf strings.Builder
	report.PrintSummary(&buf)
	out := buf.String()

	for _, want := range []string{"bronze_a", "loaded", "failed: boom", "1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}
