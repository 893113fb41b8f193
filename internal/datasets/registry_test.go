package datasets_test

import (
	"strings"
	"testing"

	"github.com/lakegen/lakegen/internal/datasets"
	// Import dataset packages to trigger their init() registration.
	_ "github.com/lakegen/lakegen/internal/datasets/clickstream"
	_ "github.com/lakegen/lakegen/internal/datasets/fx"
	_ "github.com/lakegen/lakegen/internal/datasets/retail"
	_ "github.com/lakegen/lakegen/internal/datasets/telemetry"
)

func TestGet(t *testing.T) {
	knownDatasets := []string{
		"retail",
		"telemetry",
		"clickstream",
		"fx",
	}

	for _, name := range knownDatasets {
		t.Run(name, func(t *testing.T) {
			ds, err := datasets.Get(name)
			if err != nil {
				t.Fatalf("Failed to get dataset '%s': %v", name, err)
			}
			if ds == nil {
				t.Fatalf("Get('%s') returned nil", name)
			}
			if ds.Name() != name {
				t.Errorf("Name mismatch: expected '%s', got '%s'", name, ds.Name())
			}
			if ds.Description() == "" {
				t.Error("Description should not be empty")
			}
		})
	}
}

func TestGetInvalidDataset(t *testing.T) {
	if _, err := datasets.Get("nonexistent"); err == nil {
		t.Error("Expected error for nonexistent dataset, got nil")
	}
}

func TestGetEmptyName(t *testing.T) {
	if _, err := datasets.Get(""); err == nil {
		t.Error("Expected error for empty dataset name, got nil")
	}
}

func TestListSorted(t *testing.T) {
	names := datasets.List()
	if len(names) < 4 {
		t.Fatalf("Expected at least 4 datasets, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("List not sorted: %v", names)
		}
	}
}

func TestBronzeTables(t *testing.T) {
	seen := make(map[string]string)

	for _, ds := range datasets.All() {
		tables := ds.BronzeTables()
		if len(tables) == 0 {
			t.Errorf("Dataset '%s' declares no bronze tables", ds.Name())
		}

		for _, tbl := range tables {
			if !strings.HasPrefix(tbl.Name, "bronze_") {
				t.Errorf("Table '%s' missing bronze_ prefix", tbl.Name)
			}
			if tbl.Glob == "" {
				t.Errorf("Table '%s' has empty glob", tbl.Name)
			}
			switch tbl.Format {
			case datasets.FormatCSV, datasets.FormatParquet, datasets.FormatJSONL:
				if tbl.Sheet != "" {
					t.Errorf("Table '%s' sets a sheet for a non-XLSX format", tbl.Name)
				}
			case datasets.FormatXLSX:
				if tbl.Sheet == "" {
					t.Errorf("XLSX table '%s' must name a sheet", tbl.Name)
				}
			default:
				t.Errorf("Table '%s' has unknown format '%s'", tbl.Name, tbl.Format)
			}

			// Bronze table names are unique across datasets.
			if owner, dup := seen[tbl.Name]; dup {
				t.Errorf("Table '%s' declared by both '%s' and '%s'", tbl.Name, owner, ds.Name())
			}
			seen[tbl.Name] = ds.Name()
		}
	}

	for _, want := range []string{
		"bronze_customers", "bronze_products", "bronze_stores", "bronze_suppliers",
		"bronze_orders_header", "bronze_orders_lines", "bronze_shipments",
		"bronze_returns", "bronze_sensors", "bronze_events", "bronze_exchange_rates",
	} {
		if _, ok := seen[want]; !ok {
			t.Errorf("Expected bronze table '%s' not declared by any dataset", want)
		}
	}
}
