// Package datasets defines the dataset interface and registry. Each
// dataset generates one family of raw files and declares the bronze
// tables those files load into.
package datasets

import (
	"context"
	"time"
)

// Format identifies the file format of a bronze source.
type Format string

// Supported raw file formats.
const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatJSONL   Format = "jsonl"
	FormatXLSX    Format = "xlsx"
)

// GenerateSpec carries the generation settings shared by all datasets.
type GenerateSpec struct {
	// OutDir is the raw output directory.
	OutDir string

	// Seed drives every generator. Equal seeds and counts reproduce
	// identical file content.
	Seed uint64

	// Row counts per entity.
	Customers int
	Products  int
	Stores    int
	Suppliers int
	Orders    int
	Events    int
	Sensors   int

	// Days is the calendar span starting at Start. Orders and exchange
	// rates are spread across it.
	Days  int
	Start time.Time

	// DirtyRate is the fraction of customer rows given a malformed
	// email address.
	DirtyRate float64
}

// Output describes one raw file written by a generator.
type Output struct {
	// Path is relative to the output directory.
	Path string

	// Rows is the number of data rows written.
	Rows int64
}

// BronzeTable maps raw files to one bronze table.
type BronzeTable struct {
	// Name is the bronze table name, e.g. bronze_customers.
	Name string

	// Format selects the ingestion path.
	Format Format

	// Glob matches source files relative to the raw directory.
	Glob string

	// Sheet is the workbook sheet to read (XLSX only).
	Sheet string
}

// Dataset is the interface all dataset packages implement.
type Dataset interface {
	// Name returns the dataset name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Generate writes the dataset's raw files under spec.OutDir.
	Generate(ctx context.Context, spec GenerateSpec) ([]Output, error)

	// BronzeTables returns the bronze tables fed by this dataset.
	BronzeTables() []BronzeTable
}
