// Package sink writes raw dataset files in the formats the bronze layer
// ingests: CSV, JSON lines, Parquet, and XLSX.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// CSVFile is an open CSV output file with its header already written.
type CSVFile struct {
	file *os.File
	w    *csv.Writer
	rows int64
}

// CreateCSV creates path (and any missing parent directories) and writes
// the header record.
func CreateCSV(path string, header []string) (*CSVFile, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header of %s: %w", path, err)
	}

	return &CSVFile{file: f, w: w}, nil
}

// Write appends one record.
func (c *CSVFile) Write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return err
	}
	c.rows++
	return nil
}

// Rows returns the number of data records written (header excluded).
func (c *CSVFile) Rows() int64 {
	return c.rows
}

// Close flushes and closes the file.
func (c *CSVFile) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
