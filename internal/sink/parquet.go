package sink

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes rows to a snappy-compressed Parquet file. The row
// schema is derived from T's struct tags.
func WriteParquet[T any](path string, rows []T) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[T](f, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(rows); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return f.Close()
}

// ReadParquet reads every row of a Parquet file.
func ReadParquet[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}
