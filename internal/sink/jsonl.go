package sink

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONLFile is an open JSON-lines output file.
type JSONLFile struct {
	file *os.File
	enc  *json.Encoder
	rows int64
}

// CreateJSONL creates path (and any missing parent directories).
func CreateJSONL(path string) (*JSONLFile, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return &JSONLFile{file: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one value as a single JSON line.
func (j *JSONLFile) Write(v any) error {
	if err := j.enc.Encode(v); err != nil {
		return err
	}
	j.rows++
	return nil
}

// Rows returns the number of lines written.
func (j *JSONLFile) Rows() int64 {
	return j.rows
}

// Close closes the file.
func (j *JSONLFile) Close() error {
	return j.file.Close()
}
