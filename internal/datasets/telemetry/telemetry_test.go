package telemetry

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/lakegen/lakegen/internal/datasets"
)

func TestGeneratePartitionsByMonth(t *testing.T) {
	out := t.TempDir()
	spec := datasets.GenerateSpec{
		OutDir:  out,
		Seed:    42,
		Stores:  5,
		Sensors: 24 * 40, // 40 days of hourly readings spans two months
		Start:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	outputs, err := New().Generate(context.Background(), spec)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(outputs) != 2 {
		t.Fatalf("Expected 2 monthly partitions, got %d: %+v", len(outputs), outputs)
	}
	if outputs[0].Path != filepath.Join("sensors", "2024", "01", "readings.csv") {
		t.Errorf("Unexpected first partition path: %s", outputs[0].Path)
	}
	if outputs[1].Path != filepath.Join("sensors", "2024", "02", "readings.csv") {
		t.Errorf("Unexpected second partition path: %s", outputs[1].Path)
	}

	// January has 31 days of hourly readings.
	if outputs[0].Rows != 31*24 {
		t.Errorf("Expected %d January rows, got %d", 31*24, outputs[0].Rows)
	}
	if outputs[0].Rows+outputs[1].Rows != int64(spec.Sensors) {
		t.Errorf("Row counts do not sum to %d: %+v", spec.Sensors, outputs)
	}
}

func TestGenerateReadingsInRange(t *testing.T) {
	out := t.TempDir()
	spec := datasets.GenerateSpec{
		OutDir:  out,
		Seed:    7,
		Stores:  3,
		Sensors: 48,
		Start:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	if _, err := New().Generate(context.Background(), spec); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	f, err := os.Open(filepath.Join(out, "sensors", "2024", "06", "readings.csv"))
	if err != nil {
		t.Fatalf("Failed to open readings: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse readings: %v", err)
	}
	if len(records) != 49 {
		t.Fatalf("Expected header + 48 rows, got %d", len(records))
	}

	for _, rec := range records[1:] {
		storeID, _ := strconv.Atoi(rec[1])
		if storeID < 1 || storeID > spec.Stores {
			t.Errorf("store_id %d out of range", storeID)
		}
		temp, _ := strconv.ParseFloat(rec[3], 64)
		if temp < 18 || temp > 35 {
			t.Errorf("temperature %f out of range", temp)
		}
		battery, _ := strconv.Atoi(rec[5])
		if battery < 3500 || battery > 4200 {
			t.Errorf("battery %d out of range", battery)
		}
	}

	// Readings are hourly and start at the configured date.
	if records[1][0] != "2024-06-01 00:00:00" {
		t.Errorf("Unexpected first timestamp %q", records[1][0])
	}
	if records[2][0] != "2024-06-01 01:00:00" {
		t.Errorf("Unexpected second timestamp %q", records[2][0])
	}
}
