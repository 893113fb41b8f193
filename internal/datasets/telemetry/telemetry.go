// Package telemetry implements the shelf sensor dataset: hourly
// temperature/humidity readings partitioned by year and month.
package telemetry

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lakegen/lakegen/internal/datagen"
	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/sink"
)

var header = []string{
	"sensor_ts", "store_id", "shelf_id", "temperature_c", "humidity_pct", "battery_mv",
}

// Dataset implements the telemetry dataset.
type Dataset struct{}

// New creates the telemetry dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "telemetry"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "Shelf sensor readings (hourly), CSV partitioned by year/month"
}

// Generate writes hourly readings starting at spec.Start, one file per
// year/month partition.
func (d *Dataset) Generate(ctx context.Context, spec datasets.GenerateSpec) ([]datasets.Output, error) {
	faker := datagen.NewFakerWithSeed(spec.Seed)

	var outputs []datasets.Output
	var current *sink.CSVFile
	var currentPath string

	closeCurrent := func() error {
		if current == nil {
			return nil
		}
		if err := current.Close(); err != nil {
			return err
		}
		outputs = append(outputs, datasets.Output{Path: currentPath, Rows: current.Rows()})
		current = nil
		return nil
	}

	ts := spec.Start
	for i := 1; i <= spec.Sensors; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		partition := filepath.Join("sensors", ts.Format("2006"), ts.Format("01"))
		path := filepath.Join(partition, "readings.csv")
		if path != currentPath {
			if err := closeCurrent(); err != nil {
				return nil, err
			}
			f, err := sink.CreateCSV(filepath.Join(spec.OutDir, path), header)
			if err != nil {
				return nil, err
			}
			current, currentPath = f, path
		}

		record := []string{
			ts.UTC().Format("2006-01-02 15:04:05"),
			strconv.Itoa(faker.Int(1, spec.Stores)),
			fmt.Sprintf("SHELF_%03d", faker.Int(1, 200)),
			fmt.Sprintf("%.2f", faker.Float64(18, 35)),
			fmt.Sprintf("%.2f", faker.Float64(40, 80)),
			strconv.Itoa(faker.Int(3500, 4200)),
		}
		if err := current.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write sensor reading %d: %w", i, err)
		}

		ts = ts.Add(time.Hour)
	}

	if err := closeCurrent(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// BronzeTables returns the bronze tables fed by this dataset.
func (d *Dataset) BronzeTables() []datasets.BronzeTable {
	return []datasets.BronzeTable{
		{Name: "bronze_sensors", Format: datasets.FormatCSV, Glob: "sensors/*/*/*.csv"},
	}
}

func init() {
	datasets.Register(New())
}
