// Package fx implements the exchange rate dataset: one XLSX workbook
// with a daily rate per currency.
package fx

import (
	"context"
	"path/filepath"

	"github.com/lakegen/lakegen/internal/datagen"
	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/sink"
)

// Sheet is the workbook sheet holding the rates.
const Sheet = "rates"

var currencies = []string{"USD", "PHP", "SGD", "JPY", "EUR"}

// Baseline AUD rates per currency; daily values wobble around these.
var baseRates = map[string]float64{
	"USD": 0.65,
	"PHP": 37.5,
	"SGD": 0.88,
	"JPY": 97.0,
	"EUR": 0.60,
}

// Dataset implements the exchange rate dataset.
type Dataset struct{}

// New creates the fx dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "fx"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "Daily exchange rates per currency, XLSX workbook"
}

// Generate writes exchange_rates.xlsx with one row per currency per day.
func (d *Dataset) Generate(ctx context.Context, spec datasets.GenerateSpec) ([]datasets.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	faker := datagen.NewFakerWithSeed(spec.Seed)
	header := []string{"date", "currency", "rate_to_aud"}

	rows := make([][]any, 0, len(currencies)*spec.Days)
	for _, currency := range currencies {
		base := baseRates[currency]
		for day := 0; day < spec.Days; day++ {
			date := spec.Start.AddDate(0, 0, day)
			rate := base * faker.Float64(0.95, 1.05)
			rows = append(rows, []any{date.Format("2006-01-02"), currency, rate})
		}
	}

	path := "exchange_rates.xlsx"
	if err := sink.WriteXLSX(filepath.Join(spec.OutDir, path), Sheet, header, rows); err != nil {
		return nil, err
	}
	return []datasets.Output{{Path: path, Rows: int64(len(rows))}}, nil
}

// BronzeTables returns the bronze tables fed by this dataset.
func (d *Dataset) BronzeTables() []datasets.BronzeTable {
	return []datasets.BronzeTable{
		{Name: "bronze_exchange_rates", Format: datasets.FormatXLSX, Glob: "exchange_rates.xlsx", Sheet: Sheet},
	}
}

func init() {
	datasets.Register(New())
}
