// Package retail implements the core e-commerce dataset: customers,
// products, stores, suppliers, date-partitioned orders, shipments and
// returns.
package retail

import (
	"context"

	"github.com/lakegen/lakegen/internal/datasets"
)

// Dataset implements the retail dataset.
type Dataset struct{}

// New creates the retail dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "retail"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "E-commerce entities: customers, products, stores, suppliers, " +
		"date-partitioned orders, shipments (Parquet) and returns (Parquet)"
}

// Generate writes every retail raw file under spec.OutDir.
func (d *Dataset) Generate(ctx context.Context, spec datasets.GenerateSpec) ([]datasets.Output, error) {
	return newGenerator(spec).run(ctx)
}

// BronzeTables returns the bronze tables fed by this dataset.
func (d *Dataset) BronzeTables() []datasets.BronzeTable {
	return []datasets.BronzeTable{
		{Name: "bronze_customers", Format: datasets.FormatCSV, Glob: "customers.csv"},
		{Name: "bronze_products", Format: datasets.FormatCSV, Glob: "products.csv"},
		{Name: "bronze_stores", Format: datasets.FormatCSV, Glob: "stores.csv"},
		{Name: "bronze_suppliers", Format: datasets.FormatCSV, Glob: "suppliers.csv"},
		{Name: "bronze_orders_header", Format: datasets.FormatCSV, Glob: "orders/*/orders_header.csv"},
		{Name: "bronze_orders_lines", Format: datasets.FormatCSV, Glob: "orders/*/orders_lines.csv"},
		{Name: "bronze_shipments", Format: datasets.FormatParquet, Glob: "shipments.parquet"},
		{Name: "bronze_returns", Format: datasets.FormatParquet, Glob: "returns_day1.parquet"},
	}
}

func init() {
	datasets.Register(New())
}
