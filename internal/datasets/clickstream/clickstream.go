// Package clickstream implements the behavioural event dataset, written
// as chunked JSON-lines files.
package clickstream

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lakegen/lakegen/internal/datagen"
	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/sink"
)

// eventsPerFile keeps individual JSONL files small enough that the
// bronze glob exercises a real multi-file fan-in.
const eventsPerFile = 500

var eventTypes = []string{"click", "view", "add_to_cart", "purchase", "login", "logout"}

// Weights skew toward browsing events, purchases are rare.
var eventWeights = []int{35, 30, 15, 5, 10, 5}

// Event is one behavioural event envelope.
type Event struct {
	EventID    int     `json:"event_id"`
	EventUUID  string  `json:"event_uuid"`
	EventType  string  `json:"event_type"`
	CustomerID int     `json:"customer_id"`
	EventTS    string  `json:"timestamp"`
	Amount     float64 `json:"amount"`
}

// Dataset implements the clickstream dataset.
type Dataset struct{}

// New creates the clickstream dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "clickstream"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "Behavioural events (click/view/cart/purchase), chunked JSON lines"
}

// Generate writes spec.Events events into events/events-NNNNN.jsonl files.
func (d *Dataset) Generate(ctx context.Context, spec datasets.GenerateSpec) ([]datasets.Output, error) {
	faker := datagen.NewFakerWithSeed(spec.Seed)
	end := spec.Start.AddDate(0, 0, spec.Days)

	var outputs []datasets.Output
	var file *sink.JSONLFile
	var filePath string

	closeCurrent := func() error {
		if file == nil {
			return nil
		}
		if err := file.Close(); err != nil {
			return err
		}
		outputs = append(outputs, datasets.Output{Path: filePath, Rows: file.Rows()})
		file = nil
		return nil
	}

	for i := 1; i <= spec.Events; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if file == nil {
			filePath = filepath.Join("events", fmt.Sprintf("events-%05d.jsonl", len(outputs)+1))
			f, err := sink.CreateJSONL(filepath.Join(spec.OutDir, filePath))
			if err != nil {
				return nil, err
			}
			file = f
		}

		eventType := datagen.ChooseWeighted(faker, eventTypes, eventWeights)
		amount := 0.0
		if eventType == "purchase" {
			amount = faker.Price(5, 2000)
		}

		ev := Event{
			EventID:    i,
			EventUUID:  faker.UUID(),
			EventType:  eventType,
			CustomerID: faker.Int(1, spec.Customers),
			EventTS:    faker.DateRange(spec.Start, end).UTC().Format(time.RFC3339),
			Amount:     amount,
		}
		if err := file.Write(ev); err != nil {
			return nil, fmt.Errorf("failed to write event %d: %w", i, err)
		}

		if file.Rows() >= eventsPerFile {
			if err := closeCurrent(); err != nil {
				return nil, err
			}
		}
	}

	if err := closeCurrent(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// BronzeTables returns the bronze tables fed by this dataset.
func (d *Dataset) BronzeTables() []datasets.BronzeTable {
	return []datasets.BronzeTable{
		{Name: "bronze_events", Format: datasets.FormatJSONL, Glob: "events/*.jsonl"},
	}
}

func init() {
	datasets.Register(New())
}
