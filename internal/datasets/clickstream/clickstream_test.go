package clickstream

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lakegen/lakegen/internal/datasets"
)

func testSpec(out string, events int) datasets.GenerateSpec {
	return datasets.GenerateSpec{
		OutDir:    out,
		Seed:      42,
		Customers: 100,
		Events:    events,
		Days:      30,
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateChunksFiles(t *testing.T) {
	out := t.TempDir()

	outputs, err := New().Generate(context.Background(), testSpec(out, 1200))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// 1200 events at 500 per file = 3 files.
	if len(outputs) != 3 {
		t.Fatalf("Expected 3 chunk files, got %d", len(outputs))
	}
	if outputs[0].Rows != 500 || outputs[1].Rows != 500 || outputs[2].Rows != 200 {
		t.Errorf("Unexpected chunk sizes: %+v", outputs)
	}
	if outputs[0].Path != filepath.Join("events", "events-00001.jsonl") {
		t.Errorf("Unexpected chunk path: %s", outputs[0].Path)
	}
}

func TestGenerateEventContent(t *testing.T) {
	out := t.TempDir()
	spec := testSpec(out, 300)

	if _, err := New().Generate(context.Background(), spec); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	f, err := os.Open(filepath.Join(out, "events", "events-00001.jsonl"))
	if err != nil {
		t.Fatalf("Failed to open events: %v", err)
	}
	defer f.Close()

	validTypes := map[string]bool{
		"click": true, "view": true, "add_to_cart": true,
		"purchase": true, "login": true, "logout": true,
	}

	scanner := bufio.NewScanner(f)
	var count, lastID int
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", count+1, err)
		}
		count++

		if ev.EventID != lastID+1 {
			t.Errorf("Event IDs not sequential: %d after %d", ev.EventID, lastID)
		}
		lastID = ev.EventID

		if _, err := uuid.Parse(ev.EventUUID); err != nil {
			t.Errorf("Event %d has invalid UUID %q", ev.EventID, ev.EventUUID)
		}
		if !validTypes[ev.EventType] {
			t.Errorf("Event %d has unknown type %q", ev.EventID, ev.EventType)
		}
		if ev.CustomerID < 1 || ev.CustomerID > spec.Customers {
			t.Errorf("Event %d customer_id %d out of range", ev.EventID, ev.CustomerID)
		}
		if ev.EventType != "purchase" && ev.Amount != 0 {
			t.Errorf("Non-purchase event %d has amount %f", ev.EventID, ev.Amount)
		}
		if _, err := time.Parse(time.RFC3339, ev.EventTS); err != nil {
			t.Errorf("Event %d has invalid timestamp %q", ev.EventID, ev.EventTS)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Scanner error: %v", err)
	}
	if count != 300 {
		t.Errorf("Expected 300 events, got %d", count)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	outA := t.TempDir()
	outB := t.TempDir()

	if _, err := New().Generate(context.Background(), testSpec(outA, 100)); err != nil {
		t.Fatalf("Generate A failed: %v", err)
	}
	if _, err := New().Generate(context.Background(), testSpec(outB, 100)); err != nil {
		t.Fatalf("Generate B failed: %v", err)
	}

	a, err := os.ReadFile(filepath.Join(outA, "events", "events-00001.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read A: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(outB, "events", "events-00001.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read B: %v", err)
	}
	if string(a) != string(b) {
		t.Error("Same seed produced different event files")
	}
}
