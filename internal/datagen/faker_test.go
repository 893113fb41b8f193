package datagen

import (
	"strings"
	"testing"
	"time"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestNaturalKey(t *testing.T) {
	f := NewFakerWithSeed(1)
	key := f.NaturalKey("CUST", 8)

	if !strings.HasPrefix(key, "CUST-") {
		t.Errorf("Expected CUST- prefix, got %q", key)
	}
	if len(key) != len("CUST-")+8 {
		t.Errorf("Expected 8 key characters, got %q", key)
	}
	for _, c := range key[len("CUST-"):] {
		if !strings.ContainsRune(keyCharset, c) {
			t.Errorf("Unexpected character %q in key %q", c, key)
		}
	}
}

func TestSKU(t *testing.T) {
	f := NewFakerWithSeed(1)
	sku := f.SKU()
	if !strings.HasPrefix(sku, "SKU-") || len(sku) != 10 {
		t.Errorf("Unexpected SKU format: %q", sku)
	}
}

func TestDateInDays(t *testing.T) {
	f := NewFakerWithSeed(7)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := f.DateInDays(start, 90)
		if d.Before(start) {
			t.Fatalf("Date %v before start", d)
		}
		if !d.Before(start.AddDate(0, 0, 90)) {
			t.Fatalf("Date %v outside the 90 day window", d)
		}
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			t.Fatalf("Date %v not truncated to midnight", d)
		}
	}
}

func TestChance(t *testing.T) {
	f := NewFakerWithSeed(3)
	hits := 0
	for i := 0; i < 10000; i++ {
		if f.Chance(0.2) {
			hits++
		}
	}
	if hits < 1500 || hits > 2500 {
		t.Errorf("Chance(0.2) hit %d of 10000, expected around 2000", hits)
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(9)
	items := []string{"a", "b", "c"}

	for i := 0; i < 50; i++ {
		v := Choose(f, items)
		if v != "a" && v != "b" && v != "c" {
			t.Errorf("Choose returned unexpected value %q", v)
		}
	}

	var empty []string
	if v := Choose(f, empty); v != "" {
		t.Errorf("Choose on empty slice should return zero value, got %q", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(11)
	items := []string{"common", "rare"}
	weights := []int{99, 1}

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}
	if counts["common"] < 900 {
		t.Errorf("Weighted choice skewed wrong: %v", counts)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Errorf("Truncate should not pad: %q", got)
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("customers", 100, 10)
	p.Update(25)
	p.Update(25)
	if p.Rows() != 50 {
		t.Errorf("Expected 50 rows recorded, got %d", p.Rows())
	}
	p.Done()
}
