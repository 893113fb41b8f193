// Package datagen provides seeded synthetic data utilities.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const keyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Faker provides fake data generation using gofakeit. Every dataset
// generator draws from one seeded Faker so that a fixed seed reproduces
// identical raw files.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// FirstName generates a random first name.
func (f *Faker) FirstName() string {
	return f.faker.FirstName()
}

// LastName generates a random last name.
func (f *Faker) LastName() string {
	return f.faker.LastName()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Phone generates a random phone number.
func (f *Faker) Phone() string {
	return f.faker.Phone()
}

// Street generates a random street address.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// State generates a random state abbreviation.
func (f *Faker) State() string {
	return f.faker.StateAbr()
}

// Zip generates a random postal code.
func (f *Faker) Zip() string {
	return f.faker.Zip()
}

// CountryCode generates a random two-letter country code.
func (f *Faker) CountryCode() string {
	return f.faker.CountryAbr()
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// Word generates a random word.
func (f *Faker) Word() string {
	return f.faker.Word()
}

// Sentence generates a random sentence.
func (f *Faker) Sentence(wordCount int) string {
	return f.faker.Sentence(wordCount)
}

// Price generates a random price between min and max.
func (f *Faker) Price(min, max float64) float64 {
	return f.faker.Price(min, max)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Int64 generates a random int64 between min and max (inclusive).
func (f *Faker) Int64(min, max int64) int64 {
	return int64(f.faker.IntRange(int(min), int(max)))
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Bool generates a random boolean.
func (f *Faker) Bool() bool {
	return f.faker.Bool()
}

// Chance returns true with probability p.
func (f *Faker) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// UUID generates a random UUID string.
func (f *Faker) UUID() string {
	return f.faker.UUID()
}

// DateRange generates a random time within a range.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// DateInDays generates a random date within days after start, truncated
// to midnight UTC.
func (f *Faker) DateInDays(start time.Time, days int) time.Time {
	d := start.AddDate(0, 0, f.Int(0, days-1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// NaturalKey generates a business key like CUST-8GH2K1ZQ.
func (f *Faker) NaturalKey(prefix string, n int) string {
	return prefix + "-" + f.keyString(n)
}

// SKU generates a stock keeping unit code.
func (f *Faker) SKU() string {
	return f.NaturalKey("SKU", 6)
}

func (f *Faker) keyString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = keyCharset[f.Int(0, len(keyCharset)-1)]
	}
	return string(b)
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// Truncate truncates a string to max length if needed.
func Truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
