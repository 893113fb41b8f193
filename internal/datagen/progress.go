package datagen

import (
	"github.com/lakegen/lakegen/internal/logging"
)

// ProgressReporter tracks and reports dataset generation progress.
type ProgressReporter struct {
	dataset          string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter. A zero interval
// disables intermediate logging.
func NewProgressReporter(dataset string, totalRows, interval int64) *ProgressReporter {
	return &ProgressReporter{
		dataset:          dataset,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update advances the row counter and logs when an interval is crossed.
func (p *ProgressReporter) Update(rowsWritten int64) {
	oldRow := p.currentRow
	p.currentRow += rowsWritten

	if p.progressInterval <= 0 {
		return
	}
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Info().
			Str("dataset", p.dataset).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("dataset", p.dataset).
		Int64("rows", p.currentRow).
		Msg("Dataset complete")
}

// Rows returns the number of rows recorded so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}
