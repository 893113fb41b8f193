package bronze

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/lakegen/lakegen/internal/datasets"
)

// Status describes the outcome of one table load.
type Status string

const (
	// StatusLoaded means the table was created or fully replaced.
	StatusLoaded Status = "loaded"

	// StatusAppended means new files were appended to an existing table.
	StatusAppended Status = "appended"

	// StatusUpToDate means every source file was already processed.
	StatusUpToDate Status = "up-to-date"

	// StatusMissing means the glob matched no files.
	StatusMissing Status = "missing"

	// StatusFailed means the load errored; see TableResult.Err.
	StatusFailed Status = "failed"
)

// TableResult is the outcome of loading one bronze table.
type TableResult struct {
	Table    string
	Dataset  string
	Format   datasets.Format
	Status   Status
	Files    int
	Rows     int64
	Columns  int64
	Duration time.Duration
	Err      error
}

// Report is the outcome of one load run.
type Report struct {
	RunID    string
	Results  []TableResult
	Duration time.Duration
}

// Failed returns how many tables errored.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

// PrintSummary writes a per-table summary table.
func (r *Report) PrintSummary(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tDATASET\tSTATUS\tFILES\tROWS\tCOLS\tTIME")
	for _, res := range r.Results {
		detail := string(res.Status)
		if res.Err != nil {
			detail = fmt.Sprintf("%s: %v", res.Status, res.Err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			res.Table, res.Dataset, detail, res.Files,
			res.Rows, res.Columns, res.Duration.Round(time.Millisecond))
	}
	tw.Flush()
	fmt.Fprintf(w, "\nRun %s finished in %s (%d tables, %d failed)\n",
		r.RunID, r.Duration.Round(time.Millisecond), len(r.Results), r.Failed())
}
