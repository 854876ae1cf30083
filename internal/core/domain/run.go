package domain

import (
	"errors"
	"time"
)

// TableResult records the outcome of one bulk insert.
type TableResult struct {
	// Table is the destination table name.
	Table string

	// Rows is the number of rows submitted.
	Rows int

	// Err is nil when every row was written.
	Err error
}

// RunReport summarises a load run.
type RunReport struct {
	// RunID identifies the run in logs and insert IDs.
	RunID string

	StartedAt  time.Time
	FinishedAt time.Time

	// Locators is the number of index entries selected for fetching.
	Locators int

	// Fetched counts documents retrieved with HTTP 200.
	Fetched int

	// FetchFailures counts locators that could not be retrieved.
	FetchFailures int

	// ParseFailures counts fetched documents whose markup did not parse.
	ParseFailures int

	// DocumentsProcessed counts documents extracted and aggregated.
	DocumentsProcessed int

	// DroppedFilers counts processed documents that yielded no filer record.
	DroppedFilers int

	// Filers and Recipients are the aggregate sizes at the end of the run.
	Filers     int
	Recipients int

	// IndexErr is set when the index could not be read.
	IndexErr error

	// DryRun is true when table writes were skipped.
	DryRun bool

	// Tables holds one result per destination table, in write order.
	Tables []TableResult

	// Errors collects every per-document and per-table error.
	Errors []error
}

// DocumentFailures returns the number of locators that were skipped.
func (r *RunReport) DocumentFailures() int {
	return r.FetchFailures + r.ParseFailures
}

// TableFailures returns the number of tables whose write failed.
func (r *RunReport) TableFailures() int {
	n := 0
	for _, t := range r.Tables {
		if t.Err != nil {
			n++
		}
	}
	return n
}

// Failed returns true when the run should be reported as unsuccessful:
// the index was unreadable, nothing was processed, or a table write failed.
// When strict is set any skipped document also fails the run.
func (r *RunReport) Failed(strict bool) bool {
	if r.IndexErr != nil || r.DocumentsProcessed == 0 || r.TableFailures() > 0 {
		return true
	}
	return strict && r.DocumentFailures() > 0
}

// Err joins every error recorded during the run.
func (r *RunReport) Err() error {
	errs := make([]error, 0, len(r.Errors)+1)
	if r.IndexErr != nil {
		errs = append(errs, r.IndexErr)
	}
	errs = append(errs, r.Errors...)
	return errors.Join(errs...)
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
