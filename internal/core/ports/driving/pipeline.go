package driving

import (
	"context"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// Pipeline runs the index -> fetch -> extract -> aggregate -> write batch.
type Pipeline interface {
	// Run executes one load run. The report is always returned, even when
	// the run fails; the error is non-nil only when the run could not start.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)

	// Extract runs the record extractor on one document without loading it.
	Extract(ctx context.Context, content []byte) (*domain.Extraction, error)
}

// RunOptions overrides settings for a single run.
type RunOptions struct {
	// Limit stops after this many processed documents. Negative keeps the configured value.
	Limit int

	// Concurrency overrides fetch concurrency when positive.
	Concurrency int

	// Sink overrides the configured sink when non-empty.
	Sink domain.SinkType

	// DryRun skips table writes.
	DryRun bool
}

// DefaultRunOptions keeps every configured value.
func DefaultRunOptions() RunOptions {
	return RunOptions{Limit: -1}
}
