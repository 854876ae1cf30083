package driven

import (
	"context"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// IndexReader reads the listing of available e-file documents.
// Backed by an S3 object holding a JSON array of index rows.
type IndexReader interface {
	// Read returns the entries whose form type equals formType,
	// in the order they appear in the index.
	// Returns an error wrapping domain.ErrIndexNotFound when the object is
	// missing and domain.ErrIndexUnreadable for any other failure.
	Read(ctx context.Context, formType string) ([]domain.IndexEntry, error)

	// Peek returns up to n raw lines from the start of the index object.
	Peek(ctx context.Context, n int) ([]string, error)

	// Location describes where the index is read from (e.g., "s3://bucket/key").
	Location() string
}
