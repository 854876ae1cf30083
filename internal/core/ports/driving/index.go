package driving

import (
	"context"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// IndexService inspects the e-file index object.
type IndexService interface {
	// Peek returns up to n raw lines from the start of the index.
	Peek(ctx context.Context, n int) ([]string, error)

	// List returns the entries of the given form type in index order.
	List(ctx context.Context, formType string) ([]domain.IndexEntry, error)

	// Location describes where the index is read from.
	Location() string
}
