package driven

import (
	"context"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// TableWriter persists aggregated records into the two destination tables.
// Columns follow domain.FilerColumns and domain.RecipientColumns.
type TableWriter interface {
	// EnsureTables creates the filer and recipient tables if they are absent.
	EnsureTables(ctx context.Context) error

	// WriteFilers appends filers in one bulk operation, in the given order.
	WriteFilers(ctx context.Context, filers []domain.FilerRecord) error

	// WriteRecipients appends recipients in one bulk operation, in the given order.
	// A row whose amount is not a whole number fails the whole operation.
	WriteRecipients(ctx context.Context, recipients []domain.RecipientRecord) error

	// FilersTable returns the destination name of the filer table.
	FilersTable() string

	// RecipientsTable returns the destination name of the recipient table.
	RecipientsTable() string

	// Close releases resources.
	Close() error
}
