package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables/rows"
	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.TableWriter = (*Writer)(nil)

// Writer is an in-memory implementation of driven.TableWriter.
// Rows are rendered exactly as the other writers render them.
type Writer struct {
	mu         sync.RWMutex
	filersName string
	recipsName string
	created    bool
	filers     [][]any
	recipients [][]any
	failures   map[string]error
	closed     bool
}

// NewWriter creates an in-memory writer for the two named tables.
func NewWriter(filersTable, recipientsTable string) *Writer {
	return &Writer{
		filersName: filersTable,
		recipsName: recipientsTable,
		failures:   make(map[string]error),
	}
}

// FailWrites makes every write to table return a *domain.TableWriteError wrapping err.
func (w *Writer) FailWrites(table string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[table] = err
}

// EnsureTables marks both tables as created.
func (w *Writer) EnsureTables(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.created = true
	return nil
}

// WriteFilers appends filer rows.
func (w *Writer) WriteFilers(_ context.Context, filers []domain.FilerRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.failures[w.filersName]; err != nil {
		return &domain.TableWriteError{Table: w.filersName, Err: err}
	}
	w.filers = append(w.filers, rows.Filers(filers)...)
	return nil
}

// WriteRecipients appends recipient rows. Nothing is stored if any row is invalid.
func (w *Writer) WriteRecipients(_ context.Context, recipients []domain.RecipientRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.failures[w.recipsName]; err != nil {
		return &domain.TableWriteError{Table: w.recipsName, Err: err}
	}
	out, err := rows.Recipients(w.recipsName, recipients)
	if err != nil {
		return &domain.TableWriteError{Table: w.recipsName, Err: err}
	}
	w.recipients = append(w.recipients, out...)
	return nil
}

// FilersTable returns the filer table name.
func (w *Writer) FilersTable() string {
	return w.filersName
}

// RecipientsTable returns the recipient table name.
func (w *Writer) RecipientsTable() string {
	return w.recipsName
}

// Close marks the writer closed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Created returns true once EnsureTables has been called.
func (w *Writer) Created() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.created
}

// Closed returns true once Close has been called.
func (w *Writer) Closed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}

// FilerRows returns a copy of the stored filer rows.
func (w *Writer) FilerRows() [][]any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([][]any(nil), w.filers...)
}

// RecipientRows returns a copy of the stored recipient rows.
func (w *Writer) RecipientRows() [][]any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([][]any(nil), w.recipients...)
}
