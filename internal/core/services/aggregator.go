package services

import "github.com/custodia-labs/pfgrants/internal/core/domain"

// Aggregator accumulates extractions across documents.
// Filers are keyed by EIN with the last write winning; recipients are
// appended in the order they arrive. It is not safe for concurrent use.
type Aggregator struct {
	filers     map[string]domain.FilerRecord
	filerOrder []string
	recipients []domain.RecipientRecord
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		filers: make(map[string]domain.FilerRecord),
	}
}

// Add folds one document's extraction in. A later filer with the same EIN
// replaces the earlier record whole; its position stays where the EIN was
// first seen.
func (a *Aggregator) Add(x *domain.Extraction) {
	if x == nil {
		return
	}

	if x.Filer != nil {
		if _, seen := a.filers[x.Filer.EIN]; !seen {
			a.filerOrder = append(a.filerOrder, x.Filer.EIN)
		}
		a.filers[x.Filer.EIN] = *x.Filer
	}

	a.recipients = append(a.recipients, x.Recipients...)
}

// Filers returns filers in first-insertion order of EIN.
func (a *Aggregator) Filers() []domain.FilerRecord {
	out := make([]domain.FilerRecord, 0, len(a.filerOrder))
	for _, ein := range a.filerOrder {
		out = append(out, a.filers[ein])
	}
	return out
}

// Recipients returns every recipient in append order.
func (a *Aggregator) Recipients() []domain.RecipientRecord {
	return append([]domain.RecipientRecord(nil), a.recipients...)
}

// FilerCount returns the number of distinct filers.
func (a *Aggregator) FilerCount() int {
	return len(a.filerOrder)
}

// RecipientCount returns the number of recipients.
func (a *Aggregator) RecipientCount() int {
	return len(a.recipients)
}
