package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService exposes the index object for inspection.
type IndexService struct {
	reader driven.IndexReader
}

// NewIndexService creates a new index service.
func NewIndexService(reader driven.IndexReader) *IndexService {
	return &IndexService{reader: reader}
}

// Peek returns up to n raw lines from the start of the index.
func (s *IndexService) Peek(ctx context.Context, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: line count must not be negative", domain.ErrInvalidInput)
	}
	lines, err := s.reader.Peek(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("peek %s: %w", s.reader.Location(), err)
	}
	return lines, nil
}

// List returns the entries of formType in index order.
func (s *IndexService) List(ctx context.Context, formType string) ([]domain.IndexEntry, error) {
	if formType == "" {
		return nil, fmt.Errorf("%w: form type is required", domain.ErrInvalidInput)
	}
	entries, err := s.reader.Read(ctx, formType)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.reader.Location(), err)
	}
	return entries, nil
}

// Location describes where the index is read from.
func (s *IndexService) Location() string {
	return s.reader.Location()
}
