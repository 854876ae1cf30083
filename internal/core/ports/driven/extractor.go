package driven

import "github.com/custodia-labs/pfgrants/internal/core/domain"

// RecordExtractor turns one document's markup into records.
type RecordExtractor interface {
	// Extract parses content and returns the filer (if any) and every
	// recipient in document order. It fails only when the markup cannot be
	// parsed, returning an error wrapping domain.ErrMalformedDocument.
	// Missing fields never fail extraction.
	Extract(content []byte) (*domain.Extraction, error)
}
