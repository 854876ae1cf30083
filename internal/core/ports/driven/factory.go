package driven

import (
	"context"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// TableWriterBuilder creates a TableWriter from settings.
type TableWriterBuilder func(ctx context.Context, settings domain.Settings) (TableWriter, error)

// TableWriterFactory creates table writers by sink type.
// It maintains a registry of sink types and their builders.
type TableWriterFactory interface {
	// Create returns a TableWriter for settings.Sink.
	// Returns ErrUnsupportedType if the sink type is unknown.
	Create(ctx context.Context, settings domain.Settings) (TableWriter, error)

	// Register adds a builder for the given sink type.
	Register(sink domain.SinkType, builder TableWriterBuilder)

	// SupportedTypes returns all registered sink types.
	SupportedTypes() []domain.SinkType
}
