// Package tables selects the table writer for the configured sink.
package tables

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables/bigquery"
	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables/sqlite"
	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.TableWriterFactory = (*Factory)(nil)

// Factory maps sink types to their builders.
type Factory struct {
	mu       sync.RWMutex
	builders map[domain.SinkType]driven.TableWriterBuilder
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{
		builders: make(map[domain.SinkType]driven.TableWriterBuilder),
	}
}

// NewDefaultFactory creates a factory with every built-in sink registered.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	RegisterDefaults(f)
	return f
}

// RegisterDefaults registers the bigquery and sqlite sinks.
func RegisterDefaults(f *Factory) {
	f.Register(domain.SinkBigQuery, bigquery.NewBuilder())
	f.Register(domain.SinkSQLite, sqlite.NewBuilder())
}

// Register adds a builder for sink, replacing any existing one.
func (f *Factory) Register(sink domain.SinkType, builder driven.TableWriterBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sink] = builder
}

// Create builds the writer for settings.Sink.
func (f *Factory) Create(ctx context.Context, settings domain.Settings) (driven.TableWriter, error) {
	f.mu.RLock()
	builder, ok := f.builders[settings.Sink]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: sink %q", domain.ErrUnsupportedType, settings.Sink)
	}

	w, err := builder(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("create %s writer: %w", settings.Sink, err)
	}
	return w, nil
}

// SupportedTypes returns registered sinks in name order.
func (f *Factory) SupportedTypes() []domain.SinkType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]domain.SinkType, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
