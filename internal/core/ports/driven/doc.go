// Package driven defines the ports core services call out through.
//
// A load run needs all of them:
//
//   - IndexReader: lists source documents from the index object
//   - DocumentFetcher: retrieves one document
//   - RecordExtractor: turns one document into filer and recipient records
//   - TableWriterFactory: builds the TableWriter for the selected sink
//   - ConfigStore: persisted configuration
//
// The factory is not consulted on a dry run, so no sink credentials are
// needed to try the pipeline out.
//
// This package may import domain only.
package driven
