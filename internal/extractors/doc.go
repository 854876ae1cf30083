// Package extractors provides implementations of the RecordExtractor
// interface. Each extractor knows how to pull filer and recipient records
// out of one e-file return schema.
//
// Extractors are wired into the pipeline at startup.
package extractors
