// Package domain holds the pfgrants data model.
//
// An IndexEntry locates one e-file return. Extracting a return yields an
// Extraction: at most one FilerRecord and its RecipientRecords. The
// aggregates of a run are written to the tables described by FilerColumns
// and RecipientColumns, and the run itself is summarised by a RunReport.
//
// Settings carries the resolved configuration. The error types in
// errors.go unwrap to the sentinel errors so callers can classify failures
// with errors.Is.
//
// Only the standard library is imported here.
package domain
