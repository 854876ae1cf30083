package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown sink type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Index Errors.

	// ErrIndexNotFound indicates the index object does not exist in the bucket.
	ErrIndexNotFound = errors.New("index object not found")

	// ErrIndexUnreadable indicates the index object exists but could not be read or decoded.
	ErrIndexUnreadable = errors.New("index object unreadable")

	// Document Errors.

	// ErrFetchFailed indicates a source document could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrMalformedDocument indicates the document markup could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")

	// Table Errors.

	// ErrInvalidAmount indicates a recipient amount is not a whole number.
	// The destination column is integer-typed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrTableWrite indicates a bulk insert into a destination table failed.
	ErrTableWrite = errors.New("table write failed")
)

// FetchError describes a failed document fetch.
// StatusCode is zero when the request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap lets errors.Is match both ErrFetchFailed and the transport cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchFailed}
	}
	return []error{ErrFetchFailed, e.Err}
}

// ParseError represents a document processing error at a specific stage.
type ParseError struct {
	Stage string
	URI   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("parse error at %s stage: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("parse error at %s stage for %s: %v", e.Stage, e.URI, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

// NewParseError creates a new ParseError.
func NewParseError(stage, uri string, err error) *ParseError {
	return &ParseError{
		Stage: stage,
		URI:   uri,
		Err:   err,
	}
}

// RowError identifies a single row that cannot be written.
type RowError struct {
	Table  string
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d column %s: %v", e.Table, e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// TableWriteError reports a failed bulk insert for one destination table.
// Rows lists the row indexes the destination rejected, when it says so.
type TableWriteError struct {
	Table string
	Rows  []int
	Err   error
}

func (e *TableWriteError) Error() string {
	if len(e.Rows) > 0 {
		return fmt.Sprintf("write %s: %d rows rejected: %v", e.Table, len(e.Rows), e.Err)
	}
	return fmt.Sprintf("write %s: %v", e.Table, e.Err)
}

func (e *TableWriteError) Unwrap() []error {
	return []error{ErrTableWrite, e.Err}
}
