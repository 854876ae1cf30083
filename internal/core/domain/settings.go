package domain

import (
	"errors"
	"fmt"
)

const unknownDescription = "Unknown"

// SinkType identifies where aggregated rows are written.
type SinkType string

// Available sinks.
const (
	// SinkBigQuery writes to BigQuery tables.
	SinkBigQuery SinkType = "bigquery"

	// SinkSQLite writes to a local SQLite database file.
	SinkSQLite SinkType = "sqlite"
)

// IsValid returns true if the sink type is recognised.
func (s SinkType) IsValid() bool {
	switch s {
	case SinkBigQuery, SinkSQLite:
		return true
	default:
		return false
	}
}

// IsLocal returns true if the sink writes to the local filesystem.
func (s SinkType) IsLocal() bool {
	return s == SinkSQLite
}

// String returns the string representation.
func (s SinkType) String() string {
	return string(s)
}

// Description returns a human-readable description of the sink.
func (s SinkType) Description() string {
	switch s {
	case SinkBigQuery:
		return "BigQuery (cloud)"
	case SinkSQLite:
		return "SQLite (local file)"
	default:
		return unknownDescription
	}
}

// IndexSettings locates the e-file index object.
type IndexSettings struct {
	// Bucket is the S3 bucket holding the index.
	Bucket string

	// Key is the object key of the index.
	Key string

	// FormType selects which index rows are loaded.
	FormType string
}

// AWSSettings configures the S3 client.
type AWSSettings struct {
	// Profile is the shared config profile name. Empty uses the default chain.
	Profile string

	// Region is the bucket region.
	Region string

	// Endpoint overrides the S3 endpoint (e.g., a local S3 emulator).
	// When set, static test credentials and path-style addressing are used.
	Endpoint string
}

// FetchSettings configures document retrieval.
type FetchSettings struct {
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int

	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// Concurrency is the number of documents fetched at once. 1 is sequential.
	Concurrency int

	// UserAgent is sent with every request.
	UserAgent string
}

// RunSettings bounds a load run.
type RunSettings struct {
	// Limit stops the run after this many processed documents. 0 means no limit.
	Limit int
}

// BigQuerySettings locates the destination dataset.
type BigQuerySettings struct {
	Project         string
	Dataset         string
	FilersTable     string
	RecipientsTable string

	// CredentialsFile is a service-account key file.
	// Empty uses application default credentials.
	CredentialsFile string
}

// SQLiteSettings locates the local database file.
type SQLiteSettings struct {
	// Path is the database file. Empty defaults to ~/.pfgrants/data/grants.db.
	Path string
}

// Settings holds the complete configuration for a run.
type Settings struct {
	Index    IndexSettings
	AWS      AWSSettings
	Fetch    FetchSettings
	Run      RunSettings
	Sink     SinkType
	BigQuery BigQuerySettings
	SQLite   SQLiteSettings
}

// DefaultSettings returns the built-in configuration. The index location
// points at the Giving Tuesday 990 data lake.
func DefaultSettings() Settings {
	return Settings{
		Index: IndexSettings{
			Bucket:   "gt990datalake-rawdata",
			Key:      "Indices/990xmls/index_latest_only_efiledata_xmls_created_on_2024-07-23.json",
			FormType: FormType990PF,
		},
		AWS: AWSSettings{
			Profile: "990-project",
			Region:  "us-east-1",
		},
		Fetch: FetchSettings{
			TimeoutSeconds:    30,
			RequestsPerSecond: 5.0,
			Burst:             10,
			Concurrency:       1,
			UserAgent:         "pfgrants/1.0",
		},
		Sink: SinkBigQuery,
		BigQuery: BigQuerySettings{
			FilersTable:     "donors",
			RecipientsTable: "recipients",
		},
	}
}

// Validate checks the settings needed for a run against the selected sink.
func (s Settings) Validate() error {
	var errs []error
	if s.Index.Bucket == "" {
		errs = append(errs, errors.New("index.bucket is required"))
	}
	if s.Index.Key == "" {
		errs = append(errs, errors.New("index.key is required"))
	}
	if s.Index.FormType == "" {
		errs = append(errs, errors.New("index.form_type is required"))
	}
	if s.Fetch.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("fetch.timeout_seconds must be positive"))
	}
	if s.Fetch.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("fetch.requests_per_second must be positive"))
	}
	if s.Fetch.Burst <= 0 {
		errs = append(errs, errors.New("fetch.burst must be positive"))
	}
	if s.Fetch.Concurrency <= 0 {
		errs = append(errs, errors.New("fetch.concurrency must be positive"))
	}
	if s.Run.Limit < 0 {
		errs = append(errs, errors.New("run.limit must not be negative"))
	}

	switch s.Sink {
	case SinkBigQuery:
		if s.BigQuery.Project == "" {
			errs = append(errs, errors.New("bigquery.project is required"))
		}
		if s.BigQuery.Dataset == "" {
			errs = append(errs, errors.New("bigquery.dataset is required"))
		}
		if s.BigQuery.FilersTable == "" || s.BigQuery.RecipientsTable == "" {
			errs = append(errs, errors.New("bigquery table names are required"))
		}
	case SinkSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: sink %q", ErrUnsupportedType, s.Sink))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
