// Package bigquery writes aggregated records to BigQuery through the
// v2 REST API using streaming inserts.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"

	"github.com/custodia-labs/pfgrants/internal/adapters/driven/tables/rows"
	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/logger"
)

// Ensure Writer implements the interface.
var _ driven.TableWriter = (*Writer)(nil)

// Writer is a BigQuery-backed driven.TableWriter.
type Writer struct {
	svc             *bq.Service
	project         string
	dataset         string
	filersTable     string
	recipientsTable string
	newInsertID     func() string
}

// NewWriter creates a writer for the dataset named in cfg.
// Extra client options are appended after the credentials option.
func NewWriter(ctx context.Context, cfg domain.BigQuerySettings, opts ...option.ClientOption) (*Writer, error) {
	if cfg.CredentialsFile != "" {
		tokenOpt, err := credentialsOption(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		opts = append([]option.ClientOption{tokenOpt}, opts...)
	}

	svc, err := bq.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bigquery service: %w", err)
	}

	return &Writer{
		svc:             svc,
		project:         cfg.Project,
		dataset:         cfg.Dataset,
		filersTable:     cfg.FilersTable,
		recipientsTable: cfg.RecipientsTable,
		newInsertID:     uuid.NewString,
	}, nil
}

// NewBuilder returns a driven.TableWriterBuilder for the bigquery sink.
func NewBuilder(opts ...option.ClientOption) driven.TableWriterBuilder {
	return func(ctx context.Context, settings domain.Settings) (driven.TableWriter, error) {
		return NewWriter(ctx, settings.BigQuery, opts...)
	}
}

// credentialsOption builds a token source from a service-account key file.
func credentialsOption(ctx context.Context, path string) (option.ClientOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, bq.BigqueryScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	return option.WithTokenSource(creds.TokenSource), nil
}

// FilersTable returns the filer table name.
func (w *Writer) FilersTable() string {
	return w.filersTable
}

// RecipientsTable returns the recipient table name.
func (w *Writer) RecipientsTable() string {
	return w.recipientsTable
}

// Close is a no-op; the REST client holds no resources.
func (w *Writer) Close() error {
	return nil
}

// EnsureTables creates either table if it does not exist.
func (w *Writer) EnsureTables(ctx context.Context) error {
	if err := w.ensureTable(ctx, w.filersTable, domain.FilerColumns); err != nil {
		return err
	}
	return w.ensureTable(ctx, w.recipientsTable, domain.RecipientColumns)
}

func (w *Writer) ensureTable(ctx context.Context, table string, cols []domain.Column) error {
	_, err := w.svc.Tables.Get(w.project, w.dataset, table).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !IsNotFound(err) {
		return fmt.Errorf("get table %s: %w", table, err)
	}

	logger.Info("Creating table %s.%s.%s", w.project, w.dataset, table)
	_, err = w.svc.Tables.Insert(w.project, w.dataset, &bq.Table{
		TableReference: &bq.TableReference{
			ProjectId: w.project,
			DatasetId: w.dataset,
			TableId:   table,
		},
		Schema: schema(cols),
	}).Context(ctx).Do()
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// schema converts domain columns to a BigQuery table schema.
func schema(cols []domain.Column) *bq.TableSchema {
	fields := make([]*bq.TableFieldSchema, len(cols))
	for i, c := range cols {
		mode := "NULLABLE"
		if c.Required {
			mode = "REQUIRED"
		}
		fields[i] = &bq.TableFieldSchema{
			Name: c.Name,
			Type: string(c.Type),
			Mode: mode,
		}
	}
	return &bq.TableSchema{Fields: fields}
}

// WriteFilers streams filers in one insertAll request.
func (w *Writer) WriteFilers(ctx context.Context, filers []domain.FilerRecord) error {
	return w.insertAll(ctx, w.filersTable, domain.FilerColumns, rows.Filers(filers))
}

// WriteRecipients streams recipients in one insertAll request.
// Nothing is sent if any amount is not a whole number.
func (w *Writer) WriteRecipients(ctx context.Context, recipients []domain.RecipientRecord) error {
	values, err := rows.Recipients(w.recipientsTable, recipients)
	if err != nil {
		return &domain.TableWriteError{Table: w.recipientsTable, Err: err}
	}
	return w.insertAll(ctx, w.recipientsTable, domain.RecipientColumns, values)
}

func (w *Writer) insertAll(ctx context.Context, table string, cols []domain.Column, values [][]any) error {
	if len(values) == 0 {
		return nil
	}

	req := &bq.TableDataInsertAllRequest{
		Rows: make([]*bq.TableDataInsertAllRequestRows, len(values)),
	}
	for i, row := range values {
		jsonRow := make(map[string]bq.JsonValue, len(cols))
		for col, v := range rows.Map(cols, row) {
			jsonRow[col] = v
		}
		req.Rows[i] = &bq.TableDataInsertAllRequestRows{
			InsertId: w.newInsertID(),
			Json:     jsonRow,
		}
	}

	logger.Debug("Inserting %d rows into %s", len(values), table)
	resp, err := w.svc.Tabledata.InsertAll(w.project, w.dataset, table, req).Context(ctx).Do()
	if err != nil {
		return &domain.TableWriteError{Table: table, Err: err}
	}
	if len(resp.InsertErrors) > 0 {
		return insertErrors(table, resp.InsertErrors)
	}
	return nil
}

// insertErrors converts per-row rejections into a *domain.TableWriteError.
func insertErrors(table string, rejected []*bq.TableDataInsertAllResponseInsertErrors) error {
	idx := make([]int, 0, len(rejected))
	var msgs []string
	for _, ie := range rejected {
		idx = append(idx, int(ie.Index))
		for _, e := range ie.Errors {
			if e == nil || e.Message == "" {
				continue
			}
			msgs = append(msgs, fmt.Sprintf("row %d: %s", ie.Index, e.Message))
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "rows rejected")
	}
	return &domain.TableWriteError{
		Table: table,
		Rows:  idx,
		Err:   errors.New(strings.Join(msgs, "; ")),
	}
}
