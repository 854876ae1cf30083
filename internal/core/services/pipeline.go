package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
	"github.com/custodia-labs/pfgrants/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.Pipeline = (*PipelineService)(nil)

// PipelineService runs the load batch: read the index, then fetch, extract
// and aggregate each document in index order, then write both tables.
type PipelineService struct {
	settings  domain.Settings
	index     driven.IndexReader
	fetcher   driven.DocumentFetcher
	extractor driven.RecordExtractor
	writers   driven.TableWriterFactory

	newRunID func() string
	now      func() time.Time
}

// NewPipelineService creates a new pipeline service.
// The writer factory is only consulted when a run writes tables.
func NewPipelineService(
	settings domain.Settings,
	index driven.IndexReader,
	fetcher driven.DocumentFetcher,
	extractor driven.RecordExtractor,
	writers driven.TableWriterFactory,
) *PipelineService {
	return &PipelineService{
		settings:  settings,
		index:     index,
		fetcher:   fetcher,
		extractor: extractor,
		writers:   writers,
		newRunID:  uuid.NewString,
		now:       time.Now,
	}
}

// Extract runs the extractor on one document.
func (p *PipelineService) Extract(_ context.Context, content []byte) (*domain.Extraction, error) {
	return p.extractor.Extract(content)
}

// docResult is the outcome of fetching and extracting one locator.
type docResult struct {
	url        string
	extraction *domain.Extraction
	fetchErr   error
	parseErr   error
}

// Run executes one load run. Per-document and per-table failures are
// recorded in the report; the error is only set when the run could not start.
func (p *PipelineService) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	settings := p.apply(opts)
	if err := validateForRun(settings, opts.DryRun); err != nil {
		return nil, err
	}

	report := &domain.RunReport{
		RunID:     p.newRunID(),
		StartedAt: p.now(),
		DryRun:    opts.DryRun,
	}
	logger.SetRunID(report.RunID)
	defer logger.SetRunID("")
	logger.Section("Run " + report.RunID)

	entries, err := p.index.Read(ctx, settings.Index.FormType)
	if err != nil {
		report.IndexErr = fmt.Errorf("read index %s: %w", p.index.Location(), err)
		logger.Error("%v", report.IndexErr)
		entries = nil
	}
	locators := domain.Locators(entries)
	report.Locators = len(locators)

	agg := NewAggregator()
	if settings.Fetch.Concurrency > 1 {
		p.processWindows(ctx, locators, settings, agg, report)
	} else {
		p.processSequential(ctx, locators, settings, agg, report)
	}

	report.Filers = agg.FilerCount()
	report.Recipients = agg.RecipientCount()

	switch {
	case opts.DryRun:
		logger.Info("Dry run: skipping table writes")
	case report.Filers == 0 && report.Recipients == 0:
		logger.Info("Nothing to write")
	default:
		p.write(ctx, settings, agg, report)
	}

	report.FinishedAt = p.now()
	logger.Info("Run complete: %d/%d documents processed, %d fetch failures, %d parse failures, %d filers, %d recipients",
		report.DocumentsProcessed, report.Locators, report.FetchFailures, report.ParseFailures,
		report.Filers, report.Recipients)

	return report, nil
}

// apply overlays run options on the configured settings.
func (p *PipelineService) apply(opts driving.RunOptions) domain.Settings {
	s := p.settings
	if opts.Limit >= 0 {
		s.Run.Limit = opts.Limit
	}
	if opts.Concurrency > 0 {
		s.Fetch.Concurrency = opts.Concurrency
	}
	if opts.Sink != "" {
		s.Sink = opts.Sink
	}
	return s
}

// validateForRun checks settings. A dry run writes nothing, so the sink
// settings are not checked.
func validateForRun(s domain.Settings, dryRun bool) error {
	if dryRun {
		s.Sink = domain.SinkSQLite
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func limitReached(s domain.Settings, report *domain.RunReport) bool {
	return s.Run.Limit > 0 && report.DocumentsProcessed >= s.Run.Limit
}

func (p *PipelineService) processSequential(
	ctx context.Context,
	locators []string,
	settings domain.Settings,
	agg *Aggregator,
	report *domain.RunReport,
) {
	for _, url := range locators {
		if limitReached(settings, report) {
			logger.Info("Limit of %d documents reached", settings.Run.Limit)
			return
		}
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("run interrupted: %w", err))
			return
		}
		p.record(p.process(ctx, url), agg, report)
	}
}

// processWindows fetches up to Concurrency documents at once. Results are
// folded in index order after each window so the aggregate matches a
// sequential run.
func (p *PipelineService) processWindows(
	ctx context.Context,
	locators []string,
	settings domain.Settings,
	agg *Aggregator,
	report *domain.RunReport,
) {
	size := settings.Fetch.Concurrency
	for start := 0; start < len(locators); start += size {
		if limitReached(settings, report) {
			logger.Info("Limit of %d documents reached", settings.Run.Limit)
			return
		}
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("run interrupted: %w", err))
			return
		}

		window := locators[start:min(start+size, len(locators))]
		results := make([]docResult, len(window))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(size)
		for i, url := range window {
			g.Go(func() error {
				results[i] = p.process(gctx, url)
				return nil
			})
		}
		_ = g.Wait()

		for _, res := range results {
			if limitReached(settings, report) {
				break
			}
			p.record(res, agg, report)
		}
	}
}

// process fetches and extracts one document.
func (p *PipelineService) process(ctx context.Context, url string) docResult {
	logger.Info("Processing: %s", url)

	content, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return docResult{url: url, fetchErr: err}
	}

	x, err := p.extractor.Extract(content)
	if err != nil {
		return docResult{url: url, parseErr: fmt.Errorf("extract %s: %w", url, err)}
	}
	return docResult{url: url, extraction: x}
}

// record folds one result into the aggregate and the report.
func (p *PipelineService) record(res docResult, agg *Aggregator, report *domain.RunReport) {
	switch {
	case res.fetchErr != nil:
		report.FetchFailures++
		report.Errors = append(report.Errors, res.fetchErr)
		logger.Warn("Skipping %s: %v", res.url, res.fetchErr)
	case res.parseErr != nil:
		report.Fetched++
		report.ParseFailures++
		report.Errors = append(report.Errors, res.parseErr)
		logger.Warn("Skipping %s: %v", res.url, res.parseErr)
	default:
		report.Fetched++
		report.DocumentsProcessed++
		if res.extraction.Filer == nil {
			report.DroppedFilers++
			logger.Debug("No filer identifier in %s", res.url)
		}
		agg.Add(res.extraction)
	}
}

// write ensures both tables and inserts each aggregate. A failure on one
// table does not stop the other.
func (p *PipelineService) write(
	ctx context.Context,
	settings domain.Settings,
	agg *Aggregator,
	report *domain.RunReport,
) {
	filers := agg.Filers()
	recipients := agg.Recipients()

	writer, err := p.writers.Create(ctx, settings)
	if err != nil {
		p.failTables(report, err, string(settings.Sink))
		return
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("Closing %s writer: %v", settings.Sink, err)
		}
	}()

	if err := writer.EnsureTables(ctx); err != nil {
		p.failTables(report, fmt.Errorf("ensure tables: %w", err), writer.FilersTable(), writer.RecipientsTable())
		return
	}

	err = writer.WriteFilers(ctx, filers)
	p.tableResult(report, writer.FilersTable(), len(filers), err)

	err = writer.WriteRecipients(ctx, recipients)
	p.tableResult(report, writer.RecipientsTable(), len(recipients), err)
}

func (p *PipelineService) tableResult(report *domain.RunReport, table string, rows int, err error) {
	report.Tables = append(report.Tables, domain.TableResult{Table: table, Rows: rows, Err: err})
	if err != nil {
		report.Errors = append(report.Errors, err)
		logger.Error("Writing %s: %v", table, err)
		return
	}
	logger.Info("Wrote %d rows to %s", rows, table)
}

func (p *PipelineService) failTables(report *domain.RunReport, err error, tables ...string) {
	for _, table := range tables {
		report.Tables = append(report.Tables, domain.TableResult{Table: table, Err: err})
	}
	report.Errors = append(report.Errors, err)
	logger.Error("%v", err)
}
