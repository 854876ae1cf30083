// Package services holds the load pipeline and the services behind the CLI.
//
// PipelineService runs one batch: index, fetch, extract, aggregate, write.
// Aggregator folds extractions into the two table aggregates.
// SettingsService resolves configuration and IndexService inspects the index.
// Services only talk to infrastructure through the driven ports.
package services
