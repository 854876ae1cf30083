// Package driving defines the ports the CLI calls into: Pipeline,
// IndexService and SettingsService. They are implemented in
// internal/core/services.
package driving
