package driving

import "github.com/custodia-labs/pfgrants/internal/core/domain"

// SettingSource says where a resolved setting came from.
type SettingSource string

// Setting sources in precedence order.
const (
	SourceEnv     SettingSource = "env"
	SourceFile    SettingSource = "file"
	SourceDefault SettingSource = "default"
)

// SettingValue is one resolved setting for display.
type SettingValue struct {
	Key    string
	Value  string
	Source SettingSource
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves current settings from environment, config file and defaults.
	Get() (*domain.Settings, error)

	// Set stores a single setting by key (e.g., "bigquery.project").
	// Returns ErrInvalidInput for unknown keys or values of the wrong type.
	Set(key, value string) error

	// Unset removes a key from the config file so its default applies.
	Unset(key string) error

	// Unknown returns config file keys that no setting reads.
	Unknown() []string

	// Keys returns every recognised setting key in display order.
	Keys() []string

	// Describe returns every setting with its resolved value and source.
	Describe() ([]SettingValue, error)

	// Validate checks the resolved settings for a run.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Path returns the config file location.
	Path() string
}
