package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes environment overrides: "bigquery.project" is read
// from PFGRANTS_BIGQUERY_PROJECT.
const EnvPrefix = "PFGRANTS_"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyIndexBucket       = "index.bucket"
	keyIndexKey          = "index.key"
	keyIndexFormType     = "index.form_type"
	keyAWSProfile        = "aws.profile"
	keyAWSRegion         = "aws.region"
	keyAWSEndpoint       = "aws.endpoint"
	keyFetchTimeout      = "fetch.timeout_seconds"
	keyFetchRate         = "fetch.requests_per_second"
	keyFetchBurst        = "fetch.burst"
	keyFetchConcurrency  = "fetch.concurrency"
	keyFetchUserAgent    = "fetch.user_agent"
	keyRunLimit          = "run.limit"
	keySinkType          = "sink.type"
	keyBQProject         = "bigquery.project"
	keyBQDataset         = "bigquery.dataset"
	keyBQFilersTable     = "bigquery.filers_table"
	keyBQRecipientsTable = "bigquery.recipients_table"
	keyBQCredentials     = "bigquery.credentials_file"
	keySQLitePath        = "sqlite.path"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// setting binds a config key to a field of domain.Settings.
type setting struct {
	key  string
	kind valueKind
	str  func(*domain.Settings) *string
	num  func(*domain.Settings) *int
	flt  func(*domain.Settings) *float64
}

func (d setting) format(s *domain.Settings) string {
	switch d.kind {
	case kindInt:
		return strconv.Itoa(*d.num(s))
	case kindFloat:
		return strconv.FormatFloat(*d.flt(s), 'f', -1, 64)
	default:
		return *d.str(s)
	}
}

// parse converts text to the typed value stored in the config file.
func (d setting) parse(text string) (any, error) {
	switch d.kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, d.key)
		}
		return int64(n), nil
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, d.key)
		}
		return f, nil
	default:
		if d.key == keySinkType && !domain.SinkType(text).IsValid() {
			return nil, fmt.Errorf("%w: unknown sink %q", domain.ErrInvalidInput, text)
		}
		return text, nil
	}
}

// apply stores a parsed value into s.
func (d setting) apply(s *domain.Settings, val any) {
	switch d.kind {
	case kindInt:
		*d.num(s) = int(val.(int64))
	case kindFloat:
		*d.flt(s) = val.(float64)
	default:
		*d.str(s) = val.(string)
	}
}

func stringSetting(key string, f func(*domain.Settings) *string) setting {
	return setting{key: key, kind: kindString, str: f}
}

func intSetting(key string, f func(*domain.Settings) *int) setting {
	return setting{key: key, kind: kindInt, num: f}
}

func floatSetting(key string, f func(*domain.Settings) *float64) setting {
	return setting{key: key, kind: kindFloat, flt: f}
}

// settingsTable lists every key in display order.
var settingsTable = []setting{
	stringSetting(keyIndexBucket, func(s *domain.Settings) *string { return &s.Index.Bucket }),
	stringSetting(keyIndexKey, func(s *domain.Settings) *string { return &s.Index.Key }),
	stringSetting(keyIndexFormType, func(s *domain.Settings) *string { return &s.Index.FormType }),
	stringSetting(keyAWSProfile, func(s *domain.Settings) *string { return &s.AWS.Profile }),
	stringSetting(keyAWSRegion, func(s *domain.Settings) *string { return &s.AWS.Region }),
	stringSetting(keyAWSEndpoint, func(s *domain.Settings) *string { return &s.AWS.Endpoint }),
	intSetting(keyFetchTimeout, func(s *domain.Settings) *int { return &s.Fetch.TimeoutSeconds }),
	floatSetting(keyFetchRate, func(s *domain.Settings) *float64 { return &s.Fetch.RequestsPerSecond }),
	intSetting(keyFetchBurst, func(s *domain.Settings) *int { return &s.Fetch.Burst }),
	intSetting(keyFetchConcurrency, func(s *domain.Settings) *int { return &s.Fetch.Concurrency }),
	stringSetting(keyFetchUserAgent, func(s *domain.Settings) *string { return &s.Fetch.UserAgent }),
	intSetting(keyRunLimit, func(s *domain.Settings) *int { return &s.Run.Limit }),
	stringSetting(keySinkType, func(s *domain.Settings) *string { return (*string)(&s.Sink) }),
	stringSetting(keyBQProject, func(s *domain.Settings) *string { return &s.BigQuery.Project }),
	stringSetting(keyBQDataset, func(s *domain.Settings) *string { return &s.BigQuery.Dataset }),
	stringSetting(keyBQFilersTable, func(s *domain.Settings) *string { return &s.BigQuery.FilersTable }),
	stringSetting(keyBQRecipientsTable, func(s *domain.Settings) *string { return &s.BigQuery.RecipientsTable }),
	stringSetting(keyBQCredentials, func(s *domain.Settings) *string { return &s.BigQuery.CredentialsFile }),
	stringSetting(keySQLitePath, func(s *domain.Settings) *string { return &s.SQLite.Path }),
}

func lookupSetting(key string) (setting, bool) {
	for _, d := range settingsTable {
		if d.key == key {
			return d, true
		}
	}
	return setting{}, false
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService resolves settings with precedence env > file > defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return NewSettingsServiceWithEnv(configStore, os.LookupEnv)
}

// NewSettingsServiceWithEnv creates a settings service with a custom environment lookup.
func NewSettingsServiceWithEnv(configStore driven.ConfigStore, lookupEnv func(string) (string, bool)) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookupEnv,
	}
}

// Get resolves current settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings, _, err := s.resolve()
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Describe returns every setting with its resolved value and source.
func (s *SettingsService) Describe() ([]driving.SettingValue, error) {
	settings, sources, err := s.resolve()
	if err != nil {
		return nil, err
	}

	values := make([]driving.SettingValue, len(settingsTable))
	for i, d := range settingsTable {
		values[i] = driving.SettingValue{
			Key:    d.key,
			Value:  d.format(settings),
			Source: sources[i],
		}
	}
	return values, nil
}

func (s *SettingsService) resolve() (*domain.Settings, []driving.SettingSource, error) {
	settings := domain.DefaultSettings()
	sources := make([]driving.SettingSource, len(settingsTable))

	for i, d := range settingsTable {
		sources[i] = driving.SourceDefault

		if text, ok := s.lookupEnv(EnvName(d.key)); ok {
			val, err := d.parse(text)
			if err != nil {
				return nil, nil, fmt.Errorf("environment %s: %w", EnvName(d.key), err)
			}
			d.apply(&settings, val)
			sources[i] = driving.SourceEnv
			continue
		}

		if val, ok := s.fromStore(d); ok {
			d.apply(&settings, val)
			sources[i] = driving.SourceFile
		}
	}

	return &settings, sources, nil
}

// fromStore reads a key from the config store. Values of the wrong
// type are ignored so the default stands.
func (s *SettingsService) fromStore(d setting) (any, bool) {
	raw, ok := s.configStore.Get(d.key)
	if !ok {
		return nil, false
	}

	switch d.kind {
	case kindInt:
		switch raw.(type) {
		case int, int64:
			return int64(s.configStore.GetInt(d.key)), true
		}
	case kindFloat:
		switch raw.(type) {
		case int, int64, float64:
			return s.configStore.GetFloat(d.key), true
		}
	default:
		if str, ok := raw.(string); ok {
			if d.key == keySinkType && !domain.SinkType(str).IsValid() {
				return nil, false
			}
			return str, true
		}
	}
	return nil, false
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	d, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	val, err := d.parse(value)
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, val); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes key from the config file so the default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := lookupSetting(key); !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unknown returns the keys in the config file that no setting reads.
func (s *SettingsService) Unknown() []string {
	var unknown []string
	for _, key := range s.configStore.Keys() {
		if _, ok := lookupSetting(key); !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// Keys returns every recognised key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, d := range settingsTable {
		keys[i] = d.key
	}
	return keys
}

// Validate checks if current settings are usable for a run.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}
