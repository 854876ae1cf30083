package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pfgrants/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func newTestSettingsService(store *memory.ConfigStore, env map[string]string) *SettingsService {
	return NewSettingsServiceWithEnv(store, envMap(env))
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NotNil(t, service)
	assert.Equal(t, ":memory:", service.Path())
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *settings)
	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("bigquery.project", "proj")
	_ = store.Set("fetch.concurrency", int64(4))
	_ = store.Set("fetch.requests_per_second", int64(2))
	_ = store.Set("sink.type", "sqlite")
	_ = store.Set("aws.profile", "")

	service := newTestSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "proj", settings.BigQuery.Project)
	assert.Equal(t, 4, settings.Fetch.Concurrency)
	assert.InDelta(t, 2.0, settings.Fetch.RequestsPerSecond, 0.0001)
	assert.Equal(t, domain.SinkSQLite, settings.Sink)
	assert.Empty(t, settings.AWS.Profile, "explicit empty value overrides the default")
}

func TestSettingsService_Get_InvalidStoredValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("sink.type", "postgres")
	_ = store.Set("fetch.burst", "lots")
	_ = store.Set("index.bucket", int64(5))

	service := newTestSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Sink, settings.Sink)
	assert.Equal(t, defaults.Fetch.Burst, settings.Fetch.Burst)
	assert.Equal(t, defaults.Index.Bucket, settings.Index.Bucket)
}

func TestSettingsService_Get_EnvOverridesFile(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("bigquery.project", "from-file")
	_ = store.Set("run.limit", int64(10))

	service := newTestSettingsService(store, map[string]string{
		"PFGRANTS_BIGQUERY_PROJECT":          "from-env",
		"PFGRANTS_RUN_LIMIT":                 "5",
		"PFGRANTS_FETCH_REQUESTS_PER_SECOND": "0.5",
	})

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.BigQuery.Project)
	assert.Equal(t, 5, settings.Run.Limit)
	assert.InDelta(t, 0.5, settings.Fetch.RequestsPerSecond, 0.0001)
}

func TestSettingsService_Get_InvalidEnv(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), map[string]string{
		"PFGRANTS_FETCH_CONCURRENCY": "many",
	})

	_, err := service.Get()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "PFGRANTS_FETCH_CONCURRENCY")
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	require.NoError(t, service.Set("bigquery.dataset", "grants"))
	require.NoError(t, service.Set("fetch.timeout_seconds", "45"))
	require.NoError(t, service.Set("fetch.requests_per_second", "2.5"))
	require.NoError(t, service.Set("sink.type", "sqlite"))

	val, ok := store.Get("fetch.timeout_seconds")
	require.True(t, ok)
	assert.Equal(t, int64(45), val)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "grants", settings.BigQuery.Dataset)
	assert.Equal(t, 45, settings.Fetch.TimeoutSeconds)
	assert.InDelta(t, 2.5, settings.Fetch.RequestsPerSecond, 0.0001)
	assert.Equal(t, domain.SinkSQLite, settings.Sink)
}

func TestSettingsService_Set_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "nope", value: "x"},
		{name: "integer", key: "fetch.burst", value: "ten"},
		{name: "float", key: "fetch.requests_per_second", value: "fast"},
		{name: "sink", key: "sink.type", value: "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := newTestSettingsService(store, nil)

			err := service.Set(tt.key, tt.value)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	keys := service.Keys()

	assert.Len(t, keys, 19)
	assert.Equal(t, "index.bucket", keys[0])
	assert.Contains(t, keys, "fetch.requests_per_second")
	assert.Contains(t, keys, "bigquery.credentials_file")
	assert.Equal(t, "sqlite.path", keys[len(keys)-1])
}

func TestSettingsService_Describe(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("bigquery.project", "proj")
	service := newTestSettingsService(store, map[string]string{"PFGRANTS_RUN_LIMIT": "3"})

	values, err := service.Describe()
	require.NoError(t, err)

	byKey := make(map[string]driving.SettingValue, len(values))
	for _, v := range values {
		byKey[v.Key] = v
	}

	assert.Equal(t, driving.SettingValue{Key: "bigquery.project", Value: "proj", Source: driving.SourceFile},
		byKey["bigquery.project"])
	assert.Equal(t, driving.SettingValue{Key: "run.limit", Value: "3", Source: driving.SourceEnv},
		byKey["run.limit"])
	assert.Equal(t, driving.SettingValue{Key: "fetch.requests_per_second", Value: "5", Source: driving.SourceDefault},
		byKey["fetch.requests_per_second"])
	assert.Equal(t, "990PF", byKey["index.form_type"].Value)
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	// The default sink needs a project and dataset.
	err := service.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, service.Set("bigquery.project", "proj"))
	require.NoError(t, service.Set("bigquery.dataset", "grants"))
	assert.NoError(t, service.Validate())
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "PFGRANTS_BIGQUERY_PROJECT", EnvName("bigquery.project"))
	assert.Equal(t, "PFGRANTS_FETCH_REQUESTS_PER_SECOND", EnvName("fetch.requests_per_second"))
}

func TestSettingsService_Unset(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	require.NoError(t, service.Set("fetch.burst", "3"))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, settings.Fetch.Burst)

	require.NoError(t, service.Unset("fetch.burst"))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Fetch.Burst, settings.Fetch.Burst)

	err = service.Unset("no.such.key")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Unknown(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("bigquery.project", "proj")
	_ = store.Set("bigquery.location", "EU")
	_ = store.Set("legacy", true)

	service := newTestSettingsService(store, nil)

	assert.Equal(t, []string{"bigquery.location", "legacy"}, service.Unknown())
}
