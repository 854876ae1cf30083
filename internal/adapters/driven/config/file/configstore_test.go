package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pfgrants"), dir)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("bigquery.project", "my-project"))

	val, ok := store.Get("bigquery.project")
	assert.True(t, ok)
	assert.Equal(t, "my-project", val)
	assert.Equal(t, "my-project", store.GetString("bigquery.project"))
}

func TestConfigStore_GetMissing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("fetch.user_agent", "ua"))
	require.NoError(t, store.Set("fetch.burst", int64(3)))

	assert.Zero(t, store.GetInt("fetch.user_agent"))
	assert.Zero(t, store.GetFloat("fetch.user_agent"))
	assert.Empty(t, store.GetString("fetch.burst"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("bigquery.project", "proj"))
	require.NoError(t, store.Set("bigquery.dataset", "grants"))
	require.NoError(t, store.Set("fetch.concurrency", int64(4)))
	require.NoError(t, store.Set("fetch.requests_per_second", 2.5))

	content, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[bigquery]")
	assert.Contains(t, string(content), "[fetch]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "proj", reloaded.GetString("bigquery.project"))
	assert.Equal(t, "grants", reloaded.GetString("bigquery.dataset"))
	assert.Equal(t, 4, reloaded.GetInt("fetch.concurrency"))
	assert.InDelta(t, 2.5, reloaded.GetFloat("fetch.requests_per_second"), 0.0001)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[index]
bucket = "my-bucket"

[fetch]
requests_per_second = 5
timeout_seconds = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "my-bucket", store.GetString("index.bucket"))
	assert.InDelta(t, 5.0, store.GetFloat("fetch.requests_per_second"), 0.0001)
	assert.Equal(t, 10, store.GetInt("fetch.timeout_seconds"))
}

func TestConfigStore_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_Load_Reloads(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("[run]\nlimit = 7\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, 7, store.GetInt("run.limit"))
}

func TestConfigStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save())
	assert.FileExists(t, store.Path())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": int64(1),
			"c": map[string]any{"d": "x"},
		},
		"top": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "top": true}, flat)
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{"a.b": int64(1), "a.c.d": "x", "top": true})
	require.NoError(t, err)

	assert.Equal(t, flattenMap(nested, ""), map[string]any{"a.b": int64(1), "a.c.d": "x", "top": true})
}

func TestNestMap_Conflict(t *testing.T) {
	_, err := nestMap(map[string]any{"a": "scalar", "a.b": "nested"})
	assert.Error(t, err)
}

func TestConfigStore_DeleteAndKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("sqlite.path", "/tmp/g.db"))
	require.NoError(t, store.Set("bigquery.project", "proj"))
	assert.Equal(t, []string{"bigquery.project", "sqlite.path"}, store.Keys())

	require.NoError(t, store.Delete("sqlite.path"))
	require.NoError(t, store.Delete("never.set"))
	assert.Equal(t, []string{"bigquery.project"}, store.Keys())

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok := reopened.Get("sqlite.path")
	assert.False(t, ok, "deletion is persisted")
	assert.Equal(t, "proj", reopened.GetString("bigquery.project"))
}

func TestConfigStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("index.bucket", "b"))
	require.NoError(t, store.Set("index.key", "k"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
