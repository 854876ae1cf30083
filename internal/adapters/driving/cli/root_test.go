package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
)

// --- Mock implementations for CLI testing ---

// mockPipeline implements driving.Pipeline.
type mockPipeline struct {
	report     *domain.RunReport
	runErr     error
	opts       driving.RunOptions
	runs       int
	extraction *domain.Extraction
	extractErr error
	content    []byte
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.runs++
	m.opts = opts
	if m.runErr != nil {
		return nil, m.runErr
	}
	return m.report, nil
}

func (m *mockPipeline) Extract(_ context.Context, content []byte) (*domain.Extraction, error) {
	m.content = content
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.extraction, nil
}

// mockIndexService implements driving.IndexService.
type mockIndexService struct {
	lines    []string
	entries  []domain.IndexEntry
	err      error
	peekN    int
	formType string
}

func (m *mockIndexService) Peek(_ context.Context, n int) ([]string, error) {
	m.peekN = n
	return m.lines, m.err
}

func (m *mockIndexService) List(_ context.Context, formType string) ([]domain.IndexEntry, error) {
	m.formType = formType
	return m.entries, m.err
}

func (m *mockIndexService) Location() string {
	return "s3://bucket/index.json"
}

// --- Helpers ---

// withServices installs services for one test.
func withServices(t *testing.T, svc *Services) {
	t.Helper()
	oldPipeline, oldIndex, oldSettings := pipeline, indexService, settingsService
	pipeline, indexService, settingsService = nil, nil, nil
	SetServices(svc)
	t.Cleanup(func() {
		pipeline, indexService, settingsService = oldPipeline, oldIndex, oldSettings
	})
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// --- Tests ---

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "pfgrants", rootCmd.Use)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "extract", "index", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_BootstrapReceivesConfigDir(t *testing.T) {
	withServices(t, nil)
	oldBootstrap := bootstrap
	defer func() { bootstrap = oldBootstrap }()

	var gotDir string
	idx := &mockIndexService{lines: []string{"["}}
	SetBootstrap(func(dir string) (*Services, error) {
		gotDir = dir
		return &Services{Index: idx}, nil
	})

	out, err := execute(t, "--config-dir", "/tmp/pf", "index", "peek")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pf", gotDir)
	assert.Contains(t, out, "[")
}

func TestRootCmd_BootstrapError(t *testing.T) {
	withServices(t, nil)
	oldBootstrap := bootstrap
	defer func() { bootstrap = oldBootstrap }()

	SetBootstrap(func(string) (*Services, error) {
		return nil, errors.New("bad config file")
	})

	_, err := execute(t, "index", "peek")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad config file")
}

func TestCommands_NotConfigured(t *testing.T) {
	withServices(t, nil)

	tests := [][]string{
		{"run"},
		{"extract", "file.xml"},
		{"index", "peek"},
		{"index", "list"},
		{"config", "show"},
		{"config", "set", "a", "b"},
		{"config", "unset", "a"},
	}
	for _, args := range tests {
		_, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
	}
}
