package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// withPorts installs ports for the duration of a test.
func withPorts(t *testing.T, p Ports) {
	t.Helper()
	old := Ports{Pipeline: pipelineRunner, Lookup: institutionLookup, Runs: runHistory, Settings: settingsService}
	SetPorts(p)
	t.Cleanup(func() { SetPorts(old) })
}

type mockPipeline struct {
	mu       sync.Mutex
	run      *domain.Run
	err      error
	suffixes []string
}

func (m *mockPipeline) Run(_ context.Context, suffix string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffixes = append(m.suffixes, suffix)
	return m.run, m.err
}

func (m *mockPipeline) Progress() (done, total int) {
	return 0, 0
}

type mockLookup struct {
	results map[string]domain.Resolution
	errs    map[string]error
}

func (m *mockLookup) Resolve(_ context.Context, code string) (domain.Resolution, error) {
	return m.results[code], m.errs[code]
}

type mockHistory struct {
	runs  []domain.Run
	limit int
	err   error
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.Run, error) {
	m.limit = limit
	return m.runs, m.err
}

type mockSettings struct {
	settings domain.PipelineSettings
	set      map[string]string
	err      error
}

func (m *mockSettings) Get() (*domain.PipelineSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"directory.base_url", "pipeline.data_dir"}
}

func (m *mockSettings) GetDefaults() domain.PipelineSettings {
	return domain.DefaultPipelineSettings()
}
