package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

func sampleRun() *domain.Run {
	start := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Run{
		ID:         "run-1",
		Suffix:     "20240901",
		Status:     domain.RunSucceeded,
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Records:    12,
		Programs:   5,
		Documents:  5,
		Faults:     3,
		FaultsByCategory: map[domain.FaultCategory]int{
			domain.FaultStructural:  1,
			domain.FaultDataQuality: 2,
		},
		Resolutions: map[domain.ResolutionMethod]int{
			domain.MethodDirect: 4,
			domain.MethodNone:   1,
		},
		DocumentsPath: "output/fresq_formatted_20240901.jsonl",
		FaultsPath:    "output/fresq_faults_20240901.log",
	}
}

func TestRunCmd_RequiresSuffix(t *testing.T) {
	withPorts(t, Ports{Pipeline: &mockPipeline{run: sampleRun()}})

	_, err := execute(t, "run")
	assert.Error(t, err)
}

func TestRunCmd_NotConfigured(t *testing.T) {
	withPorts(t, Ports{})

	_, err := execute(t, "run", "x")
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestRunCmd_PrintsSummary(t *testing.T) {
	pipeline := &mockPipeline{run: sampleRun()}
	withPorts(t, Ports{Pipeline: pipeline})

	out, err := execute(t, "run", "20240901")
	require.NoError(t, err)

	assert.Equal(t, []string{"20240901"}, pipeline.suffixes)
	assert.Contains(t, out, "Run:        run-1 (succeeded)")
	assert.Contains(t, out, "Duration:   1m30s")
	assert.Contains(t, out, "Documents:  5")
	assert.Contains(t, out, "data_quality")
	assert.Contains(t, out, "output/fresq_formatted_20240901.jsonl")
	assert.Less(t, strings.Index(out, "data_quality"), strings.Index(out, "structural"))
	assert.Less(t, strings.Index(out, "direct"), strings.Index(out, "no "))
}

func TestRunCmd_ReportsFailure(t *testing.T) {
	run := sampleRun()
	run.Status = domain.RunFailed
	run.Error = "reference data unavailable"
	run.DocumentsPath = ""
	withPorts(t, Ports{Pipeline: &mockPipeline{run: run, err: domain.ErrReferenceDataUnavailable}})

	out, err := execute(t, "run", "x")
	assert.ErrorIs(t, err, domain.ErrReferenceDataUnavailable)
	assert.Contains(t, out, "(failed)")
	assert.Contains(t, out, "Error:      reference data unavailable")
}

func TestRunCmd_FailureWithoutRun(t *testing.T) {
	withPorts(t, Ports{Pipeline: &mockPipeline{err: errors.New("boom")}})

	_, err := execute(t, "run", "x")
	assert.ErrorContains(t, err, "boom")
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[domain.FaultCategory]int{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []domain.FaultCategory{"a", "b", "c"}, got)
}
