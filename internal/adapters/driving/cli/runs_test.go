package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

func TestRunsCmd_ListsRuns(t *testing.T) {
	history := &mockHistory{runs: []domain.Run{*sampleRun()}}
	withPorts(t, Ports{Runs: history})
	defer func() { runsLimit = 10 }()

	out, err := execute(t, "runs", "--limit", "3")
	require.NoError(t, err)

	assert.Equal(t, 3, history.limit)
	assert.Contains(t, out, "SUFFIX")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "20240901")
	assert.Contains(t, out, "succeeded")
}

func TestRunsCmd_Empty(t *testing.T) {
	withPorts(t, Ports{Runs: &mockHistory{}})

	out, err := execute(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs yet.")
}

func TestRunsCmd_Error(t *testing.T) {
	withPorts(t, Ports{Runs: &mockHistory{err: errors.New("db locked")}})

	_, err := execute(t, "runs")
	assert.ErrorContains(t, err, "db locked")
}
