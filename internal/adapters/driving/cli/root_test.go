package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/logger"
)

func TestRootCmd_Flags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestExecute_RunsSetupWithConfigPath(t *testing.T) {
	withPorts(t, Ports{})
	history := &mockHistory{}

	var gotPath string
	cleaned := false
	s := func(path string) (Ports, func(), error) {
		gotPath = path
		return Ports{Runs: history}, func() { cleaned = true }, nil
	}

	rootCmd.SetArgs([]string{"runs", "--config", "/tmp/fresq"})
	defer func() {
		rootCmd.SetArgs(nil)
		configDir = ""
	}()

	require.NoError(t, Execute(s))
	assert.Equal(t, "/tmp/fresq", gotPath)
	assert.True(t, cleaned)
}

func TestExecute_SetupError(t *testing.T) {
	withPorts(t, Ports{})
	s := func(string) (Ports, func(), error) {
		return Ports{}, nil, errors.New("no config")
	}

	rootCmd.SetArgs([]string{"runs"})
	defer rootCmd.SetArgs(nil)

	assert.ErrorContains(t, Execute(s), "no config")
}

func TestExecute_VersionSkipsSetup(t *testing.T) {
	called := false
	s := func(string) (Ports, func(), error) {
		called = true
		return Ports{}, nil, nil
	}

	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute(s))
	assert.False(t, called)
}

func TestVerboseFlag_EnablesLogger(t *testing.T) {
	defer logger.SetVerbose(false)
	defer func() { verbose = false }()

	_, err := execute(t, "version", "--verbose")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}
