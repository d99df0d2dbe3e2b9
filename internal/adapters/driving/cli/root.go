// Package cli provides the fresq command-line interface.
//
// Commands talk to the core through driving ports held in package
// variables. The binary installs a Setup hook that wires them from the
// effective configuration; tests assign them directly.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fresq/internal/core/ports/driving"
	"github.com/custodia-labs/fresq/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services wired by Setup.
var (
	pipelineRunner    driving.PipelineRunner
	institutionLookup driving.InstitutionLookup
	runHistory        driving.RunHistory
	settingsService   driving.SettingsService
)

// Ports holds the driving ports the commands use.
// Any of them may be nil; commands that need a missing port fail.
type Ports struct {
	Pipeline driving.PipelineRunner
	Lookup   driving.InstitutionLookup
	Runs     driving.RunHistory
	Settings driving.SettingsService
}

// Setup wires the ports for a config directory. The returned cleanup is
// called once the command has finished.
type Setup func(configDir string) (Ports, func(), error)

var (
	setup   Setup
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "fresq",
	Short: "Transform FRESQ program records into enriched documents",
	Long: `fresq groups the harvested FRESQ registry records by program, resolves
establishments against the Paysage directory, enriches programs with census,
occupational and job-code reference data, and writes one canonical JSON
document per program.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress and diagnostic messages")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory holding config.toml (default ~/.fresq)")
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if setup == nil || cmd == versionCmd {
		return nil
	}

	ports, done, err := setup(configDir)
	if err != nil {
		return err
	}
	SetPorts(ports)
	cleanup = done
	return nil
}

// SetPorts installs the driving ports.
func SetPorts(p Ports) {
	pipelineRunner = p.Pipeline
	institutionLookup = p.Lookup
	runHistory = p.Runs
	settingsService = p.Settings
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. setup may be nil when ports were
// installed with SetPorts.
func Execute(s Setup) error {
	setup = s
	defer func() {
		setup = nil
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.Execute()
}

var errNotConfigured = errors.New("service not configured")
