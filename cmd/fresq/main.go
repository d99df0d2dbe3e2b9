// Command fresq transforms harvested FRESQ registry records into enriched,
// search-ready program documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	fileconfig "github.com/custodia-labs/fresq/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fresq/internal/adapters/driven/directory/paysage"
	"github.com/custodia-labs/fresq/internal/adapters/driven/reference"
	filestore "github.com/custodia-labs/fresq/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/fresq/internal/adapters/driven/storage/memory"
	s3store "github.com/custodia-labs/fresq/internal/adapters/driven/storage/s3"
	"github.com/custodia-labs/fresq/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/fresq/internal/adapters/driving/cli"
	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/core/services"
	"github.com/custodia-labs/fresq/internal/formatter"
	"github.com/custodia-labs/fresq/internal/logger"
	"github.com/custodia-labs/fresq/internal/normalisers/fresq"
	"github.com/custodia-labs/fresq/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(setup); err != nil {
		os.Exit(1)
	}
}

// setup wires the driving ports from the effective configuration.
// When the settings are invalid, only the settings port is wired so that
// they can still be inspected and fixed.
func setup(configDir string) (cli.Ports, func(), error) {
	configStore, err := fileconfig.NewConfigStore(configDir)
	if err != nil {
		return cli.Ports{}, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Invalid settings, only 'settings' commands are available: %v", err)
		return cli.Ports{Settings: settingsService}, nil, nil
	}

	// 1. Persistence
	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return cli.Ports{}, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store: %v", err)
		}
	}

	// 2. Optional object storage
	var objects driven.ObjectStore
	if settings.Storage.Enabled() {
		s3, err := s3store.New(context.Background(), settings.Storage)
		if err != nil {
			cleanup()
			return cli.Ports{}, nil, fmt.Errorf("open object storage: %w", err)
		}
		objects = s3
	}

	// 3. Institution directory
	resolutions := store.ResolutionStore()
	directory, err := newDirectory(settings.Directory)
	if err != nil {
		cleanup()
		return cli.Ports{}, nil, err
	}
	if settings.Directory.BaseURL == "" {
		resolutions = readOnlyResolutions{resolutions}
	}

	// 4. Post-processors
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	post, err := registry.BuildPipeline(settings.PostProcessors, map[string]any{
		postprocessors.ConfigFields: settings.DropFields,
	})
	if err != nil {
		cleanup()
		return cli.Ports{}, nil, fmt.Errorf("build post-processors: %w", err)
	}

	loader := reference.NewLoader(*settings)
	pipeline := services.NewPipeline(services.PipelineDeps{
		Source:         filestore.NewRawSource(settings.DataDir, objects),
		Directory:      directory,
		Census:         loader,
		Occupational:   loader,
		JobCodes:       loader,
		Resolutions:    resolutions,
		Normaliser:     fresq.New(),
		Formatter:      formatter.New(),
		PostProcessors: post,
		Sink:           filestore.NewDocumentSink(settings.OutputDir, objects),
		Runs:           store.RunStore(),
	}, *settings)

	return cli.Ports{
		Pipeline: pipeline,
		Lookup:   services.NewLookupService(directory, resolutions),
		Runs:     services.NewRunHistoryService(store.RunStore()),
		Settings: settingsService,
	}, cleanup, nil
}

// newDirectory returns the Paysage client, or an empty in-memory directory
// when no base URL is configured. With the latter, codes missing from the
// persisted table resolve to "no".
func newDirectory(s domain.DirectorySettings) (driven.InstitutionDirectory, error) {
	if s.BaseURL == "" {
		logger.Warn("No directory base URL configured; establishments will not be resolved")
		return memory.NewDirectory(), nil
	}
	client, err := paysage.NewClient(paysage.ConfigFromSettings(s))
	if err != nil {
		return nil, errors.Join(errors.New("create directory client"), err)
	}
	return client, nil
}

// readOnlyResolutions serves the persisted table without writing back, so
// answers of the empty directory never reach the table.
type readOnlyResolutions struct {
	driven.ResolutionStore
}

func (readOnlyResolutions) Replace(context.Context, map[string]domain.InstitutionIdentity) error {
	return nil
}
