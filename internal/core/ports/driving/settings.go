package driving

import "github.com/custodia-labs/fresq/internal/core/domain"

// SettingsService manages pipeline settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, overridden by the
	// config file, overridden by the environment for secrets.
	Get() (*domain.PipelineSettings, error)

	// Set parses and persists a single setting.
	Set(key, value string) error

	// Keys returns the supported setting keys, sorted.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.PipelineSettings
}
