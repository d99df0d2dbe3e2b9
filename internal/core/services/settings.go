package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir          = "pipeline.data_dir"
	keyOutputDir        = "pipeline.output_dir"
	keyPostProcessors   = "pipeline.postprocessors"
	keyDropFields       = "pipeline.drop_fields"
	keyGroupingStrict   = "grouping.strict"
	keyCensusPath       = "reference.census_path"
	keyOccupationalPath = "reference.occupational_path"
	keyJobCodesPath     = "reference.job_codes_path"
	keyCensusYear       = "census.year_column"
	keyCensusInst       = "census.institution_column"
	keyCensusProgram    = "census.program_column"
	keyCensusCode       = "census.code_column"
	keyDirectoryURL     = "directory.base_url"
	keyDirectoryAPIKey  = "directory.api_key"
	keyDirectoryRPS     = "directory.requests_per_second"
	keyDirectoryBurst   = "directory.burst"
	keyDirectoryTimeout = "directory.timeout_seconds"
	keyStorageBucket    = "storage.bucket"
	keyStorageEndpoint  = "storage.endpoint"
	keyStorageRegion    = "storage.region"
	keyStorageAccessKey = "storage.access_key"
	keyStorageSecretKey = "storage.secret_key"
	keyStoragePathStyle = "storage.use_path_style"
)

// Environment variables overriding secrets and the directory URL.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvDirectoryAPIKey = "PAYSAGE_API_KEY"
	EnvDirectoryURL    = "PAYSAGE_URL"
	EnvStorageAccess   = "FRESQ_S3_ACCESS_KEY"
	EnvStorageSecret   = "FRESQ_S3_SECRET_KEY"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

var settingKinds = map[string]settingKind{
	keyDataDir:          kindString,
	keyOutputDir:        kindString,
	keyPostProcessors:   kindList,
	keyDropFields:       kindList,
	keyGroupingStrict:   kindBool,
	keyCensusPath:       kindString,
	keyOccupationalPath: kindString,
	keyJobCodesPath:     kindString,
	keyCensusYear:       kindString,
	keyCensusInst:       kindString,
	keyCensusProgram:    kindString,
	keyCensusCode:       kindString,
	keyDirectoryURL:     kindString,
	keyDirectoryAPIKey:  kindString,
	keyDirectoryRPS:     kindFloat,
	keyDirectoryBurst:   kindInt,
	keyDirectoryTimeout: kindInt,
	keyStorageBucket:    kindString,
	keyStorageEndpoint:  kindString,
	keyStorageRegion:    kindString,
	keyStorageAccessKey: kindString,
	keyStorageSecretKey: kindString,
	keyStoragePathStyle: kindBool,
}

// SettingsService manages pipeline settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, getenv: os.Getenv}
}

// Get retrieves the effective settings.
func (s *SettingsService) Get() (*domain.PipelineSettings, error) {
	d := domain.DefaultPipelineSettings()

	settings := &domain.PipelineSettings{
		DataDir:          s.getString(keyDataDir, d.DataDir),
		OutputDir:        s.getString(keyOutputDir, d.OutputDir),
		CensusPath:       s.getString(keyCensusPath, d.CensusPath),
		OccupationalPath: s.getString(keyOccupationalPath, d.OccupationalPath),
		JobCodesPath:     s.getString(keyJobCodesPath, d.JobCodesPath),
		CensusColumns: domain.CensusColumns{
			Year:               s.getString(keyCensusYear, d.CensusColumns.Year),
			InstitutionCodes:   s.getString(keyCensusInst, d.CensusColumns.InstitutionCodes),
			ProgramIDs:         s.getString(keyCensusProgram, d.CensusColumns.ProgramIDs),
			ClassificationCode: s.getString(keyCensusCode, d.CensusColumns.ClassificationCode),
		},
		StrictGrouping: s.getBool(keyGroupingStrict, d.StrictGrouping),
		PostProcessors: s.getList(keyPostProcessors, d.PostProcessors),
		DropFields:     s.getList(keyDropFields, d.DropFields),
		Directory: domain.DirectorySettings{
			BaseURL:           s.getString(keyDirectoryURL, d.Directory.BaseURL),
			APIKey:            s.configStore.GetString(keyDirectoryAPIKey),
			RequestsPerSecond: s.getFloat(keyDirectoryRPS, d.Directory.RequestsPerSecond),
			Burst:             s.getInt(keyDirectoryBurst, d.Directory.Burst),
			Timeout:           d.Directory.Timeout,
		},
		Storage: domain.StorageSettings{
			Bucket:       s.configStore.GetString(keyStorageBucket),
			Endpoint:     s.configStore.GetString(keyStorageEndpoint),
			Region:       s.getString(keyStorageRegion, d.Storage.Region),
			AccessKey:    s.configStore.GetString(keyStorageAccessKey),
			SecretKey:    s.configStore.GetString(keyStorageSecretKey),
			UsePathStyle: s.getBool(keyStoragePathStyle, d.Storage.UsePathStyle),
		},
	}
	if secs := s.configStore.GetInt(keyDirectoryTimeout); secs > 0 {
		settings.Directory.Timeout = time.Duration(secs) * time.Second
	}

	s.applyEnv(settings)

	if settings.Directory.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keyDirectoryRPS)
	}
	if settings.Directory.Burst < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, keyDirectoryBurst)
	}

	return settings, nil
}

func (s *SettingsService) applyEnv(settings *domain.PipelineSettings) {
	if v := s.getenv(EnvDirectoryAPIKey); v != "" {
		settings.Directory.APIKey = v
	}
	if v := s.getenv(EnvDirectoryURL); v != "" {
		settings.Directory.BaseURL = v
	}
	if v := s.getenv(EnvStorageAccess); v != "" {
		settings.Storage.AccessKey = v
	}
	if v := s.getenv(EnvStorageSecret); v != "" {
		settings.Storage.SecretKey = v
	}
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer: %w", domain.ErrInvalidInput, key, err)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number: %w", domain.ErrInvalidInput, key, err)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects a boolean: %w", domain.ErrInvalidInput, key, err)
		}
		parsed = b
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		parsed = items
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported setting keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.PipelineSettings {
	return domain.DefaultPipelineSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetStringSlice(key)
	}
	return defaultVal
}
