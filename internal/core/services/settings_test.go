package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fresq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fresq/internal/core/domain"
)

func newSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)
	svc.getenv = func(k string) string { return env[k] }
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newSettingsService(nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultPipelineSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, store := newSettingsService(nil)
	require.NoError(t, store.Set("pipeline.data_dir", "/srv/fresq"))
	require.NoError(t, store.Set("grouping.strict", true))
	require.NoError(t, store.Set("directory.base_url", "https://paysage.example/api"))
	require.NoError(t, store.Set("directory.requests_per_second", 2.5))
	require.NoError(t, store.Set("directory.burst", 3))
	require.NoError(t, store.Set("directory.timeout_seconds", 5))
	require.NoError(t, store.Set("pipeline.postprocessors", []any{"sanitise", "drop_fields"}))
	require.NoError(t, store.Set("storage.bucket", "fresq"))

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "/srv/fresq", settings.DataDir)
	assert.True(t, settings.StrictGrouping)
	assert.Equal(t, "https://paysage.example/api", settings.Directory.BaseURL)
	assert.InDelta(t, 2.5, settings.Directory.RequestsPerSecond, 1e-9)
	assert.Equal(t, 3, settings.Directory.Burst)
	assert.Equal(t, 5*time.Second, settings.Directory.Timeout)
	assert.Equal(t, []string{"sanitise", "drop_fields"}, settings.PostProcessors)
	assert.True(t, settings.Storage.Enabled())
	assert.Equal(t, "output", settings.OutputDir, "unset keys keep defaults")
}

func TestSettingsService_Get_EnvironmentOverridesSecrets(t *testing.T) {
	svc, store := newSettingsService(map[string]string{
		EnvDirectoryAPIKey: "env-key",
		EnvStorageAccess:   "AKIA",
		EnvStorageSecret:   "secret",
	})
	require.NoError(t, store.Set("directory.api_key", "file-key"))

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "env-key", settings.Directory.APIKey)
	assert.Equal(t, "AKIA", settings.Storage.AccessKey)
	assert.Equal(t, "secret", settings.Storage.SecretKey)
}

func TestSettingsService_Get_InvalidRate(t *testing.T) {
	svc, store := newSettingsService(nil)
	require.NoError(t, store.Set("directory.requests_per_second", 0.0))

	_, err := svc.Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	svc, store := newSettingsService(nil)

	require.NoError(t, svc.Set("directory.burst", "4"))
	require.NoError(t, svc.Set("directory.requests_per_second", "1.5"))
	require.NoError(t, svc.Set("grouping.strict", "true"))
	require.NoError(t, svc.Set("pipeline.drop_fields", "etapes, parcours,"))
	require.NoError(t, svc.Set("storage.region", "eu-west-3"))

	assert.Equal(t, 4, store.GetInt("directory.burst"))
	assert.InDelta(t, 1.5, store.GetFloat("directory.requests_per_second"), 1e-9)
	assert.True(t, store.GetBool("grouping.strict"))
	assert.Equal(t, []string{"etapes", "parcours"}, store.GetStringSlice("pipeline.drop_fields"))
	assert.Equal(t, "eu-west-3", store.GetString("storage.region"))
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	svc, _ := newSettingsService(nil)

	assert.ErrorIs(t, svc.Set("unknown.key", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set("directory.burst", "many"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set("grouping.strict", "maybe"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	svc, _ := newSettingsService(nil)

	keys := svc.Keys()
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "grouping.strict")
	assert.Contains(t, keys, "directory.base_url")
	assert.Equal(t, domain.DefaultPipelineSettings(), svc.GetDefaults())
}
