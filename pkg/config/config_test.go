package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "wss://relay.damus.io", cfg.Relay.URL)
	assert.Equal(t, "treatsend", cfg.Transfer.RoutingTag)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.True(t, cfg.Dashboard.Enabled)
	assert.Equal(t, "127.0.0.1", cfg.Dashboard.Host)
	assert.Equal(t, 18483, cfg.Dashboard.Port)
	assert.Empty(t, cfg.Dashboard.Token, "no baked-in token")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TREATSEND_RELAY_URL", "wss://relay.example.org")
	t.Setenv("TREATSEND_ROUTING_TAG", "halloween")
	t.Setenv("TREATSEND_DASHBOARD_PORT", "9999")
	t.Setenv("TREATSEND_DASHBOARD_ENABLED", "false")
	t.Setenv("TREATSEND_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	changed := applyEnvOverrides(cfg)

	assert.True(t, changed)
	assert.Equal(t, "wss://relay.example.org", cfg.Relay.URL)
	assert.Equal(t, "halloween", cfg.Transfer.RoutingTag)
	assert.Equal(t, 9999, cfg.Dashboard.Port)
	assert.False(t, cfg.Dashboard.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnvOverridesIgnoresGarbage(t *testing.T) {
	t.Setenv("TREATSEND_DASHBOARD_PORT", "not-a-number")
	t.Setenv("TREATSEND_RELAY_URL", "   ")

	cfg := DefaultConfig()
	changed := applyEnvOverrides(cfg)

	assert.False(t, changed)
	assert.Equal(t, 18483, cfg.Dashboard.Port)
	assert.Equal(t, "wss://relay.damus.io", cfg.Relay.URL)
}

func TestEnsureDashboardToken(t *testing.T) {
	cfg := DefaultConfig()

	token, generated, err := cfg.EnsureDashboardToken()
	require.NoError(t, err)
	assert.True(t, generated)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, cfg.Dashboard.Token)

	// Second call keeps the existing token.
	_, generated, err = cfg.EnsureDashboardToken()
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, token, cfg.Dashboard.Token)
}

func TestRotateDashboardToken(t *testing.T) {
	cfg := DefaultConfig()
	first, _, err := cfg.EnsureDashboardToken()
	require.NoError(t, err)

	second, err := cfg.RotateDashboardToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, cfg.Dashboard.Token)
}

func TestLoadLegacyConfigKeepsDefaultsForUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"relay":{"url":"wss://relay.example.org"},"log":{"level":"debug"}}`), 0644))

	cfg, err := loadLegacyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wss://relay.example.org", cfg.Relay.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "treatsend", cfg.Transfer.RoutingTag, "unset sections keep defaults")
	assert.Equal(t, 18483, cfg.Dashboard.Port)
}

func TestLoadLegacyConfigErrors(t *testing.T) {
	_, err := loadLegacyConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	_, err = loadLegacyConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "*****abc", MaskSecret("abc"))
	assert.Equal(t, "*****67890", MaskSecret("1234567890"))
}

func TestSecretMaskMapOnlyListsSetSecrets(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, SecretMaskMap(cfg))

	cfg.Dashboard.Token = "supersecrettoken"
	cfg.Storage.DatabaseURL = "postgres://u:p@localhost/treatsend"

	masks := SecretMaskMap(cfg)
	require.Len(t, masks, 2)
	assert.Equal(t, "*****token", masks["dashboard.token"])
	assert.NotContains(t, masks["storage.database_url"], "u:p@")
}
