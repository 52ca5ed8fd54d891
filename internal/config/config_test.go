package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlannerConfig(t *testing.T) {
	t.Setenv("FINPILOT_SERVICE_URL", "")
	t.Setenv("FINPILOT_API_KEY", "")

	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		cfg := LoadPlannerConfig(v)
		assert.Equal(t, "http", cfg.Provider)
		assert.Empty(t, cfg.BaseURL)
		assert.Equal(t, 2*time.Minute, cfg.Timeout)
		assert.Equal(t, 30, cfg.RateLimit)
		assert.True(t, cfg.ValidateContract)
	})

	t.Run("viper values win", func(t *testing.T) {
		t.Setenv("FINPILOT_SERVICE_URL", "http://env.example")
		v := viper.New()
		SetDefaults(v)
		v.Set(KeyServiceURL, "http://config.example")
		v.Set(KeyServiceTimeout, "30s")
		v.Set(KeyServiceRateLimit, 5)

		cfg := LoadPlannerConfig(v)
		assert.Equal(t, "http://config.example", cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, 5, cfg.RateLimit)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("FINPILOT_SERVICE_URL", "http://env.example")
		t.Setenv("FINPILOT_API_KEY", "secret")
		v := viper.New()

		cfg := LoadPlannerConfig(v)
		assert.Equal(t, "http://env.example", cfg.BaseURL)
		assert.Equal(t, "secret", cfg.APIKey)
	})
}

func TestLoadPlannerConfig_FromFile(t *testing.T) {
	t.Setenv("FINPILOT_SERVICE_URL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  provider: stub
  stub_delay: 250ms
  validate_contract: false
`), 0o600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := LoadPlannerConfig(v)
	assert.Equal(t, "stub", cfg.Provider)
	assert.Equal(t, 250*time.Millisecond, cfg.StubDelay)
	assert.False(t, cfg.ValidateContract)
}

func TestLoadPlaidConfig(t *testing.T) {
	t.Setenv("PLAID_CLIENT_ID", "env-client")
	t.Setenv("PLAID_SECRET", "env-secret")
	t.Setenv("PLAID_ACCESS_TOKEN", "")

	v := viper.New()
	SetDefaults(v)
	v.Set(KeyPlaidAccessToken, "access-sandbox-1")

	cfg := LoadPlaidConfig(v)
	assert.Equal(t, "env-client", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.Secret)
	assert.Equal(t, "sandbox", cfg.Environment)
	assert.Equal(t, "access-sandbox-1", cfg.AccessToken)
	assert.NoError(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINPILOT_TEST_DIR", "/tmp/statements")

	assert.Empty(t, ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "bank.ofx"), ExpandPath("~/bank.ofx"))
	assert.Equal(t, "/tmp/statements/bank.ofx", ExpandPath("$FINPILOT_TEST_DIR/bank.ofx"))
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got := ExpandPaths([]string{"~/a.ofx", " ", "/tmp/b.qfx"})
	assert.Equal(t, []string{filepath.Join(home, "a.ofx"), "/tmp/b.qfx"}, got)

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "finpilot"), dir)
}
