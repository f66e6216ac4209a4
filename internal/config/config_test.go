package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_LoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeader)
	assert.Equal(t, 10*time.Second, cfg.Server.Shutdown)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Metrics.Token)
	assert.True(t, cfg.Shop.Seed)
	assert.Equal(t, 5, cfg.Shop.LowStock)
	assert.Equal(t, 60, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func Test_LoadFrom_Layering(t *testing.T) {
	// given
	yamlFile := writeFile(t, "config.yaml", `
server:
  port: 9000
  shutdown: 3s
log:
  level: debug
shop:
  lowstock: 2
`)
	envFile := writeFile(t, ".env", "SHOP_SERVER_PORT=9100\nSHOP_METRICS_TOKEN=from-dotenv\nUNRELATED=1\n")
	t.Setenv("SHOP_SERVER_PORT", "9200")
	t.Setenv("SHOP_SHOP_SEED", "false")

	// when
	cfg, err := LoadFrom(yamlFile, envFile)

	// then
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port, "environment wins")
	assert.Equal(t, 3*time.Second, cfg.Server.Shutdown, "yaml overrides defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Shop.LowStock)
	assert.Equal(t, "from-dotenv", cfg.Metrics.Token)
	assert.False(t, cfg.Shop.Seed)
}

func Test_LoadFrom_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"SHOP_SERVER_PORT": "70000"}},
		{name: "zero shutdown", env: map[string]string{"SHOP_SERVER_SHUTDOWN": "0s"}},
		{name: "unknown log level", env: map[string]string{"SHOP_LOG_LEVEL": "chatty"}},
		{name: "negative low stock", env: map[string]string{"SHOP_SHOP_LOWSTOCK": "-1"}},
		{name: "zero rate limit", env: map[string]string{"SHOP_RATELIMIT_LIMIT": "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()

			cfg, err := LoadFrom(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "none.env"))

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func Test_LoadFrom_BrokenYAML(t *testing.T) {
	yamlFile := writeFile(t, "config.yaml", "server: [port")

	_, err := LoadFrom(yamlFile, "")
	assert.Error(t, err)
}

func Test_Config_StringMasksToken(t *testing.T) {
	var cfg Config
	cfg.Metrics.Token = "super-secret"

	assert.NotContains(t, cfg.String(), "super-secret")
	assert.Contains(t, cfg.String(), "metrics.token=****")
}

func Test_keyTransformer(t *testing.T) {
	assert.Equal(t, "server.port", keyTransformer("SHOP_SERVER_PORT"))
	assert.Equal(t, "ratelimit.window", keyTransformer("shop_ratelimit_window"))
}
