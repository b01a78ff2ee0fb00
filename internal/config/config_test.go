package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Database.ShouldMigrate())
	assert.Equal(t, 10, cfg.Webhook.MaxAttempts)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 200, cfg.Solver.StallIterations)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
server:
  port: 9000
  auth_token: from-file
logging:
  level: DEBUG
webhook:
  url: https://hooks.example/opt
`)
	t.Setenv("AUTH_TOKEN", "from-env")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("RATE_RPS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Server.AuthToken)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Database.ShouldMigrate())
	assert.Equal(t, 5.0, cfg.Server.RateRPS)
	assert.Equal(t, 5, cfg.Server.RateBurst)
	assert.Equal(t, "https://hooks.example/opt", cfg.Webhook.URL)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"server":{"port":7000},"solver":{"stall_iterations":50}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Solver.StallIterations)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "cfg.toml", "x=1"))
	assert.Error(t, err)

	t.Setenv("LOG_FORMAT", "xml")
	_, err = Load("")
	assert.ErrorContains(t, err, "logging")
}

func TestUnknownEnvIgnored(t *testing.T) {
	t.Setenv("SOME_OTHER_VAR", "x")
	_, err := Load("")
	assert.NoError(t, err)
}
