package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitfit/pkg/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
	assert.Equal(t, "/run_github_gather", cfg.Endpoint(models.OperationGather))
	assert.Equal(t, "/run_bass_model", cfg.Endpoint(models.OperationFitBass))
	assert.Equal(t, "/run_innovation_model", cfg.Endpoint(models.OperationFitInnovation))
	assert.Equal(t, 8081, cfg.UI.Port)
	assert.True(t, cfg.Operations.DiscardStale)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, Validate(cfg))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
url = "http://analytics:9000"

[backend.endpoints]
fit_bass = "/bass"

[operations]
discard_stale = false
`), 0644))

	t.Setenv("COMMITFIT_UI_PORT", "9090")
	t.Setenv("COMMITFIT_LOGGING_LEVEL", "debug")
	t.Setenv("COMMITFIT_BACKEND_ENDPOINTS_FIT__INNOVATION", "/growth")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://analytics:9000", cfg.Backend.URL)
	assert.Equal(t, "/bass", cfg.Endpoint(models.OperationFitBass))
	assert.Equal(t, "/growth", cfg.Endpoint(models.OperationFitInnovation))
	assert.Equal(t, "/run_github_gather", cfg.Endpoint(models.OperationGather))
	assert.False(t, cfg.Operations.DiscardStale)
	assert.Equal(t, 9090, cfg.UI.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commitfit.toml")
	require.NoError(t, InitConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Error(t, InitConfig(path), "second init must not overwrite")
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing url", func(c *Config) { c.Backend.URL = "" }, "backend url is required"},
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://host" }, "http or https"},
		{"missing host", func(c *Config) { c.Backend.URL = "http://" }, "has no host"},
		{"missing endpoint", func(c *Config) { c.Backend.Endpoints.FitBass = "" }, "endpoint for fit-bass"},
		{"bad port", func(c *Config) { c.UI.Port = 70000 }, "out of range"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "console or json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "backend.url", envKey("COMMITFIT_BACKEND_URL"))
	assert.Equal(t, "operations.discard_stale", envKey("COMMITFIT_OPERATIONS_DISCARD__STALE"))
}
