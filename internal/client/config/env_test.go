package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv("SLIDESMITH_API_URL", "http://env:8000")
	t.Setenv("SLIDESMITH_LOG_LEVEL", "warn")
	t.Setenv("SLIDESMITH_STATE", "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env:8000", cfg.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "slidesmith.db", cfg.StatePath, "blank variables are ignored")
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	old, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
		_ = os.Unsetenv("SLIDESMITH_DOWNLOAD_DIR")
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SLIDESMITH_DOWNLOAD_DIR=/srv/out\n"), 0o600))
	require.NoError(t, os.Unsetenv("SLIDESMITH_DOWNLOAD_DIR"))

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "/srv/out", cfg.DownloadDir)
}
