package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.Retries)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.Token)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("EXCHANGE_API_KEY", "k")
	t.Setenv("MCP_TOKEN", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "secret", cfg.Token)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratewire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 4000\napiKey: filekey\ntimeout: 5s\nretries: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "filekey", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratewire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 4000\napiKey: filekey\n"), 0o644))

	t.Setenv("PORT", "5000")
	t.Setenv("EXCHANGE_API_KEY", "envkey")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "envkey", cfg.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PORT", "99999")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("unparsable port falls back", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ratewire.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
