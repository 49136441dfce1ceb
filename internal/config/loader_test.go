package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 2000, cfg.Runtime.SettleDelayMs)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.Paths["downloads"])
	assert.Equal(t, filepath.Join(home, "Documents"), cfg.Paths["documents"])
}

func TestParseKeepsExplicitPaths(t *testing.T) {
	cfg, err := Parse([]byte(`{"paths":{"downloads":"/data/in"}}`))
	require.NoError(t, err)
	assert.Equal(t, "/data/in", cfg.Paths["downloads"])
	// Unmentioned keys still get defaults.
	assert.NotEmpty(t, cfg.Paths["documents"])
}

func TestValidateRejectsRelativePaths(t *testing.T) {
	_, err := Parse([]byte(`{"paths":{"downloads":"relative/dir"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg, err := Parse([]byte(`{"paths":{"downloads":"/data/in"}}`))
	require.NoError(t, err)
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/in", loaded.Paths["downloads"])
}

func TestProviderReadsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	initial, err := Parse([]byte(`{"paths":{"downloads":"/data/in"}}`))
	require.NoError(t, err)
	require.NoError(t, Save(path, initial))

	p := NewProvider(path, initial)
	assert.Equal(t, "/data/in", p.PlaceholderPaths()["downloads"])

	// Edit on disk takes effect on the next read.
	edited, err := Parse([]byte(`{"paths":{"downloads":"/data/other"}}`))
	require.NoError(t, err)
	require.NoError(t, Save(path, edited))
	assert.Equal(t, "/data/other", p.PlaceholderPaths()["downloads"])
}

func TestProviderFallsBackOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	initial, err := Parse([]byte(`{"paths":{"downloads":"/data/in"}}`))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := NewProvider(path, initial)
	assert.Equal(t, "/data/in", p.PlaceholderPaths()["downloads"])
}
