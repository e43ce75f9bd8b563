package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdirTemp runs the test in an empty temp dir, so that no .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, "harpa.db", c.Metadata.DB)
	assert.Equal(t, "Harpa Cristã", c.Deck.OutputDir)
	assert.Equal(t, "logo2.png", c.Deck.LogoPath)
	assert.Equal(t, uint(1), c.Deck.FirstID)
	assert.Equal(t, uint(640), c.Deck.LastID)
	assert.False(t, c.Deck.ContinueOnError)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := chdirTemp(t)

	t.Run("no file", func(t *testing.T) {
		c, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("yaml overlays defaults", func(t *testing.T) {
		path := filepath.Join(dir, "harpadeck.yaml")
		require.NoError(t, os.WriteFile(path, []byte("metadata:\n  db: other.db\ndeck:\n  lastid: 10\n"), 0o644))

		c, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "other.db", c.Metadata.DB)
		assert.Equal(t, uint(10), c.Deck.LastID)
		assert.Equal(t, uint(1), c.Deck.FirstID)
		assert.Equal(t, "logo2.png", c.Deck.LogoPath)
	})

	t.Run("empty yaml", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		c, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid range", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("deck:\n  firstid: 5\n  lastid: 4\n"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv(EnvHarpaDB, "/data/harpa.db")
	t.Setenv(EnvHarpaOutputDir, "/out")
	t.Setenv(EnvHarpaLogo, "/assets/logo.png")
	t.Setenv(EnvHarpaListenAddr, ":9000")
	t.Setenv(EnvHarpaContinue, "true")

	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/data/harpa.db", c.Metadata.DB)
	assert.Equal(t, "/out", c.Deck.OutputDir)
	assert.Equal(t, "/assets/logo.png", c.Deck.LogoPath)
	assert.Equal(t, ":9000", c.HttpListenAddr)
	assert.True(t, c.Deck.ContinueOnError)

	t.Setenv(EnvHarpaContinue, "maybe")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HARPA_DB=fromdotenv.db\n"), 0o644))

	// godotenv never overrides a variable that is already set
	t.Setenv(EnvHarpaDB, "")
	require.NoError(t, os.Unsetenv(EnvHarpaDB))

	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv.db", c.Metadata.DB)
}

func TestConfigWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultConfig().Write(&buf))

	var back HarpaConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *DefaultConfig(), back)
}
