package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	chdir(t, t.TempDir())
	return dir
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, loader.ConfigFileUsed())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog: wizard
journal:
  enabled: true
  path: /tmp/journal.db
tui:
  theme: high-contrast
`), 0o644))
	t.Setenv("FORESIGHT_LOGGING_LEVEL", "debug")

	loader := NewLoader()
	loader.SetConfigFile(path)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "wizard", cfg.Catalog)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.Path)
	assert.Equal(t, ThemeHighContrast, cfg.TUI.Theme)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, path, loader.ConfigFileUsed())
}

func TestLoadSearchesConfigDir(t *testing.T) {
	dir := isolate(t)

	written, err := WriteTemplate(filepath.Join(dir, "foresight", "config.yaml"), false)
	require.NoError(t, err)
	require.True(t, written)

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "pages", cfg.Catalog)
	assert.Equal(t, filepath.Join(dir, "foresight", "config.yaml"), loader.ConfigFileUsed())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestSetOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FORESIGHT_CATALOG", "wizard")

	loader := NewLoader()
	loader.Set("catalog", "pages")
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "pages", cfg.Catalog)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.TUI.Theme = "neon"
	cfg.Journal.Enabled = true
	cfg.Journal.Path = " "

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	var verrs *models.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs.Errors, 4)
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/foresight", DefaultConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "foresight"), DefaultConfigDir())
}

func TestWriteTemplateRespectsForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	written, err := WriteTemplate(path, false)
	require.NoError(t, err)
	assert.False(t, written)
	content, _ := os.ReadFile(path)
	assert.Equal(t, "existing", string(content))

	written, err = WriteTemplate(path, true)
	require.NoError(t, err)
	assert.True(t, written)
	content, _ = os.ReadFile(path)
	assert.Contains(t, string(content), "# Foresight Configuration File")
}
