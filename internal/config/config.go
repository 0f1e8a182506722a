// Package config loads foresight configuration from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kundanareddy2830/quantum-sight/internal/db"
	"github.com/kundanareddy2830/quantum-sight/internal/logging"
	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

// EnvPrefix is prepended to every environment override, e.g.
// FORESIGHT_JOURNAL_ENABLED.
const EnvPrefix = "FORESIGHT"

// Theme names accepted by tui.theme.
const (
	ThemeDefault      = "default"
	ThemeHighContrast = "high-contrast"
)

// Config is the effective configuration.
type Config struct {
	// Catalog names the stage catalogue to run. Empty asks interactively.
	Catalog string `mapstructure:"catalog" yaml:"catalog" json:"catalog"`

	// ProjectDir is searched for .foresight/catalogs.
	ProjectDir string `mapstructure:"project_dir" yaml:"project_dir" json:"project_dir"`

	Journal JournalConfig `mapstructure:"journal" yaml:"journal" json:"journal"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui" json:"tui"`
}

// JournalConfig controls the transition journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme" json:"theme"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: "pages",
		Journal: JournalConfig{
			Enabled: false,
			Path:    db.MemoryPath,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TUI: TUIConfig{
			Theme: ThemeDefault,
		},
	}
}

// Validate checks field values and reports every problem at once.
func (c *Config) Validate() error {
	validation := &models.ValidationErrors{}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		validation.Add("logging.level", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		validation.AddMessage("logging.format", fmt.Sprintf("unknown format %q (want console or json)", c.Logging.Format))
	}
	switch c.TUI.Theme {
	case "", ThemeDefault, ThemeHighContrast:
	default:
		validation.AddMessage("tui.theme", fmt.Sprintf("unknown theme %q (want %s or %s)", c.TUI.Theme, ThemeDefault, ThemeHighContrast))
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		validation.AddMessage("journal.path", "journal.path is required when the journal is enabled")
	}

	return validation.Err()
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/foresight or ~/.config/foresight.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "foresight")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "foresight")
	}
	return filepath.Join(home, ".config", "foresight")
}

// SearchPaths lists the config files tried when none is given explicitly.
func SearchPaths() []string {
	return []string{
		filepath.Join(DefaultConfigDir(), "config.yaml"),
		"foresight.yaml",
	}
}

// Loader reads configuration through viper.
type Loader struct {
	v          *viper.Viper
	configFile string
	used       string
}

// NewLoader creates a loader with defaults and environment overrides bound.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// SetConfigFile forces a specific file; it must exist.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Set overrides a key, taking precedence over file and environment.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// ConfigFileUsed returns the file that was read, or "" if none.
func (l *Loader) ConfigFileUsed() string {
	return l.used
}

// Load resolves the configuration and validates it.
func (l *Loader) Load() (*Config, error) {
	path := l.configFile
	if path == "" {
		for _, candidate := range SearchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		l.used = path
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is a convenience wrapper around NewLoader().Load().
func Load(configFile string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(configFile)
	return loader.Load()
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog", cfg.Catalog)
	v.SetDefault("project_dir", cfg.ProjectDir)
	v.SetDefault("journal.enabled", cfg.Journal.Enabled)
	v.SetDefault("journal.path", cfg.Journal.Path)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("tui.theme", cfg.TUI.Theme)
}
