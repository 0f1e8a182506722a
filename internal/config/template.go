package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template is written by `foresight config init`.
const Template = `# Foresight Configuration File
#
# Every key can be overridden with a FORESIGHT_ environment variable,
# e.g. FORESIGHT_JOURNAL_ENABLED=true.

# Stage catalogue to run: pages or wizard, or a custom catalogue name.
catalog: pages

# Directory searched for .foresight/catalogs (defaults to the working directory).
project_dir: ""

journal:
  # Record every stage transition to SQLite.
  enabled: false
  # ":memory:" keeps the journal for the current run only.
  path: ":memory:"

logging:
  # trace, debug, info, warn, error
  level: info
  # console or json
  format: console

tui:
  # default or high-contrast
  theme: default
`

// WriteTemplate writes Template to path. It reports false without touching
// the file when path exists and force is not set.
func WriteTemplate(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
