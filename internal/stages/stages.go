// Package stages defines the ordered stage catalogues a walkthrough runs
// through, and loads them from YAML.
package stages

import "time"

// Descriptor describes one stage of a walkthrough. Descriptors are
// immutable once a Registry has been built.
type Descriptor struct {
	ID          string
	Order       int
	Title       string
	Description string
	Tooltip     string

	// Dwell is how long the stage stays current during auto-play.
	// Zero marks a terminal stage that never auto-advances.
	Dwell time.Duration
}

// Terminal reports whether auto-play stops once this stage is entered.
func (d Descriptor) Terminal() bool {
	return d.Dwell <= 0
}

// Catalog is the on-disk form of a stage registry.
type Catalog struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Stages      []StageSpec `yaml:"stages"`
	AutoPlay    []string    `yaml:"autoplay,omitempty"`
	Source      string      `yaml:"-"` // file path or "builtin"
}

// StageSpec is a single catalogue entry.
type StageSpec struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Tooltip     string `yaml:"tooltip,omitempty"`

	// Dwell accepts a Go duration ("2500ms", "2s") or a bare integer
	// number of milliseconds.
	Dwell string `yaml:"dwell,omitempty"`
}
