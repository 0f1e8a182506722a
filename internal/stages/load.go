package stages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Registry builds the validated registry for the catalogue.
func (c *Catalog) Registry() (*Registry, error) {
	descriptors := make([]Descriptor, 0, len(c.Stages))
	for i, spec := range c.Stages {
		dwell, err := ParseDwell(spec.Dwell)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i+1, spec.ID, err)
		}
		descriptors = append(descriptors, Descriptor{
			ID:          spec.ID,
			Title:       spec.Title,
			Description: spec.Description,
			Tooltip:     spec.Tooltip,
			Dwell:       dwell,
		})
	}

	return NewRegistry(c.Name, descriptors, c.AutoPlay, WithDescription(c.Description))
}

// ParseDwell parses a dwell value. Bare integers are milliseconds.
func ParseDwell(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(value); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("dwell must not be negative")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid dwell: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("dwell must not be negative")
	}
	return d, nil
}

// LoadCatalog reads a single catalogue from disk.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	catalog, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	catalog.Source = path
	return catalog, nil
}

// LoadCatalogsFromDir loads every .yaml/.yml catalogue in dir. A missing
// directory yields an empty list.
func LoadCatalogsFromDir(dir string) ([]*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Catalog{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Catalog{}, nil
		}
		return nil, fmt.Errorf("read catalogs dir %s: %w", dir, err)
	}

	catalogs := make([]*Catalog, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		catalog, err := LoadCatalog(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, catalog)
	}

	sort.Slice(catalogs, func(i, j int) bool {
		return catalogs[i].Name < catalogs[j].Name
	})

	return catalogs, nil
}

// FindCatalog returns the catalogue with the given name, case-insensitively.
func FindCatalog(catalogs []*Catalog, name string) *Catalog {
	name = strings.TrimSpace(name)
	for _, c := range catalogs {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func parseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}

	catalog.Name = strings.TrimSpace(catalog.Name)
	if catalog.Name == "" {
		return nil, fmt.Errorf("catalog name is required")
	}
	catalog.Description = strings.TrimSpace(catalog.Description)

	if len(catalog.Stages) == 0 {
		return nil, fmt.Errorf("catalog stages are required")
	}

	for i := range catalog.Stages {
		if err := normalizeStage(&catalog.Stages[i]); err != nil {
			return nil, fmt.Errorf("catalog stage %d: %w", i+1, err)
		}
	}
	for i := range catalog.AutoPlay {
		catalog.AutoPlay[i] = strings.TrimSpace(catalog.AutoPlay[i])
	}

	// Build once so a broken catalogue is rejected at load time.
	if _, err := catalog.Registry(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

func normalizeStage(spec *StageSpec) error {
	spec.ID = strings.TrimSpace(spec.ID)
	spec.Title = strings.TrimSpace(spec.Title)
	spec.Description = strings.TrimSpace(spec.Description)
	spec.Tooltip = strings.TrimSpace(spec.Tooltip)
	spec.Dwell = strings.TrimSpace(spec.Dwell)

	if spec.ID == "" {
		return fmt.Errorf("stage id is required")
	}
	if spec.Title == "" {
		spec.Title = spec.ID
	}
	return nil
}
