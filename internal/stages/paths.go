package stages

import (
	"os"
	"path/filepath"
)

// CatalogSearchPaths returns catalogue directories in precedence order.
func CatalogSearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".foresight", "catalogs"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "foresight", "catalogs"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "foresight", "catalogs"))
	return paths
}

// LoadCatalogsFromSearchPaths loads catalogues from the search paths and the
// built-ins. The first catalogue seen for a name wins.
func LoadCatalogsFromSearchPaths(projectDir string) ([]*Catalog, error) {
	return loadCatalogsFrom(CatalogSearchPaths(projectDir))
}

func loadCatalogsFrom(paths []string) ([]*Catalog, error) {
	seen := make(map[string]*Catalog)
	order := make([]string, 0)

	add := func(catalogs []*Catalog) {
		for _, c := range catalogs {
			if _, exists := seen[c.Name]; exists {
				continue
			}
			seen[c.Name] = c
			order = append(order, c.Name)
		}
	}

	for _, path := range paths {
		catalogs, err := LoadCatalogsFromDir(path)
		if err != nil {
			return nil, err
		}
		add(catalogs)
	}

	builtins, err := LoadBuiltinCatalogs()
	if err != nil {
		return nil, err
	}
	add(builtins)

	resolved := make([]*Catalog, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}
	return resolved, nil
}
