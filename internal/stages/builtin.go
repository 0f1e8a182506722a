package stages

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltinCatalogs returns the catalogues bundled with foresight.
func LoadBuiltinCatalogs() ([]*Catalog, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin catalogs: %w", err)
	}

	catalogs := make([]*Catalog, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin catalog %s: %w", entry.Name(), err)
		}
		catalog, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin catalog %s: %w", entry.Name(), err)
		}
		catalog.Source = "builtin"
		catalogs = append(catalogs, catalog)
	}

	sort.Slice(catalogs, func(i, j int) bool {
		return catalogs[i].Name < catalogs[j].Name
	})

	return catalogs, nil
}
