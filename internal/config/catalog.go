package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// CatalogEntry is one product source as written in a catalog file:
//
//	sources:
//	  - file: vivo.xlsx
//	    type: Mobile
//	    company: Vivo
type CatalogEntry struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	Range   string `yaml:"range"`
	Type    string `yaml:"type"`
	Company string `yaml:"company"`
}

type catalogFile struct {
	Sources []CatalogEntry `yaml:"sources"`
}

// LoadCatalog reads a YAML catalog file. Entries keep file order, which is
// also the concatenation order of the unified dataset.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	if len(cf.Sources) == 0 {
		return nil, fmt.Errorf("catalog %s has no sources", path)
	}

	for i, e := range cf.Sources {
		if e.File == "" && e.Range == "" {
			return nil, fmt.Errorf("catalog entry %d: file or range is required", i)
		}
		if e.Type == "" || e.Company == "" {
			return nil, fmt.Errorf("catalog entry %d: type and company are required", i)
		}
	}

	return cf.Sources, nil
}
