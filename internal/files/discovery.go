package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Workbook is an .xlsx file found in a data directory
type Workbook struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Discovery finds source workbooks below a base directory
type Discovery struct {
	basePath string
}

func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindWorkbooks lists the .xlsx files directly in dir, sorted by name.
// Relative dirs are taken from the base path. Excel lock files (~$name)
// are skipped.
func (d *Discovery) FindWorkbooks(dir string) ([]Workbook, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	var out []Workbook
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Workbook{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// latestChange is the newest modification time among workbooks
func latestChange(workbooks []Workbook) time.Time {
	var latest time.Time
	for _, w := range workbooks {
		if w.ModTime.After(latest) {
			latest = w.ModTime
		}
	}
	return latest
}
