package files

import (
	"log/slog"
	"path/filepath"
	"sort"
	"time"
)

// SourceReport compares the workbooks a catalog expects with what is on
// disk
type SourceReport struct {
	Dir          string    `json:"dir"`
	Present      []string  `json:"present"`
	Missing      []string  `json:"missing"`
	Unreferenced []string  `json:"unreferenced"`
	LatestChange time.Time `json:"latest_change,omitempty"`
}

// Complete reports whether every expected workbook exists
func (r SourceReport) Complete() bool {
	return len(r.Missing) == 0
}

// CheckSources looks for each expected file name in dir. Names with a
// directory component are matched by base name.
func (d *Discovery) CheckSources(dir string, expected []string, logger *slog.Logger) (SourceReport, error) {
	report := SourceReport{
		Dir:          dir,
		Present:      []string{},
		Missing:      []string{},
		Unreferenced: []string{},
	}

	found, err := d.FindWorkbooks(dir)
	if err != nil {
		return report, err
	}

	onDisk := make(map[string]bool, len(found))
	for _, f := range found {
		onDisk[f.Name] = true
	}
	report.LatestChange = latestChange(found)

	wanted := make(map[string]bool, len(expected))
	for _, name := range expected {
		base := filepath.Base(name)
		wanted[base] = true
		if onDisk[base] {
			report.Present = append(report.Present, base)
		} else {
			report.Missing = append(report.Missing, base)
		}
	}
	for _, f := range found {
		if !wanted[f.Name] {
			report.Unreferenced = append(report.Unreferenced, f.Name)
		}
	}
	sort.Strings(report.Present)
	sort.Strings(report.Missing)

	if !report.Complete() {
		logger.Warn("Source workbooks missing",
			slog.String("directory", dir),
			slog.Any("missing", report.Missing))
	}
	return report, nil
}
