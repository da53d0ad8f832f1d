package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case; empty means CSV
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName names an export produced at t
func (f Format) FileName(t time.Time) string {
	return fmt.Sprintf("ecommerce_dataset_%s.%s", t.Format("20060102_150405"), f)
}

// Write encodes records in the format to w
func Write(w io.Writer, format Format, records []domain.ProductRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records, WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		return WriteXLSX(w, records)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// Writer saves exports under a directory
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// ExportFile writes records to a new timestamped file and returns its path
func (w *Writer) ExportFile(format Format, records []domain.ProductRecord, now time.Time) (string, error) {
	return w.ExportTo(format.FileName(now), format, records)
}

// ExportTo writes records to name. A relative name is resolved against the
// writer's directory.
func (w *Writer) ExportTo(name string, format Format, records []domain.ProductRecord) (string, error) {
	fullPath := name
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.dir, name)
	}

	slog.Info("Writing export file",
		slog.String("format", string(format)),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, format, records); err != nil {
		file.Close()
		os.Remove(fullPath)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return fullPath, nil
}
