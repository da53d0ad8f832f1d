// Package exporter writes the unified dataset to CSV and XLSX.
//
// Both writers emit the same columns (see Columns) in dataset order. The
// CSV writer prefixes a UTF-8 BOM when asked so spreadsheet tools detect
// the encoding; the XLSX writer streams rows through excelize.
//
// Example usage:
//
//	w := exporter.NewWriter(paths.ExportDir)
//	path, err := w.ExportFile(exporter.FormatCSV, ds.Records(), time.Now())
package exporter
