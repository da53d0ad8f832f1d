package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	NoHeader  bool
}

// WriteCSV writes records to w in Columns order
func WriteCSV(w io.Writer, records []domain.ProductRecord, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if !options.NoHeader {
		if err := writer.Write(Columns()); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, r := range records {
		if err := writer.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
