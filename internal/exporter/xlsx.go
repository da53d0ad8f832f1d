package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// SheetName is the sheet the XLSX export writes to
const SheetName = "Dataset"

// WriteXLSX writes records as a single-sheet workbook to w. Dates keep
// their date type with a dd-mm-yyyy display format; missing prices are
// empty cells.
func WriteXLSX(w io.Writer, records []domain.ProductRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateFormat := "dd-mm-yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	columns := Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			excelize.Cell{StyleID: dateStyle, Value: r.Date},
			r.ProductName,
			optional(r.PriceAmazon),
			optional(r.PriceFlipkart),
			optional(r.PriceJiomart),
			r.DiscountAmazon,
			r.DiscountFlipkart,
			r.DiscountJiomart,
			string(r.Type),
			r.Company,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.Write(w)
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
