package dataprocessing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
)

// WorkbookReader reads product sources from .xlsx files under Dir
type WorkbookReader struct {
	Dir string
}

// NewWorkbookReader creates a reader rooted at dir
func NewWorkbookReader(dir string) *WorkbookReader {
	return &WorkbookReader{Dir: dir}
}

// ReadTable opens the source's workbook and parses one sheet. The sheet is
// the one named before "!" in src.Range when it exists, otherwise the first
// sheet. Cells are read raw so dates arrive as Excel serial numbers.
func (r *WorkbookReader) ReadTable(ctx context.Context, src Source) (RawTable, error) {
	if err := ctx.Err(); err != nil {
		return RawTable{}, err
	}
	if src.File == "" {
		return RawTable{}, apperrors.NewInvalidSourceError(fmt.Sprintf("source %s has no file", src.Name))
	}

	path := src.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Dir, path)
	}

	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return RawTable{}, apperrors.NewParsingError("failed to open workbook", err).
			With("file", path)
	}
	defer f.Close()

	sheet := pickSheet(f.GetSheetList(), src.Range)
	if sheet == "" {
		return RawTable{}, apperrors.NewParsingError("workbook has no sheets", nil).
			With("file", path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %s", sheet), err).
			With("file", path)
	}

	return tableFromRows(src.Name, rows)
}

func pickSheet(sheets []string, rng string) string {
	if len(sheets) == 0 {
		return ""
	}
	if name, _, ok := strings.Cut(rng, "!"); ok {
		name = strings.Trim(name, "'")
		for _, s := range sheets {
			if s == name {
				return s
			}
		}
	}
	return sheets[0]
}
