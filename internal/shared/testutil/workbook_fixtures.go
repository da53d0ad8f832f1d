package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ProductHeader is the column layout of the product workbooks
var ProductHeader = []interface{}{
	"Date", "Product Name",
	"Price On Amazon", "Price On Flipkart", "Price On Jiomart",
	"Discount On Amazon", "Discount On Flipkart", "Discount On Jiomart",
}

// WriteWorkbook saves rows (header first) as the first sheet of dir/name
// and returns the file path. A nil cell is left empty.
func WriteWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
