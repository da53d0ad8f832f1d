package dataprocessing

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
)

// SheetsReader reads product sources from ranges of one Google spreadsheet
type SheetsReader struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsReader connects to the Sheets API. opts typically carry
// option.WithCredentialsFile; tests pass an endpoint override instead.
func NewSheetsReader(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsReader, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}, opts...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewSourceError("failed to create sheets service", err)
	}

	return &SheetsReader{service: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadTable fetches src.Range with unformatted values so that numbers and
// dates come back as numbers, matching what WorkbookReader sees.
func (r *SheetsReader) ReadTable(ctx context.Context, src Source) (RawTable, error) {
	if src.Range == "" {
		return RawTable{}, apperrors.NewInvalidSourceError(fmt.Sprintf("source %s has no range", src.Name))
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, src.Range).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return RawTable{}, apperrors.NewSourceError("failed to read sheet range", err).
			With("range", src.Range)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		rows[i] = cells
	}

	return tableFromRows(src.Name, rows)
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
