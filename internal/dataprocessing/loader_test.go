package dataprocessing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/shared/testutil"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

func TestWorkbookReader_ReadTable(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWorkbook(t, dir, "vivo.xlsx", [][]interface{}{
		testutil.ProductHeader,
		{day(1), "Vivo T3", 19999, 20499, 20999, 12, 10, nil},
		{"2024-08-02", "Vivo T3", "₹19,499", "20,299", nil, "15%", 10, 5},
		{nil, "Vivo T3", 1, 2, 3, 4, 5, 6},
	})

	reader := NewWorkbookReader(dir)
	table, err := reader.ReadTable(context.Background(), Source{Name: "vivo", File: "vivo.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, "vivo", table.Name)
	assert.Equal(t, allColumns, table.Columns)
	assert.Equal(t, 1, table.Skipped)
	require.Len(t, table.Records, 2)

	first := table.Records[0]
	assert.Equal(t, day(1), first.Date)
	assert.Equal(t, "Vivo T3", first.ProductName)
	assert.Equal(t, price(19999), first.PriceAmazon)
	assert.Equal(t, price(20999), first.PriceJiomart)
	assert.Equal(t, price(12), first.DiscountAmazon)
	assert.Nil(t, first.DiscountJiomart)

	second := table.Records[1]
	assert.Equal(t, day(2), second.Date)
	assert.Equal(t, price(19499), second.PriceAmazon)
	assert.Equal(t, price(20299), second.PriceFlipkart)
	assert.Nil(t, second.PriceJiomart)
	assert.Equal(t, price(15), second.DiscountAmazon)
}

func TestWorkbookReader_HeaderVariants(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWorkbook(t, dir, "boat.xlsx", [][]interface{}{
		{},
		{" date ", "PRODUCT  NAME", "Notes", "price on flipkart"},
		{"02-08-2024", "Rockerz 450", "sale", 1499},
	})

	table, err := NewWorkbookReader(dir).ReadTable(context.Background(), Source{Name: "boat", File: "boat.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{domain.ColumnDate, domain.ColumnProductName, string(domain.FieldPriceFlipkart)}, table.Columns)
	require.Len(t, table.Records, 1)
	assert.Equal(t, day(2), table.Records[0].Date)
	assert.Equal(t, price(1499), table.Records[0].PriceFlipkart)
	assert.Nil(t, table.Records[0].PriceAmazon)
}

func TestWorkbookReader_Errors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWorkbook(t, dir, "bad_date.xlsx", [][]interface{}{
		testutil.ProductHeader,
		{"someday", "Vivo T3", 1, 2, 3, 4, 5, 6},
	})
	testutil.WriteWorkbook(t, dir, "bad_price.xlsx", [][]interface{}{
		testutil.ProductHeader,
		{"2024-08-01", "Vivo T3", "cheap", 2, 3, 4, 5, 6},
	})

	reader := NewWorkbookReader(dir)

	tests := []struct {
		name string
		src  Source
		want apperrors.ErrorType
	}{
		{"missing file", Source{Name: "nope", File: "nope.xlsx"}, apperrors.ErrTypeParsing},
		{"no file configured", Source{Name: "empty"}, apperrors.ErrTypeValidation},
		{"unparseable date", Source{Name: "bad_date", File: "bad_date.xlsx"}, apperrors.ErrTypeParsing},
		{"unparseable price", Source{Name: "bad_price", File: "bad_price.xlsx"}, apperrors.ErrTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ReadTable(context.Background(), tt.src)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.want, appErr.Type)
		})
	}
}

func TestWorkbookReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkbookReader(t.TempDir()).ReadTable(ctx, Source{Name: "vivo", File: "vivo.xlsx"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPickSheet(t *testing.T) {
	sheets := []string{"Sheet1", "redmi", "vivo"}

	assert.Equal(t, "vivo", pickSheet(sheets, "vivo!A:H"))
	assert.Equal(t, "redmi", pickSheet(sheets, "'redmi'!A1:H200"))
	assert.Equal(t, "Sheet1", pickSheet(sheets, "moto!A:H"))
	assert.Equal(t, "Sheet1", pickSheet(sheets, ""))
	assert.Equal(t, "", pickSheet(nil, "vivo!A:H"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "45505", want: day(1)},
		{in: "45505.75", want: day(1)},
		{in: "2024-08-01", want: day(1)},
		{in: "2024-08-01 18:30:00", want: day(1)},
		{in: "01-08-2024", want: day(1)},
		{in: "01/08/2024", want: day(1)},
		{in: "1-Aug-2024", want: day(1)},
		{in: "Aug 1, 2024", want: day(1)},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{in: "1299", want: price(1299)},
		{in: " 1,299.50 ", want: price(1299.5)},
		{in: "₹ 999", want: price(999)},
		{in: "Rs. 450", want: price(450)},
		{in: "35%", want: price(35)},
		{in: ""},
		{in: "-"},
		{in: "NaN"},
		{in: "N/A"},
		{in: "free", wantErr: true},
		{in: "-250", wantErr: true},
		{in: "₹ -1,299", wantErr: true},
		{in: "0", want: price(0)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableFromRows_ReportsFirstBadColumn(t *testing.T) {
	header := []string{domain.ColumnDate, domain.ColumnProductName}
	for _, f := range domain.Fields() {
		header = append(header, string(f))
	}
	rows := [][]string{
		header,
		{"2024-08-01", "Vivo T3", "100", "cheap", "120", "5", "6", "-3"},
	}

	for i := 0; i < 20; i++ {
		_, err := tableFromRows("vivo", rows)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
		assert.Equal(t, string(domain.FieldPriceFlipkart), appErr.Fields["column"])
		assert.Equal(t, 2, appErr.Fields["row"])
	}
}

func TestTableFromRows_RejectsNegativeDiscount(t *testing.T) {
	header := []string{domain.ColumnDate, domain.ColumnProductName}
	for _, f := range domain.Fields() {
		header = append(header, string(f))
	}

	_, err := tableFromRows("vivo", [][]string{
		header,
		{"2024-08-01", "Vivo T3", "100", "110", "120", "5", "6", "-3"},
	})

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, string(domain.FieldDiscountJiomart), appErr.Fields["column"])
}
