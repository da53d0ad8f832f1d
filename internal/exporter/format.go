package exporter

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// DateLayout is the day-first layout used in previews and exports
const DateLayout = "02-01-2006"

// Columns is the header of every export, in order
func Columns() []string {
	out := []string{domain.ColumnDate, domain.ColumnProductName}
	for _, f := range domain.Fields() {
		out = append(out, string(f))
	}
	return append(out, domain.ColumnType, domain.ColumnCompany)
}

// FormatDate renders a record date as dd-mm-yyyy
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDiscount renders a discount as a whole percent, truncating any
// fraction: 12.9 becomes "12%".
func FormatDiscount(v float64) string {
	return fmt.Sprintf("%d%%", int64(math.Trunc(v)))
}

// FormatPrice renders a price without trailing zeros. A missing price is
// an empty cell.
func FormatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatFloat formats a float64 with as few digits as needed
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Row renders one record in Columns order
func Row(r domain.ProductRecord) []string {
	return []string{
		FormatDate(r.Date),
		r.ProductName,
		FormatPrice(r.PriceAmazon),
		FormatPrice(r.PriceFlipkart),
		FormatPrice(r.PriceJiomart),
		formatFloat(r.DiscountAmazon),
		formatFloat(r.DiscountFlipkart),
		formatFloat(r.DiscountJiomart),
		string(r.Type),
		r.Company,
	}
}
