package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

var allColumns = []string{
	domain.ColumnDate, domain.ColumnProductName,
	string(domain.FieldPriceAmazon), string(domain.FieldPriceFlipkart), string(domain.FieldPriceJiomart),
	string(domain.FieldDiscountAmazon), string(domain.FieldDiscountFlipkart), string(domain.FieldDiscountJiomart),
}

func day(d int) time.Time {
	return time.Date(2024, time.August, d, 0, 0, 0, 0, time.UTC)
}

func price(v float64) *float64 { return &v }

// rec builds a raw record with the same price on every platform
func rec(d int, name string, p float64) RawRecord {
	return RawRecord{
		Date:          day(d),
		ProductName:   name,
		PriceAmazon:   price(p),
		PriceFlipkart: price(p + 100),
		PriceJiomart:  price(p + 200),
	}
}

func table(name string, records ...RawRecord) RawTable {
	return RawTable{Name: name, Columns: allColumns, Records: records}
}

func tagged(t domain.ProductType, company string, tbl RawTable) TaggedTable {
	return TaggedTable{Table: tbl, Type: t, Company: company}
}

// sampleDataset mirrors a slice of the real catalog
func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Unify([]TaggedTable{
		tagged(domain.TypeMobile, "Vivo", table("vivo",
			rec(1, "Vivo T3", 19999), rec(2, "Vivo T3", 19499), rec(1, "Vivo Y28", 13999))),
		tagged(domain.TypeMobile, "Redmi", table("redmi",
			rec(1, "Redmi 13C", 8999), rec(2, "Redmi 13C", 8799))),
		tagged(domain.TypeMobile, "iPhone", table("iphone15",
			rec(1, "iPhone 15", 69999))),
		tagged(domain.TypeMobile, "iPhone", table("iphone13",
			rec(1, "iPhone 13", 52999))),
		tagged(domain.TypeHeadphones, "boAt", table("boat",
			rec(1, "boAt Rockerz 450", 1499))),
		tagged(domain.TypeWatch, "boAt Watch", table("boat_watch",
			rec(1, "boAt Wave Call", 1299))),
	})
	require.NoError(t, err)
	return ds
}
