package domain

import "strings"

// Field names a numeric column of the unified dataset. Values match the
// column headers used in the source spreadsheets.
type Field string

const (
	FieldPriceAmazon      Field = "Price On Amazon"
	FieldPriceFlipkart    Field = "Price On Flipkart"
	FieldPriceJiomart     Field = "Price On Jiomart"
	FieldDiscountAmazon   Field = "Discount On Amazon"
	FieldDiscountFlipkart Field = "Discount On Flipkart"
	FieldDiscountJiomart  Field = "Discount On Jiomart"
)

// Metric is the kind of value a Field carries
type Metric string

const (
	MetricPrice    Metric = "price"
	MetricDiscount Metric = "discount"
)

// Non-numeric column headers
const (
	ColumnDate        = "Date"
	ColumnProductName = "Product Name"
	ColumnType        = "Type"
	ColumnCompany     = "Company"
)

// PriceField returns the price column for platform p
func PriceField(p Platform) Field {
	return Field("Price On " + string(p))
}

// DiscountField returns the discount column for platform p
func DiscountField(p Platform) Field {
	return Field("Discount On " + string(p))
}

// PriceFields returns the three price columns in platform order
func PriceFields() []Field {
	return []Field{FieldPriceAmazon, FieldPriceFlipkart, FieldPriceJiomart}
}

// DiscountFields returns the three discount columns in platform order
func DiscountFields() []Field {
	return []Field{FieldDiscountAmazon, FieldDiscountFlipkart, FieldDiscountJiomart}
}

// Fields returns every numeric column, prices first
func Fields() []Field {
	return append(PriceFields(), DiscountFields()...)
}

// FieldsFor returns the columns carrying the given metric
func FieldsFor(m Metric) []Field {
	if m == MetricDiscount {
		return DiscountFields()
	}
	return PriceFields()
}

// ParseField accepts either the column header ("Price On Amazon") or the
// snake form used in query strings ("price_amazon").
func ParseField(s string) (Field, bool) {
	for _, f := range Fields() {
		if strings.EqualFold(string(f), s) || strings.EqualFold(f.Key(), s) {
			return f, true
		}
	}
	return "", false
}

// Key returns the snake_case identifier of the field
func (f Field) Key() string {
	platform, metric, ok := f.split()
	if !ok {
		return ""
	}
	return string(metric) + "_" + strings.ToLower(string(platform))
}

// Platform returns the platform the field belongs to
func (f Field) Platform() Platform {
	p, _, _ := f.split()
	return p
}

// Metric returns whether the field is a price or a discount
func (f Field) Metric() Metric {
	_, m, _ := f.split()
	return m
}

func (f Field) split() (Platform, Metric, bool) {
	s := string(f)
	var metric Metric
	switch {
	case strings.HasPrefix(s, "Price On "):
		metric = MetricPrice
		s = strings.TrimPrefix(s, "Price On ")
	case strings.HasPrefix(s, "Discount On "):
		metric = MetricDiscount
		s = strings.TrimPrefix(s, "Discount On ")
	default:
		return "", "", false
	}
	p, ok := ParsePlatform(s)
	if !ok {
		return "", "", false
	}
	return p, metric, true
}
