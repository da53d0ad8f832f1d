package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// ErrSchema is the sentinel wrapped by every SchemaError
var ErrSchema = errors.New("schema error")

// TaggedTable is a raw table together with the labels its records receive
type TaggedTable struct {
	Table   RawTable
	Type    domain.ProductType
	Company string
}

// SchemaError reports a source that cannot be unified
type SchemaError struct {
	Source  string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema error in %s: missing %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("schema error in %s: %s", e.Source, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// ErrorType classifies the error for HTTP responses
func (e *SchemaError) ErrorType() apperrors.ErrorType { return apperrors.ErrTypeSchema }

// Unify stamps every record with its table's type and company, concatenates
// the tables in input order and replaces missing discounts with 0.
//
// All tables are validated before any record is built, so on error the
// returned dataset is nil rather than partially filled.
func Unify(tables []TaggedTable) (*Dataset, error) {
	total := 0
	for _, t := range tables {
		if err := validateTable(t); err != nil {
			return nil, err
		}
		total += len(t.Table.Records)
	}

	records := make([]domain.ProductRecord, 0, total)
	for _, t := range tables {
		for _, raw := range t.Table.Records {
			records = append(records, domain.ProductRecord{
				Date:             raw.Date,
				ProductName:      raw.ProductName,
				PriceAmazon:      clonePtr(raw.PriceAmazon),
				PriceFlipkart:    clonePtr(raw.PriceFlipkart),
				PriceJiomart:     clonePtr(raw.PriceJiomart),
				DiscountAmazon:   orZero(raw.DiscountAmazon),
				DiscountFlipkart: orZero(raw.DiscountFlipkart),
				DiscountJiomart:  orZero(raw.DiscountJiomart),
				Type:             t.Type,
				Company:          t.Company,
			})
		}
	}

	return newDataset(records, len(tables), time.Now().UTC()), nil
}

func validateTable(t TaggedTable) error {
	name := t.Table.Name
	if name == "" {
		name = t.Company
	}

	if !t.Type.Valid() {
		return &SchemaError{Source: name, Reason: fmt.Sprintf("unknown product type %q", t.Type)}
	}
	if strings.TrimSpace(t.Company) == "" {
		return &SchemaError{Source: name, Reason: "company is empty"}
	}

	var missing []string
	for _, col := range []string{domain.ColumnDate, domain.ColumnProductName} {
		if !t.Table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	hasPrice := false
	for _, f := range domain.PriceFields() {
		if t.Table.HasColumn(string(f)) {
			hasPrice = true
			break
		}
	}
	if !hasPrice {
		missing = append(missing, "all price columns")
	}

	if len(missing) > 0 {
		return &SchemaError{Source: name, Missing: missing}
	}
	return nil
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
