package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Validator checks request structs tagged with `validate`. Field names in
// errors come from the `query` tag, falling back to `json`.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the dashboard's custom validations
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("product_type", isProductType)
	v.RegisterValidation("field", isField)
	v.RegisterValidation("metric", isMetric)
	v.RegisterValidation("export_format", isExportFormat)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// Struct validates s, returning a 400 APIError listing every invalid field
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidQuery(err)
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "product_type":
		return fmt.Sprintf("%s must be one of: %s", field, joinTypes())
	case "field":
		return fmt.Sprintf("%s must be a price or discount column such as %q or %q",
			field, domain.FieldPriceAmazon, domain.FieldPriceAmazon.Key())
	case "metric":
		return fmt.Sprintf("%s must be %q or %q", field, domain.MetricPrice, domain.MetricDiscount)
	case "export_format":
		return fmt.Sprintf("%s must be %q or %q", field, exporter.FormatCSV, exporter.FormatXLSX)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func joinTypes() string {
	types := domain.ProductTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Custom validators. Empty values pass; combine with required when needed.

func isProductType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, ok := domain.ParseProductType(s)
	return ok
}

func isField(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, ok := domain.ParseField(s)
	return ok
}

func isMetric(fl validator.FieldLevel) bool {
	switch domain.Metric(strings.ToLower(strings.TrimSpace(fl.Field().String()))) {
	case "", domain.MetricPrice, domain.MetricDiscount:
		return true
	}
	return false
}

func isExportFormat(fl validator.FieldLevel) bool {
	_, err := exporter.ParseFormat(fl.Field().String())
	return err == nil
}
