package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
)

type rollingQuery struct {
	Version string `query:"version" validate:"required"`
	Field   string `query:"field" validate:"field"`
	Window  int    `query:"window" validate:"gte=1,lte=365"`
}

type filterQuery struct {
	Type   string `query:"type" validate:"product_type"`
	Metric string `query:"metric" validate:"metric"`
	Format string `query:"format" validate:"export_format"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
	}{
		{
			name:  "valid rolling",
			input: rollingQuery{Version: "Vivo T3", Field: "price_amazon", Window: 3},
		},
		{
			name:  "column header field",
			input: rollingQuery{Version: "Vivo T3", Field: "Price On Jiomart", Window: 7},
		},
		{
			name:       "missing version and bad window",
			input:      rollingQuery{Field: "price_amazon", Window: 0},
			wantFields: []string{"version", "window"},
		},
		{
			name:       "unknown field",
			input:      rollingQuery{Version: "Vivo T3", Field: "Price On Myntra", Window: 3},
			wantFields: []string{"field"},
		},
		{
			name:  "empty filters pass",
			input: filterQuery{},
		},
		{
			name:  "case insensitive values",
			input: filterQuery{Type: "watch", Metric: "Discount", Format: "XLSX"},
		},
		{
			name:       "all invalid",
			input:      filterQuery{Type: "Laptop", Metric: "rating", Format: "pdf"},
			wantFields: []string{"type", "metric", "format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			var fields []string
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}
