package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	apperrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// ErrInvalidWindow is the sentinel wrapped by InvalidWindowError
var ErrInvalidWindow = errors.New("invalid window")

// InvalidWindowError reports a rolling window that is not positive
type InvalidWindowError struct {
	Window int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid rolling window %d: must be at least 1", e.Window)
}

func (e *InvalidWindowError) Unwrap() error { return ErrInvalidWindow }

// ErrorType classifies the error for HTTP responses
func (e *InvalidWindowError) ErrorType() apperrors.ErrorType { return apperrors.ErrTypeValidation }

// FieldSeries returns the field's value for every record of the subset.
// Missing values and unknown fields produce absent points.
func FieldSeries(subset Subset, field domain.Field) domain.Series {
	out := make(domain.Series, len(subset))
	for i, r := range subset {
		out[i].Date = r.Date
		if v, ok := r.Value(field); ok {
			out[i].Value = domain.Float(v)
		}
	}
	return out
}

// RollingMean computes the trailing simple moving average of field over the
// subset in its existing order; records are not re-sorted by date. The
// first window-1 points are absent, as is any point whose window contains
// an absent value.
func RollingMean(subset Subset, field domain.Field, window int) (domain.Series, error) {
	if window <= 0 {
		return nil, &InvalidWindowError{Window: window}
	}

	values := FieldSeries(subset, field)
	out := make(domain.Series, len(values))

	for i := range values {
		out[i].Date = values[i].Date
		if i < window-1 {
			continue
		}

		sum := 0.0
		complete := true
		for j := i - window + 1; j <= i; j++ {
			if values[j].Value == nil {
				complete = false
				break
			}
			sum += *values[j].Value
		}
		if complete {
			out[i].Value = domain.Float(sum / float64(window))
		}
	}

	return out, nil
}

// ComparisonSeries returns one series per requested field, all aligned to
// the subset's records. A field with no values still gets a series.
func ComparisonSeries(subset Subset, fields []domain.Field) map[domain.Field]domain.Series {
	out := make(map[domain.Field]domain.Series, len(fields))
	for _, f := range fields {
		out[f] = FieldSeries(subset, f)
	}
	return out
}

// Describe summarizes the present values of field. Quantiles use linear
// interpolation between closest ranks. An all-absent field yields a zero
// Distribution with Count 0.
func Describe(subset Subset, field domain.Field) domain.Distribution {
	values := FieldSeries(subset, field).Values()
	dist := domain.Distribution{Field: field, Count: len(values)}
	if len(values) == 0 {
		return dist
	}

	sort.Float64s(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	dist.Min = values[0]
	dist.Max = values[len(values)-1]
	dist.Mean = sum / float64(len(values))
	dist.Q1 = quantile(values, 0.25)
	dist.Median = quantile(values, 0.5)
	dist.Q3 = quantile(values, 0.75)
	return dist
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
