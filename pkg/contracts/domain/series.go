package domain

import "time"

// SeriesPoint is one value of a derived series. Value is nil where the
// metric is undefined (window warm-up, missing source value).
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

// Series is an ordered sequence of points aligned to a subset's records
type Series []SeriesPoint

// Values returns the present values in order
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, p := range s {
		if p.Value != nil {
			out = append(out, *p.Value)
		}
	}
	return out
}

// Present counts points carrying a value
func (s Series) Present() int {
	n := 0
	for _, p := range s {
		if p.Value != nil {
			n++
		}
	}
	return n
}

// Distribution summarizes the present values of a field
type Distribution struct {
	Field  Field   `json:"field"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}
