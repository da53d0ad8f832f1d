package charts

import (
	"fmt"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

const (
	priceAxis    = "Price (in Indian Rupees)"
	discountAxis = "Discount (%)"
	platformAxis = "Platform Names"
)

// PriceLine plots one platform's price over time
func PriceLine(p domain.Platform, s domain.Series) Figure {
	const title = "Product Price Over Time"
	if len(s) == 0 {
		return Placeholder(title)
	}
	layout := darkLayout(title, "Date", string(domain.PriceField(p)))
	layout.ShowLegend = true
	return Figure{
		Data: []Trace{{
			Type: TraceScatter,
			Mode: "lines",
			Name: string(domain.PriceField(p)),
			X:    dates(s),
			Y:    points(s),
			Line: &Line{Color: accentColor},
		}},
		Layout: layout,
	}
}

// PriceHistogram bins one platform's present prices
func PriceHistogram(p domain.Platform, s domain.Series) Figure {
	const title = "Distribution of Product Prices"
	if len(s) == 0 {
		return Placeholder(title)
	}
	return Figure{
		Data: []Trace{{
			Type:   TraceHistogram,
			Name:   string(domain.PriceField(p)),
			X:      present(s),
			Marker: &Marker{Color: accentColor},
		}},
		Layout: darkLayout(title, string(domain.PriceField(p)), "count"),
	}
}

// PriceBox draws one platform's price spread
func PriceBox(p domain.Platform, s domain.Series) Figure {
	const title = "Price Distribution"
	if len(s) == 0 {
		return Placeholder(title)
	}
	return Figure{
		Data: []Trace{{
			Type:      TraceBox,
			Name:      string(domain.PriceField(p)),
			Y:         present(s),
			BoxPoints: "outliers",
			Marker:    &Marker{Color: PlatformColors[p]},
		}},
		Layout: darkLayout(title, "", string(domain.PriceField(p))),
	}
}

// RollingLine plots a rolling mean series. Warm-up points are gaps.
func RollingLine(p domain.Platform, s domain.Series, window int) Figure {
	title := fmt.Sprintf("%d-Day Rolling Mean of Price", window)
	if len(s) == 0 {
		return Placeholder(title)
	}
	return Figure{
		Data: []Trace{{
			Type: TraceScatter,
			Mode: "lines",
			Name: fmt.Sprintf("%s rolling mean", p),
			X:    dates(s),
			Y:    points(s),
			Line: &Line{Color: PlatformColors[p]},
		}},
		Layout: darkLayout(title, "Date", "Rolling Mean"),
	}
}

// ComparisonLine overlays the given fields over time, one trace per field
// in field order. A field whose values are all absent still gets a trace.
func ComparisonLine(version string, series map[domain.Field]domain.Series, fields []domain.Field) Figure {
	title := fmt.Sprintf("Price Comparison for %s", version)
	if seriesEmpty(series, fields) {
		return Placeholder(title)
	}

	traces := make([]Trace, 0, len(fields))
	for _, f := range fields {
		s := series[f]
		traces = append(traces, Trace{
			Type: TraceScatter,
			Mode: "lines",
			Name: string(f),
			X:    dates(s),
			Y:    points(s),
			Line: &Line{Color: PlatformColors[f.Platform()]},
		})
	}

	layout := darkLayout(title, "Date", priceAxis)
	layout.ShowLegend = true
	return Figure{Data: traces, Layout: layout}
}

// DistributionBox draws one box per field for the metric
func DistributionBox(version string, metric domain.Metric, series map[domain.Field]domain.Series, fields []domain.Field) Figure {
	noun, axis := "Price", priceAxis
	if metric == domain.MetricDiscount {
		noun, axis = "Discount", discountAxis
	}
	title := fmt.Sprintf("%s Distribution for %s", noun, version)
	if seriesEmpty(series, fields) {
		return Placeholder(title)
	}

	traces := make([]Trace, 0, len(fields))
	for _, f := range fields {
		traces = append(traces, Trace{
			Type:      TraceBox,
			Name:      string(f),
			Y:         present(series[f]),
			BoxPoints: "outliers",
			Marker:    &Marker{Color: PlatformColors[f.Platform()]},
		})
	}

	layout := darkLayout(title, platformAxis, axis)
	layout.ShowLegend = true
	return Figure{Data: traces, Layout: layout}
}

// DiscountBar groups each date's discounts by platform
func DiscountBar(version string, series map[domain.Field]domain.Series, fields []domain.Field) Figure {
	title := fmt.Sprintf("Discount Comparison for %s", version)
	if seriesEmpty(series, fields) {
		return Placeholder(title)
	}

	traces := make([]Trace, 0, len(fields))
	for _, f := range fields {
		s := series[f]
		traces = append(traces, Trace{
			Type:   TraceBar,
			Name:   string(f),
			X:      dates(s),
			Y:      points(s),
			Marker: &Marker{Color: PlatformColors[f.Platform()]},
		})
	}

	layout := darkLayout(title, "Date", discountAxis)
	layout.ShowLegend = true
	layout.BarMode = "group"
	return Figure{Data: traces, Layout: layout}
}

func seriesEmpty(series map[domain.Field]domain.Series, fields []domain.Field) bool {
	for _, f := range fields {
		if len(series[f]) > 0 {
			return false
		}
	}
	return true
}
