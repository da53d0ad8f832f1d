// Package charts binds derived series to Plotly figure descriptions. The
// front-end passes Data and Layout straight to Plotly.newPlot.
package charts

import (
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Trace types understood by the front-end
const (
	TraceScatter   = "scatter"
	TraceHistogram = "histogram"
	TraceBox       = "box"
	TraceBar       = "bar"
)

// Dark theme colours
const (
	backgroundColor = "#111111"
	gridColor       = "#283442"
	fontColor       = "#f2f5fa"
	accentColor     = "#ff5733"
)

// PlatformColors gives each platform a stable colour across figures
var PlatformColors = map[domain.Platform]string{
	domain.PlatformAmazon:   "#636efa",
	domain.PlatformFlipkart: "#ef553b",
	domain.PlatformJiomart:  "#00cc96",
}

// Figure is a Plotly figure
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Empty reports whether the figure has nothing to draw
func (f Figure) Empty() bool {
	return len(f.Data) == 0
}

// Trace is one Plotly trace. X and Y hold strings, numbers or nulls; a null
// y value leaves a gap in line traces.
type Trace struct {
	Type      string  `json:"type"`
	Mode      string  `json:"mode,omitempty"`
	Name      string  `json:"name,omitempty"`
	X         []any   `json:"x,omitempty"`
	Y         []any   `json:"y,omitempty"`
	BoxPoints string  `json:"boxpoints,omitempty"`
	Line      *Line   `json:"line,omitempty"`
	Marker    *Marker `json:"marker,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
}

type Marker struct {
	Color string `json:"color,omitempty"`
}

// Layout is the subset of Plotly layout attributes the dashboard sets
type Layout struct {
	Title        Title  `json:"title"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	ShowLegend   bool   `json:"showlegend"`
	BarMode      string `json:"barmode,omitempty"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
	Font         Font   `json:"font"`
}

type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
}

type Axis struct {
	Title     AxisTitle `json:"title"`
	GridColor string    `json:"gridcolor,omitempty"`
	Type      string    `json:"type,omitempty"`
}

type AxisTitle struct {
	Text string `json:"text,omitempty"`
}

type Font struct {
	Color string `json:"color"`
}

// darkLayout returns the shared layout with a centered title
func darkLayout(title, xTitle, yTitle string) Layout {
	return Layout{
		Title:        Title{Text: title, X: 0.5},
		XAxis:        Axis{Title: AxisTitle{Text: xTitle}, GridColor: gridColor},
		YAxis:        Axis{Title: AxisTitle{Text: yTitle}, GridColor: gridColor},
		PaperBGColor: backgroundColor,
		PlotBGColor:  backgroundColor,
		Font:         Font{Color: fontColor},
	}
}

// Placeholder is the figure shown before a version is selected or when the
// selection has no records
func Placeholder(title string) Figure {
	return Figure{Data: []Trace{}, Layout: darkLayout(title, "", "")}
}

func dates(s domain.Series) []any {
	out := make([]any, len(s))
	for i, p := range s {
		out[i] = p.Date.Format("2006-01-02")
	}
	return out
}

func points(s domain.Series) []any {
	out := make([]any, len(s))
	for i, p := range s {
		if p.Value == nil {
			out[i] = nil
			continue
		}
		out[i] = *p.Value
	}
	return out
}

func present(s domain.Series) []any {
	vals := s.Values()
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
