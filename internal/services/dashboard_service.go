package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/charts"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/pages"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// DatasetSource yields the currently published dataset
type DatasetSource interface {
	Current() *dataprocessing.Dataset
}

// DashboardOptions are the view defaults taken from configuration
type DashboardOptions struct {
	DefaultType   domain.ProductType
	RollingWindow int
	PageSize      int
}

// DashboardService builds page views and data queries over the current
// dataset
type DashboardService struct {
	datasets DatasetSource
	pages    *pages.Registry
	opts     DashboardOptions
	metrics  *infrastructure.DashboardMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates the service. Zero options fall back to a
// Mobile default type, a window of 3 and 10 rows per preview page.
func NewDashboardService(datasets DatasetSource, registry *pages.Registry, opts DashboardOptions, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = pages.Default()
	}
	if !opts.DefaultType.Valid() {
		opts.DefaultType = domain.TypeMobile
	}
	if opts.RollingWindow <= 0 {
		opts.RollingWindow = 3
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &DashboardService{
		datasets: datasets,
		pages:    registry,
		opts:     opts,
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.MeterName + "/services"),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// PageView is everything a page needs to render
type PageView struct {
	Page          pages.Page                 `json:"page"`
	Fingerprint   string                     `json:"fingerprint"`
	Filters       *dataprocessing.Resolution `json:"filters,omitempty"`
	Stage         string                     `json:"stage,omitempty"`
	Figures       map[string]charts.Figure   `json:"figures"`
	Distributions []domain.Distribution      `json:"distributions,omitempty"`
	Introduction  *Introduction              `json:"introduction,omitempty"`
	Preview       *DatasetPreview            `json:"preview,omitempty"`
}

// Introduction is the body of the introduction page
type Introduction struct {
	Text     string   `json:"text"`
	Features []string `json:"features"`
}

// PreviewRow is one formatted row of the dataset preview
type PreviewRow struct {
	Date             string   `json:"Date"`
	ProductName      string   `json:"Product Name"`
	PriceAmazon      *float64 `json:"Price On Amazon"`
	PriceFlipkart    *float64 `json:"Price On Flipkart"`
	PriceJiomart     *float64 `json:"Price On Jiomart"`
	DiscountAmazon   string   `json:"Discount On Amazon"`
	DiscountFlipkart string   `json:"Discount On Flipkart"`
	DiscountJiomart  string   `json:"Discount On Jiomart"`
	Type             string   `json:"Type"`
	Company          string   `json:"Company"`
}

// DatasetPreview is one page of the formatted dataset
type DatasetPreview struct {
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	TotalRecords int          `json:"total_records"`
	TotalPages   int          `json:"total_pages"`
	Columns      []string     `json:"columns"`
	Rows         []PreviewRow `json:"rows"`
}

// RollingResult is a rolling mean over one field of a version's records
type RollingResult struct {
	Version string        `json:"version"`
	Field   domain.Field  `json:"field"`
	Window  int           `json:"window"`
	Series  domain.Series `json:"series"`
}

// ComparisonResult holds one series per platform for a metric
type ComparisonResult struct {
	Version string                         `json:"version"`
	Metric  domain.Metric                  `json:"metric"`
	Fields  []domain.Field                 `json:"fields"`
	Series  map[domain.Field]domain.Series `json:"series"`
}

// ParseSelection validates the raw query values of a selection. An empty
// type is allowed and resolved to the default later; an unknown one is
// rejected.
func ParseSelection(productType, company, version string) (domain.Selection, error) {
	sel := domain.Selection{
		Company: strings.TrimSpace(company),
		Version: strings.TrimSpace(version),
	}
	if strings.TrimSpace(productType) == "" {
		return sel, nil
	}
	t, ok := domain.ParseProductType(productType)
	if !ok {
		return sel, fmt.Errorf("%w: %q", ErrInvalidType, productType)
	}
	sel.Type = t
	return sel, nil
}

func (s *DashboardService) dataset() (*dataprocessing.Dataset, error) {
	ds := s.datasets.Current()
	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds, nil
}

// Pages lists the dashboard pages in menu order
func (s *DashboardService) Pages() []pages.Page {
	return s.pages.List()
}

// Fingerprint identifies the current dataset, empty before the first load
func (s *DashboardService) Fingerprint() string {
	return s.datasets.Current().Fingerprint()
}

// Types lists the product types in menu order
func (s *DashboardService) Types() []domain.ProductType {
	return domain.ProductTypes()
}

// Companies lists the companies selling productType
func (s *DashboardService) Companies(ctx context.Context, productType string) ([]string, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	sel, err := ParseSelection(productType, "", "")
	if err != nil {
		return nil, err
	}
	return dataprocessing.ListCompanies(ds, sel.Type), nil
}

// Versions lists the product names sold by company
func (s *DashboardService) Versions(ctx context.Context, company string) ([]string, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return dataprocessing.ListVersions(ds, strings.TrimSpace(company)), nil
}

// Records returns the records of version in dataset order
func (s *DashboardService) Records(ctx context.Context, version string) (dataprocessing.Subset, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return dataprocessing.FilterByVersion(ds, strings.TrimSpace(version)), nil
}

// Rolling computes the rolling mean of field over version's records
func (s *DashboardService) Rolling(ctx context.Context, version, field string, window int) (*RollingResult, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	f, ok := domain.ParseField(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	subset := dataprocessing.FilterByVersion(ds, strings.TrimSpace(version))
	series, err := dataprocessing.RollingMean(subset, f, window)
	if err != nil {
		return nil, err
	}
	return &RollingResult{Version: version, Field: f, Window: window, Series: series}, nil
}

// DefaultWindow is the configured rolling window
func (s *DashboardService) DefaultWindow() int {
	return s.opts.RollingWindow
}

// Comparison returns one series per platform for metric over version's
// records
func (s *DashboardService) Comparison(ctx context.Context, version, metric string) (*ComparisonResult, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}

	var m domain.Metric
	switch domain.Metric(strings.ToLower(strings.TrimSpace(metric))) {
	case "", domain.MetricPrice:
		m = domain.MetricPrice
	case domain.MetricDiscount:
		m = domain.MetricDiscount
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, metric)
	}

	fields := domain.FieldsFor(m)
	subset := dataprocessing.FilterByVersion(ds, strings.TrimSpace(version))
	return &ComparisonResult{
		Version: version,
		Metric:  m,
		Fields:  fields,
		Series:  dataprocessing.ComparisonSeries(subset, fields),
	}, nil
}

// Preview returns one page of the formatted dataset. Pages are numbered
// from 1; a page past the end is empty.
func (s *DashboardService) Preview(ctx context.Context, page, pageSize int) (*DatasetPreview, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	if pageSize <= 0 {
		pageSize = s.opts.PageSize
	}

	total := ds.Len()
	records := []domain.ProductRecord{}
	if page-1 <= total/pageSize {
		records = ds.Page((page-1)*pageSize, pageSize)
	}
	rows := make([]PreviewRow, len(records))
	for i, r := range records {
		rows[i] = previewRow(r)
	}

	return &DatasetPreview{
		Page:         page,
		PageSize:     pageSize,
		TotalRecords: total,
		TotalPages:   (total + pageSize - 1) / pageSize,
		Columns:      exporter.Columns(),
		Rows:         rows,
	}, nil
}

func previewRow(r domain.ProductRecord) PreviewRow {
	return PreviewRow{
		Date:             exporter.FormatDate(r.Date),
		ProductName:      r.ProductName,
		PriceAmazon:      r.PriceAmazon,
		PriceFlipkart:    r.PriceFlipkart,
		PriceJiomart:     r.PriceJiomart,
		DiscountAmazon:   exporter.FormatDiscount(r.DiscountAmazon),
		DiscountFlipkart: exporter.FormatDiscount(r.DiscountFlipkart),
		DiscountJiomart:  exporter.FormatDiscount(r.DiscountJiomart),
		Type:             string(r.Type),
		Company:          r.Company,
	}
}

// Export writes the whole dataset to w in format
func (s *DashboardService) Export(ctx context.Context, w io.Writer, format exporter.Format) error {
	ds, err := s.dataset()
	if err != nil {
		return err
	}
	return exporter.Write(w, format, ds.Records())
}

// View builds the view of pageID for sel. Invalid stages of sel are
// cleared rather than rejected; an unselected version yields placeholder
// figures.
func (s *DashboardService) View(ctx context.Context, pageID string, sel domain.Selection) (*PageView, error) {
	page, ok := s.pages.Get(pageID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
	}
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.view",
		trace.WithAttributes(attribute.String("page", page.ID)))
	defer span.End()

	view := &PageView{
		Page:        page,
		Fingerprint: ds.Fingerprint(),
		Figures:     map[string]charts.Figure{},
	}

	switch page.Kind {
	case pages.KindIntroduction:
		view.Introduction = &Introduction{Text: pages.Introduction, Features: pages.Features()}

	case pages.KindDataset:
		preview, err := s.Preview(ctx, 1, s.opts.PageSize)
		if err != nil {
			return nil, err
		}
		view.Preview = preview

	default:
		res := dataprocessing.Resolve(ds, sel, s.opts.DefaultType)
		view.Filters = &res
		view.Stage = res.Selection.Stage().String()
		if err := s.bindFigures(view, res); err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("stage", view.Stage))
	}

	s.metrics.RecordPageView(ctx, page.ID)
	s.logger.DebugContext(ctx, "page view built",
		slog.String("page", page.ID),
		slog.String("stage", view.Stage),
		slog.Int("figures", len(view.Figures)))
	return view, nil
}

func (s *DashboardService) bindFigures(view *PageView, res dataprocessing.Resolution) error {
	version := res.Selection.Version
	subset := res.Subset

	switch view.Page.Kind {
	case pages.KindPriceComparison, pages.KindDiscountComparison:
		metric := domain.MetricPrice
		if view.Page.Kind == pages.KindDiscountComparison {
			metric = domain.MetricDiscount
		}
		fields := domain.FieldsFor(metric)
		series := dataprocessing.ComparisonSeries(subset, fields)

		if metric == domain.MetricPrice {
			view.Figures[pages.PanelComparison] = charts.ComparisonLine(version, series, fields)
		} else {
			view.Figures[pages.PanelBar] = charts.DiscountBar(version, series, fields)
		}
		view.Figures[pages.PanelDistribution] = charts.DistributionBox(version, metric, series, fields)
		view.Distributions = describeAll(subset, fields)

	case pages.KindPlatformAnalytics:
		p := view.Page.Platform
		field := domain.PriceField(p)
		series := dataprocessing.FieldSeries(subset, field)
		rolling, err := dataprocessing.RollingMean(subset, field, s.opts.RollingWindow)
		if err != nil {
			return err
		}

		view.Figures[pages.PanelLine] = charts.PriceLine(p, series)
		view.Figures[pages.PanelHistogram] = charts.PriceHistogram(p, series)
		view.Figures[pages.PanelBox] = charts.PriceBox(p, series)
		view.Figures[pages.PanelRolling] = charts.RollingLine(p, rolling, s.opts.RollingWindow)
		view.Distributions = describeAll(subset, []domain.Field{field})
	}
	return nil
}

func describeAll(subset dataprocessing.Subset, fields []domain.Field) []domain.Distribution {
	if len(subset) == 0 {
		return nil
	}
	out := make([]domain.Distribution, len(fields))
	for i, f := range fields {
		out[i] = dataprocessing.Describe(subset, f)
	}
	return out
}
