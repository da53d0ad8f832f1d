package http

import (
	"context"
	"io"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/pages"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard queries used by the
// handlers
type DashboardServiceInterface interface {
	Pages() []pages.Page
	Fingerprint() string
	Types() []domain.ProductType
	Companies(ctx context.Context, productType string) ([]string, error)
	Versions(ctx context.Context, company string) ([]string, error)
	Records(ctx context.Context, version string) (dataprocessing.Subset, error)
	Rolling(ctx context.Context, version, field string, window int) (*services.RollingResult, error)
	DefaultWindow() int
	Comparison(ctx context.Context, version, metric string) (*services.ComparisonResult, error)
	Preview(ctx context.Context, page, pageSize int) (*services.DatasetPreview, error)
	Export(ctx context.Context, w io.Writer, format exporter.Format) error
	View(ctx context.Context, pageID string, sel domain.Selection) (*services.PageView, error)
}

// DatasetServiceInterface defines the dataset lifecycle operations exposed
// over HTTP
type DatasetServiceInterface interface {
	Reload(ctx context.Context) (*dataprocessing.Dataset, error)
	Status() services.DatasetStatus
}

// Compile-time checks
var (
	_ DashboardServiceInterface = (*services.DashboardService)(nil)
	_ DatasetServiceInterface   = (*services.DatasetService)(nil)
)
