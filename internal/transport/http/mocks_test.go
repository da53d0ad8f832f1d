package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	appmw "github.com/komalvinayak/Ecommerce-Analysis/internal/middleware"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/pages"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/shared/testutil"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Pages() []pages.Page {
	args := m.Called()
	return args.Get(0).([]pages.Page)
}

func (m *MockDashboardService) Fingerprint() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDashboardService) Types() []domain.ProductType {
	args := m.Called()
	return args.Get(0).([]domain.ProductType)
}

func (m *MockDashboardService) Companies(ctx context.Context, productType string) ([]string, error) {
	args := m.Called(productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDashboardService) Versions(ctx context.Context, company string) ([]string, error) {
	args := m.Called(company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDashboardService) Records(ctx context.Context, version string) (dataprocessing.Subset, error) {
	args := m.Called(version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dataprocessing.Subset), args.Error(1)
}

func (m *MockDashboardService) Rolling(ctx context.Context, version, field string, window int) (*services.RollingResult, error) {
	args := m.Called(version, field, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RollingResult), args.Error(1)
}

func (m *MockDashboardService) DefaultWindow() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockDashboardService) Comparison(ctx context.Context, version, metric string) (*services.ComparisonResult, error) {
	args := m.Called(version, metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ComparisonResult), args.Error(1)
}

func (m *MockDashboardService) Preview(ctx context.Context, page, pageSize int) (*services.DatasetPreview, error) {
	args := m.Called(page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DatasetPreview), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, w io.Writer, format exporter.Format) error {
	args := m.Called(w, format)
	return args.Error(0)
}

func (m *MockDashboardService) View(ctx context.Context, pageID string, sel domain.Selection) (*services.PageView, error) {
	args := m.Called(pageID, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PageView), args.Error(1)
}

// MockDatasetService is a mock implementation of DatasetServiceInterface
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Reload(ctx context.Context) (*dataprocessing.Dataset, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataprocessing.Dataset), args.Error(1)
}

func (m *MockDatasetService) Status() services.DatasetStatus {
	args := m.Called()
	return args.Get(0).(services.DatasetStatus)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func testLogger(t *testing.T) *slog.Logger {
	logger, _ := testutil.NewTestLogger(t)
	return logger
}

func newDashboardRouter(t *testing.T, svc DashboardServiceInterface) http.Handler {
	logger := testLogger(t)
	h := NewDashboardHandler(svc, appmw.NewValidator(), logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api", h.Routes())
	return r
}

func newDatasetRouter(t *testing.T, dash DashboardServiceInterface, ds DatasetServiceInterface) http.Handler {
	logger := testLogger(t)
	h := NewDatasetHandler(dash, ds, appmw.NewValidator(), 10, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/dataset", h.Routes())
	return r
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func f(v float64) *float64 { return &v }
