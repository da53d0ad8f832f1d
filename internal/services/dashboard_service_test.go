package services

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/pages"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/shared/testutil"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

func newDashboard(t *testing.T, ds *dataprocessing.Dataset) *DashboardService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewDashboardService(staticSource{ds: ds}, nil, DashboardOptions{}, nil, logger)
}

func TestNewDashboardService_Defaults(t *testing.T) {
	svc := newDashboard(t, nil)
	assert.Equal(t, domain.TypeMobile, svc.opts.DefaultType)
	assert.Equal(t, 3, svc.DefaultWindow())
	assert.Equal(t, 10, svc.opts.PageSize)
	assert.Len(t, svc.Pages(), 7)
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		company string
		version string
		want    domain.Selection
		wantErr bool
	}{
		{name: "empty", want: domain.Selection{}},
		{name: "case insensitive type", typ: "headphones", want: domain.Selection{Type: domain.TypeHeadphones}},
		{name: "trims values", typ: "Mobile", company: " Vivo ", version: "Vivo T3 ",
			want: domain.Selection{Type: domain.TypeMobile, Company: "Vivo", Version: "Vivo T3"}},
		{name: "unknown type", typ: "Laptop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.typ, tt.company, tt.version)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardService_NotLoaded(t *testing.T) {
	svc := newDashboard(t, nil)
	ctx := context.Background()

	_, err := svc.Companies(ctx, "Mobile")
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
	_, err = svc.Preview(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
	_, err = svc.View(ctx, "amazon", domain.Selection{})
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
	assert.Empty(t, svc.Fingerprint())
}

func TestDashboardService_Cascade(t *testing.T) {
	svc := newDashboard(t, buildDataset(t))
	ctx := context.Background()

	companies, err := svc.Companies(ctx, "mobile")
	require.NoError(t, err)
	assert.Equal(t, []string{"Vivo"}, companies)

	_, err = svc.Companies(ctx, "Laptop")
	assert.ErrorIs(t, err, ErrInvalidType)

	versions, err := svc.Versions(ctx, "boAt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rockerz 450"}, versions)

	records, err := svc.Records(ctx, "Vivo T3")
	require.NoError(t, err)
	assert.Len(t, records, 4)

	records, err = svc.Records(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDashboardService_Rolling(t *testing.T) {
	svc := newDashboard(t, buildDataset(t))
	ctx := context.Background()

	res, err := svc.Rolling(ctx, "Vivo T3", string(domain.FieldPriceAmazon), 3)
	require.NoError(t, err)
	require.Len(t, res.Series, 4)
	assert.Nil(t, res.Series[0].Value)
	assert.Nil(t, res.Series[1].Value)
	assert.InDelta(t, 20, *res.Series[2].Value, 1e-9)
	assert.InDelta(t, 30, *res.Series[3].Value, 1e-9)

	_, err = svc.Rolling(ctx, "Vivo T3", "Price On Myntra", 3)
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = svc.Rolling(ctx, "Vivo T3", string(domain.FieldPriceAmazon), 0)
	assert.ErrorIs(t, err, dataprocessing.ErrInvalidWindow)
}

func TestDashboardService_Comparison(t *testing.T) {
	svc := newDashboard(t, buildDataset(t))
	ctx := context.Background()

	res, err := svc.Comparison(ctx, "Vivo T3", "")
	require.NoError(t, err)
	assert.Equal(t, domain.MetricPrice, res.Metric)
	require.Len(t, res.Series, 3)
	jiomart := res.Series[domain.FieldPriceJiomart]
	assert.Len(t, jiomart, 4)
	assert.Zero(t, jiomart.Present())

	res, err = svc.Comparison(ctx, "Vivo T3", "Discount")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldsFor(domain.MetricDiscount), res.Fields)

	_, err = svc.Comparison(ctx, "Vivo T3", "rating")
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestDashboardService_Preview(t *testing.T) {
	svc := newDashboard(t, buildDataset(t))
	ctx := context.Background()

	preview, err := svc.Preview(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, preview.TotalRecords)
	assert.Equal(t, 3, preview.TotalPages)
	assert.Equal(t, exporter.Columns(), preview.Columns)
	require.Len(t, preview.Rows, 2)

	first := preview.Rows[0]
	assert.Equal(t, "01-08-2024", first.Date)
	assert.Equal(t, "12%", first.DiscountAmazon)
	assert.Equal(t, "0%", first.DiscountJiomart)
	assert.Nil(t, first.PriceJiomart)
	assert.Equal(t, "Mobile", first.Type)

	last, err := svc.Preview(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last.Rows, 1)
	assert.Equal(t, "boAt", last.Rows[0].Company)

	past, err := svc.Preview(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, past.Rows)

	huge, err := svc.Preview(ctx, math.MaxInt, 500)
	require.NoError(t, err)
	assert.Empty(t, huge.Rows)
	assert.Equal(t, 5, huge.TotalRecords)

	_, err = svc.Preview(ctx, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestDashboardService_Export(t *testing.T) {
	svc := newDashboard(t, buildDataset(t))

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, exporter.FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "Date,Product Name,"))
}

func TestDashboardService_View(t *testing.T) {
	ds := buildDataset(t)
	svc := newDashboard(t, ds)
	ctx := context.Background()
	full := domain.Selection{Type: domain.TypeMobile, Company: "Vivo", Version: "Vivo T3"}

	t.Run("unknown page", func(t *testing.T) {
		_, err := svc.View(ctx, "reviews", full)
		assert.ErrorIs(t, err, ErrPageNotFound)
	})

	t.Run("introduction", func(t *testing.T) {
		view, err := svc.View(ctx, "introduction", domain.Selection{})
		require.NoError(t, err)
		require.NotNil(t, view.Introduction)
		assert.Equal(t, pages.Introduction, view.Introduction.Text)
		assert.Nil(t, view.Filters)
		assert.Empty(t, view.Figures)
		assert.Equal(t, ds.Fingerprint(), view.Fingerprint)
	})

	t.Run("dataset", func(t *testing.T) {
		view, err := svc.View(ctx, "dataset", domain.Selection{})
		require.NoError(t, err)
		require.NotNil(t, view.Preview)
		assert.Len(t, view.Preview.Rows, 5)
	})

	t.Run("platform analytics with version", func(t *testing.T) {
		view, err := svc.View(ctx, "amazon", full)
		require.NoError(t, err)
		assert.Equal(t, "version_selected", view.Stage)
		for _, panel := range []string{pages.PanelLine, pages.PanelHistogram, pages.PanelBox, pages.PanelRolling} {
			require.Contains(t, view.Figures, panel)
			assert.False(t, view.Figures[panel].Empty(), panel)
		}
		require.Len(t, view.Distributions, 1)
		assert.Equal(t, 4, view.Distributions[0].Count)
	})

	t.Run("platform analytics without version shows placeholders", func(t *testing.T) {
		view, err := svc.View(ctx, "flipkart", domain.Selection{Type: domain.TypeMobile, Company: "Vivo"})
		require.NoError(t, err)
		assert.Equal(t, "company_selected", view.Stage)
		assert.Equal(t, []string{"Vivo T3"}, view.Filters.Versions)
		for _, fig := range view.Figures {
			assert.True(t, fig.Empty())
		}
		assert.Empty(t, view.Distributions)
	})

	t.Run("empty type uses default", func(t *testing.T) {
		view, err := svc.View(ctx, "price-comparison", domain.Selection{})
		require.NoError(t, err)
		assert.Equal(t, domain.TypeMobile, view.Filters.Selection.Type)
		assert.Equal(t, []string{"Vivo"}, view.Filters.Companies)
	})

	t.Run("company outside type is cleared", func(t *testing.T) {
		view, err := svc.View(ctx, "price-comparison",
			domain.Selection{Type: domain.TypeHeadphones, Company: "Vivo", Version: "Vivo T3"})
		require.NoError(t, err)
		assert.Equal(t, "type_selected", view.Stage)
		assert.Empty(t, view.Filters.Selection.Company)
		assert.Empty(t, view.Filters.Selection.Version)
	})

	t.Run("price comparison keeps all-absent platform", func(t *testing.T) {
		view, err := svc.View(ctx, "price-comparison", full)
		require.NoError(t, err)
		line := view.Figures[pages.PanelComparison]
		require.Len(t, line.Data, 3)
		assert.Equal(t, string(domain.FieldPriceJiomart), line.Data[2].Name)
		assert.Contains(t, view.Figures, pages.PanelDistribution)
		assert.Len(t, view.Distributions, 3)
	})

	t.Run("discount comparison", func(t *testing.T) {
		view, err := svc.View(ctx, "discount-comparison", full)
		require.NoError(t, err)
		assert.Contains(t, view.Figures, pages.PanelBar)
		assert.Contains(t, view.Figures, pages.PanelDistribution)
		assert.NotContains(t, view.Figures, pages.PanelComparison)
	})
}
