package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

func subsetOf(prices ...*float64) Subset {
	out := make(Subset, len(prices))
	for i, p := range prices {
		out[i] = domain.ProductRecord{Date: day(i + 1), ProductName: "Vivo T3", PriceAmazon: p}
	}
	return out
}

func values(s domain.Series) []*float64 {
	out := make([]*float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

func TestRollingMean(t *testing.T) {
	tests := []struct {
		name   string
		subset Subset
		window int
		want   []*float64
	}{
		{
			name:   "window of three",
			subset: subsetOf(price(10), price(20), price(30), price(40)),
			window: 3,
			want:   []*float64{nil, nil, price(20), price(30)},
		},
		{
			name:   "window of one is identity",
			subset: subsetOf(price(10), price(20)),
			window: 1,
			want:   []*float64{price(10), price(20)},
		},
		{
			name:   "window longer than subset",
			subset: subsetOf(price(10), price(20)),
			window: 3,
			want:   []*float64{nil, nil},
		},
		{
			name:   "absent value poisons every window containing it",
			subset: subsetOf(price(10), nil, price(30), price(40), price(50)),
			window: 2,
			want:   []*float64{nil, nil, nil, price(35), price(45)},
		},
		{
			name:   "empty subset",
			subset: Subset{},
			window: 3,
			want:   []*float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RollingMean(tt.subset, domain.FieldPriceAmazon, tt.window)
			require.NoError(t, err)
			require.Len(t, got, len(tt.subset))
			assert.Equal(t, tt.want, values(got))
			for i := range got {
				assert.Equal(t, tt.subset[i].Date, got[i].Date)
			}
		})
	}
}

func TestRollingMean_InvalidWindow(t *testing.T) {
	for _, w := range []int{0, -1} {
		got, err := RollingMean(subsetOf(price(1)), domain.FieldPriceAmazon, w)
		require.Error(t, err)
		assert.Nil(t, got)

		var windowErr *InvalidWindowError
		require.True(t, errors.As(err, &windowErr))
		assert.Equal(t, w, windowErr.Window)
		assert.True(t, errors.Is(err, ErrInvalidWindow))
	}
}

func TestRollingMean_UsesRecordOrderNotDateOrder(t *testing.T) {
	subset := Subset{
		{Date: day(3), PriceAmazon: price(30)},
		{Date: day(1), PriceAmazon: price(10)},
		{Date: day(2), PriceAmazon: price(50)},
	}

	got, err := RollingMean(subset, domain.FieldPriceAmazon, 2)
	require.NoError(t, err)
	assert.Equal(t, []*float64{nil, price(20), price(30)}, values(got))
}

func TestComparisonSeries(t *testing.T) {
	subset := Subset{
		{Date: day(1), PriceAmazon: price(100), PriceFlipkart: price(95)},
		{Date: day(2), PriceAmazon: price(105), PriceFlipkart: price(99)},
	}

	got := ComparisonSeries(subset, domain.PriceFields())
	require.Len(t, got, 3)

	assert.Equal(t, []*float64{price(100), price(105)}, values(got[domain.FieldPriceAmazon]))
	assert.Equal(t, []*float64{price(95), price(99)}, values(got[domain.FieldPriceFlipkart]))

	jiomart, ok := got[domain.FieldPriceJiomart]
	require.True(t, ok, "all-absent field still present")
	assert.Equal(t, []*float64{nil, nil}, values(jiomart))
	assert.Equal(t, day(2), jiomart[1].Date)
}

func TestComparisonSeries_Discounts(t *testing.T) {
	subset := Subset{{Date: day(1), DiscountAmazon: 10, DiscountJiomart: 0}}

	got := ComparisonSeries(subset, domain.DiscountFields())
	assert.Equal(t, []*float64{price(10)}, values(got[domain.FieldDiscountAmazon]))
	assert.Equal(t, []*float64{price(0)}, values(got[domain.FieldDiscountJiomart]))
}

func TestComparisonSeries_EmptySubset(t *testing.T) {
	got := ComparisonSeries(Subset{}, domain.PriceFields())
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Empty(t, s)
	}
}

func TestDescribe(t *testing.T) {
	subset := subsetOf(price(40), price(10), nil, price(30), price(20))

	d := Describe(subset, domain.FieldPriceAmazon)
	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 10.0, d.Min)
	assert.Equal(t, 40.0, d.Max)
	assert.Equal(t, 25.0, d.Mean)
	assert.Equal(t, 25.0, d.Median)
	assert.InDelta(t, 17.5, d.Q1, 1e-9)
	assert.InDelta(t, 32.5, d.Q3, 1e-9)

	empty := Describe(subset, domain.FieldPriceJiomart)
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, domain.FieldPriceJiomart, empty.Field)
}
