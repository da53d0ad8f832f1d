package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// MockBroadcaster is a mock for the Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(messageType string, data interface{}) {
	m.Called(messageType, data)
}

// staticSource serves a fixed dataset
type staticSource struct {
	ds *dataprocessing.Dataset
}

func (s staticSource) Current() *dataprocessing.Dataset { return s.ds }

var productColumns = []string{
	domain.ColumnDate, domain.ColumnProductName,
	string(domain.FieldPriceAmazon), string(domain.FieldPriceFlipkart), string(domain.FieldPriceJiomart),
	string(domain.FieldDiscountAmazon), string(domain.FieldDiscountFlipkart), string(domain.FieldDiscountJiomart),
}

func f(v float64) *float64 { return &v }

func raw(day int, name string, amazon, flipkart, jiomart *float64, discount float64) dataprocessing.RawRecord {
	return dataprocessing.RawRecord{
		Date:           time.Date(2024, 8, day, 0, 0, 0, 0, time.UTC),
		ProductName:    name,
		PriceAmazon:    amazon,
		PriceFlipkart:  flipkart,
		PriceJiomart:   jiomart,
		DiscountAmazon: f(discount),
	}
}

func buildDataset(t *testing.T, extra ...dataprocessing.RawRecord) *dataprocessing.Dataset {
	t.Helper()
	vivo := append([]dataprocessing.RawRecord{
		raw(1, "Vivo T3", f(10), f(11), nil, 12.7),
		raw(2, "Vivo T3", f(20), f(21), nil, 10),
		raw(3, "Vivo T3", f(30), f(31), nil, 8),
		raw(4, "Vivo T3", f(40), f(41), nil, 5),
	}, extra...)

	ds, err := dataprocessing.Unify([]dataprocessing.TaggedTable{
		{
			Table:   dataprocessing.RawTable{Name: "vivo", Columns: productColumns, Records: vivo},
			Type:    domain.TypeMobile,
			Company: "Vivo",
		},
		{
			Table: dataprocessing.RawTable{Name: "boat", Columns: productColumns, Records: []dataprocessing.RawRecord{
				raw(1, "Rockerz 450", f(1499), f(1399), f(1450), 60),
			}},
			Type:    domain.TypeHeadphones,
			Company: "boAt",
		},
	})
	require.NoError(t, err)
	return ds
}
