package report

import (
	"testing"

	"heavysync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateSupplierCodes(t *testing.T) {
	suppliers := []model.Supplier{
		{Code: "S-1"}, {Code: "S-2"}, {Code: ""}, {Code: "S-1"},
		{Code: " "}, {Code: "S-3"}, {Code: "S-2"}, {Code: "S-1"},
	}
	assert.Equal(t, []string{"S-1", "S-2"}, DuplicateSupplierCodes(suppliers))
	assert.Empty(t, DuplicateSupplierCodes(nil))
}

func TestLowStockParts(t *testing.T) {
	parts := []model.Part{
		{Code: "A", Quantity: 0, MinimumStock: 0},
		{Code: "B", Quantity: 10, MinimumStock: 2},
		{Code: "C", Quantity: 1, MinimumStock: 2},
	}
	low := LowStockParts(parts)
	require.Len(t, low, 2)
	assert.Equal(t, "A", low[0].Code)
	assert.Equal(t, "C", low[1].Code)
	assert.NotNil(t, LowStockParts(nil))
}

func TestPurchaseOrderStatusCounts(t *testing.T) {
	orders := []model.PurchaseOrder{
		{Status: model.POStatusPending},
		{Status: model.POStatusPending},
		{Status: model.POStatusReceived},
	}
	counts := PurchaseOrderStatusCounts(orders)
	assert.Equal(t, map[model.PurchaseOrderStatus]int{
		model.POStatusPending:   2,
		model.POStatusApproved:  0,
		model.POStatusReceived:  1,
		model.POStatusCancelled: 0,
	}, counts)
}

func TestOpenPurchaseOrderValue(t *testing.T) {
	orders := []model.PurchaseOrder{
		{Status: model.POStatusPending, TotalAmount: 0.1},
		{Status: model.POStatusApproved, TotalAmount: 0.2},
		{Status: model.POStatusReceived, TotalAmount: 100},
		{Status: model.POStatusCancelled, TotalAmount: 50},
	}
	assert.Equal(t, 0.3, OpenPurchaseOrderValue(orders))
}

func TestCompareQuotes(t *testing.T) {
	price := func(v float64) *float64 { return &v }
	days := func(v int) *int { return &v }
	cheap, fast, rejected, silent := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	q := &model.Quotation{
		Quantity: 4,
		Suppliers: []model.QuotationSupplier{
			{SupplierID: silent, Status: model.QuotePending},
			{SupplierID: rejected, QuotedPrice: price(1), Status: model.QuoteRejected},
			{SupplierID: cheap, QuotedPrice: price(10), DeliveryDays: days(9), Status: model.QuoteQuoted},
			{SupplierID: fast, QuotedPrice: price(10), DeliveryDays: days(2), Status: model.QuoteQuoted, SupplierName: "Fast"},
		},
	}

	cmp := CompareQuotes(q)
	require.Len(t, cmp.Quotes, 4)
	assert.Equal(t, fast, cmp.Quotes[0].SupplierID)
	assert.Equal(t, cheap, cmp.Quotes[1].SupplierID)
	assert.Equal(t, 1, cmp.Quotes[0].Rank)
	assert.Equal(t, 4, cmp.Quotes[3].Rank)

	require.NotNil(t, cmp.Best)
	assert.Equal(t, "Fast", cmp.Best.SupplierName)
	require.NotNil(t, cmp.Best.TotalCost)
	assert.Equal(t, 40.0, *cmp.Best.TotalCost)

	assert.Equal(t, silent, cmp.Quotes[2].SupplierID)
	assert.Nil(t, cmp.Quotes[2].TotalCost)
	assert.Equal(t, rejected, cmp.Quotes[3].SupplierID)
}

func TestCompareQuotesWithoutPrices(t *testing.T) {
	q := &model.Quotation{Quantity: 1, Suppliers: []model.QuotationSupplier{{SupplierID: uuid.New()}}}
	cmp := CompareQuotes(q)
	assert.Nil(t, cmp.Best)
	assert.Len(t, cmp.Quotes, 1)
}
