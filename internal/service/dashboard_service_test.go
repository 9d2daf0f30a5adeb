package service

import (
	"testing"

	"heavysync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	s := f.supplier(t, "a@x.io")
	_, err := f.svc.Parts.Create(f.ctx, partReq("P-1", 0, 3), "jane")
	require.NoError(t, err)
	_, err = f.svc.PurchaseOrders.Create(f.ctx, orderReq(s.ID.String(), item("Bolt", 2, 5)), "jane")
	require.NoError(t, err)
	received := orderReq(s.ID.String(), item("Nut", 1, 100))
	received.Status = ptr("Received")
	_, err = f.svc.PurchaseOrders.Create(f.ctx, received, "jane")
	require.NoError(t, err)

	d, err := f.svc.Dashboard.Summary(f.ctx, "jane")
	require.NoError(t, err)

	assert.Equal(t, "Welcome jane! This is your dashboard.", d.Message)
	assert.Equal(t, 1, d.Stats.Suppliers)
	assert.Equal(t, 1, d.Stats.Parts)
	assert.Equal(t, 1, d.Stats.LowStockParts)
	assert.Equal(t, 2, d.Stats.PurchaseOrders)
	assert.Equal(t, 1, d.Stats.PurchaseOrdersByStatus[model.POStatusPending])
	assert.Equal(t, 1, d.Stats.PurchaseOrdersByStatus[model.POStatusReceived])
	assert.Equal(t, 0, d.Stats.PurchaseOrdersByStatus[model.POStatusCancelled])
	assert.Equal(t, 10.0, d.Stats.OpenPurchaseOrderValue)
	assert.NotNil(t, d.Stats.DuplicateSupplierIDs)
}
