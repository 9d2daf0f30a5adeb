package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("Secret1"))

	assert.NotEqual(t, "Secret1", u.Password)
	assert.True(t, u.CheckPassword("Secret1"))
	assert.False(t, u.CheckPassword("secret1"))
}

func TestUserResponseHidesPassword(t *testing.T) {
	u := &User{Username: "john", Email: "j@x.io", Role: RoleUser}
	require.NoError(t, u.SetPassword("Secret1"))

	resp := u.ToResponse()
	assert.Equal(t, "john", resp.Username)
	assert.Equal(t, RoleUser, resp.Role)
}

func TestNewPurchaseOrderItemDerivesTotal(t *testing.T) {
	item := NewPurchaseOrderItem("bolt", 3, 0.1, nil)
	assert.Equal(t, 0.3, item.TotalPrice)

	explicit := 5.0
	item = NewPurchaseOrderItem("nut", 3, 2, &explicit)
	assert.Equal(t, 5.0, item.TotalPrice)
}

func TestSetItemsRecomputesTotal(t *testing.T) {
	po := &PurchaseOrder{BaseModel: BaseModel{ID: uuid.New()}, TotalAmount: 999}
	po.SetItems([]PurchaseOrderItem{
		NewPurchaseOrderItem("a", 1, 0.1, nil),
		NewPurchaseOrderItem("b", 2, 0.1, nil),
	})

	assert.Equal(t, 0.3, po.TotalAmount)
	assert.Equal(t, 1, po.Items[1].Position)
	assert.Equal(t, po.ID, po.Items[0].PurchaseOrderID)
}

func TestPurchaseOrderResponse(t *testing.T) {
	supplierID := uuid.New()
	po := &PurchaseOrder{SupplierID: supplierID, Status: POStatusPending}

	resp := po.ToResponse()
	assert.Equal(t, supplierID, resp.Supplier.ID)
	assert.NotNil(t, resp.Items)

	po.Supplier = &Supplier{BaseModel: BaseModel{ID: supplierID}, Name: "Acme", ContactEmail: "a@acme.io"}
	resp = po.ToResponse()
	assert.Equal(t, "Acme", resp.Supplier.Name)
	assert.Equal(t, "a@acme.io", resp.Supplier.ContactEmail)
}

func TestStatuses(t *testing.T) {
	assert.True(t, POStatusReceived.Valid())
	assert.False(t, PurchaseOrderStatus("Shipped").Valid())
	assert.True(t, POStatusApproved.IsOpen())
	assert.False(t, POStatusCancelled.IsOpen())

	assert.True(t, QuotationClosed.Valid())
	assert.False(t, QuoteStatus("Maybe").Valid())
}

func TestPartLowStock(t *testing.T) {
	assert.True(t, (&Part{Quantity: 5, MinimumStock: 5}).IsLowStock())
	assert.False(t, (&Part{Quantity: 6, MinimumStock: 5}).IsLowStock())
}

func TestQuotationQuote(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	q := &Quotation{Suppliers: []QuotationSupplier{{SupplierID: a}, {SupplierID: b}}}

	quote, ok := q.Quote(b)
	require.True(t, ok)
	quote.Status = QuoteAccepted
	assert.Equal(t, QuoteAccepted, q.Suppliers[1].Status)

	_, ok = q.Quote(uuid.New())
	assert.False(t, ok)
}
