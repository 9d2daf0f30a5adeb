// Package repotest holds behaviour checks shared by every repository
// implementation.
package repotest

import (
	"context"
	"testing"

	"heavysync/internal/model"
	"heavysync/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a store produced by newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) *repository.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("suppliers", func(t *testing.T) { testSuppliers(t, newStore(t)) })
	t.Run("parts", func(t *testing.T) { testParts(t, newStore(t)) })
	t.Run("purchase orders", func(t *testing.T) { testPurchaseOrders(t, newStore(t)) })
	t.Run("quotations", func(t *testing.T) { testQuotations(t, newStore(t)) })
}

func NewSupplier(email string) *model.Supplier {
	return &model.Supplier{
		Name:         "Acme Heavy",
		ContactEmail: email,
		ContactPhone: "0771234567",
		Address:      "12 Dock Road",
	}
}

func testUsers(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	u := &model.User{FullName: "Jane Doe", Username: "jane", Email: "jane@x.io", Password: "hash", Role: model.RoleUser}
	require.NoError(t, store.Users.Create(ctx, u))
	require.NotEqual(t, uuid.Nil, u.ID)

	dup := &model.User{FullName: "Other", Username: "jane", Email: "other@x.io", Password: "hash", Role: model.RoleUser}
	assert.ErrorIs(t, store.Users.Create(ctx, dup), repository.ErrDuplicate)

	exists, err := store.Users.ExistsByUsernameOrEmail(ctx, "nobody", "jane@x.io")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := store.Users.FindByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	require.NoError(t, store.Users.UpdatePassword(ctx, u.ID, "hash2"))
	found, err = store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash2", found.Password)

	_, err = store.Users.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	count, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func testSuppliers(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	s := NewSupplier("sales@acme.io")
	require.NoError(t, store.Suppliers.Create(ctx, s))
	assert.ErrorIs(t, store.Suppliers.Create(ctx, NewSupplier("sales@acme.io")), repository.ErrDuplicate)

	taken, err := store.Suppliers.ExistsByEmail(ctx, "sales@acme.io", s.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	s.Name = "Acme Heavy Ltd"
	require.NoError(t, store.Suppliers.Update(ctx, s))
	got, err := store.Suppliers.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Heavy Ltd", got.Name)

	po := &model.PurchaseOrder{SupplierID: s.ID, Status: model.POStatusPending}
	po.Items = []model.PurchaseOrderItem{model.NewPurchaseOrderItem("bolt", 1, 1, nil)}
	require.NoError(t, store.PurchaseOrders.Create(ctx, po))
	assert.ErrorIs(t, store.Suppliers.Delete(ctx, s.ID), repository.ErrReferenced)

	require.NoError(t, store.PurchaseOrders.Delete(ctx, po.ID))
	require.NoError(t, store.Suppliers.Delete(ctx, s.ID))
	assert.ErrorIs(t, store.Suppliers.Delete(ctx, s.ID), repository.ErrNotFound)

	all, err := store.Suppliers.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testParts(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	s := NewSupplier("parts@acme.io")
	require.NoError(t, store.Suppliers.Create(ctx, s))

	p := &model.Part{
		Code: "P-100", Name: "Hydraulic pump", Description: "Main pump", PartNumber: "HP-1",
		Quantity: 2, MinimumStock: 5, UnitPrice: 120.5, Location: "A1", CategoryID: "hydraulics",
		SupplierID: &s.ID,
	}
	require.NoError(t, store.Parts.Create(ctx, p))

	dup := *p
	dup.ID = uuid.Nil
	assert.ErrorIs(t, store.Parts.Create(ctx, &dup), repository.ErrDuplicate)

	ghost := uuid.New()
	orphan := &model.Part{Code: "P-200", Name: "Seal", Description: "O-ring", PartNumber: "S-1",
		Location: "B1", CategoryID: "seals", SupplierID: &ghost}
	assert.ErrorIs(t, store.Parts.Create(ctx, orphan), repository.ErrReferenced)

	got, err := store.Parts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, s.Name, got.Supplier.Name)

	byCat, err := store.Parts.FindByCategory(ctx, "hydraulics")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	require.NoError(t, store.Parts.UpdateQuantity(ctx, p.ID, 9, "tester"))
	got, err = store.Parts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Quantity)

	assert.ErrorIs(t, store.Parts.UpdateQuantity(ctx, uuid.New(), 1, "tester"), repository.ErrNotFound)
	require.NoError(t, store.Parts.Delete(ctx, p.ID))
	assert.ErrorIs(t, store.Parts.Delete(ctx, p.ID), repository.ErrNotFound)
}

func testPurchaseOrders(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	s := NewSupplier("po@acme.io")
	require.NoError(t, store.Suppliers.Create(ctx, s))

	po := &model.PurchaseOrder{SupplierID: s.ID, Status: model.POStatusPending, TotalAmount: 12345}
	po.Items = []model.PurchaseOrderItem{
		model.NewPurchaseOrderItem("bolt", 2, 2.5, nil),
		model.NewPurchaseOrderItem("nut", 10, 0.5, nil),
	}
	require.NoError(t, store.PurchaseOrders.Create(ctx, po))

	got, err := store.PurchaseOrders.FindByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.TotalAmount)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "bolt", got.Items[0].Name)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, "po@acme.io", got.Supplier.ContactEmail)

	got.Items = []model.PurchaseOrderItem{model.NewPurchaseOrderItem("washer", 4, 1, nil)}
	got.Status = model.POStatusApproved
	require.NoError(t, store.PurchaseOrders.Update(ctx, got, true))

	got, err = store.PurchaseOrders.FindByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusApproved, got.Status)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4.0, got.TotalAmount)

	orphan := &model.PurchaseOrder{SupplierID: uuid.New(), Status: model.POStatusPending}
	assert.ErrorIs(t, store.PurchaseOrders.Create(ctx, orphan), repository.ErrReferenced)

	all, err := store.PurchaseOrders.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, store.PurchaseOrders.Delete(ctx, uuid.New()), repository.ErrNotFound)
}

func testQuotations(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	a, b := NewSupplier("a@acme.io"), NewSupplier("b@acme.io")
	require.NoError(t, store.Suppliers.Create(ctx, a))
	require.NoError(t, store.Suppliers.Create(ctx, b))

	p := &model.Part{Code: "P-1", Name: "Gear", Description: "Spur gear", PartNumber: "G-1",
		Location: "C3", CategoryID: "drive"}
	require.NoError(t, store.Parts.Create(ctx, p))

	q := &model.Quotation{
		PartID: p.ID, PartNumber: p.PartNumber, PartName: p.Name, Quantity: 3, Status: model.QuotationOpen,
		Suppliers: []model.QuotationSupplier{
			{SupplierID: a.ID, Status: model.QuotePending},
			{SupplierID: b.ID, Status: model.QuotePending},
		},
	}
	require.NoError(t, store.Quotations.Create(ctx, q))

	price := 99.5
	require.NoError(t, store.Quotations.UpdateQuote(ctx, &model.QuotationSupplier{
		QuotationID: q.ID, SupplierID: b.ID, QuotedPrice: &price, Status: model.QuoteQuoted,
	}))
	assert.ErrorIs(t, store.Quotations.UpdateQuote(ctx, &model.QuotationSupplier{
		QuotationID: q.ID, SupplierID: uuid.New(), Status: model.QuoteQuoted,
	}), repository.ErrNotFound)

	require.NoError(t, store.Quotations.UpdateStatus(ctx, q.ID, model.QuotationClosed, "tester"))

	got, err := store.Quotations.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuotationClosed, got.Status)
	quote, ok := got.Quote(b.ID)
	require.True(t, ok)
	require.NotNil(t, quote.QuotedPrice)
	assert.Equal(t, 99.5, *quote.QuotedPrice)
	assert.Equal(t, "Acme Heavy", quote.SupplierName)

	assert.ErrorIs(t, store.Parts.Delete(ctx, p.ID), repository.ErrReferenced)
	require.NoError(t, store.Quotations.Delete(ctx, q.ID))
	assert.ErrorIs(t, store.Quotations.Delete(ctx, q.ID), repository.ErrNotFound)
}
