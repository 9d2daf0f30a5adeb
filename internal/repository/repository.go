package repository

import (
	"context"

	"heavysync/internal/model"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	Count(ctx context.Context) (int64, error)
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	// ExistsByEmail ignores the supplier with excludeID (uuid.Nil to check all).
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	FindAll(ctx context.Context) ([]model.Part, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindByCategory(ctx context.Context, categoryID string) ([]model.Part, error)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, part *model.Part) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedBy string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PurchaseOrderRepository interface {
	// Create writes the order and its items in one transaction.
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindAll(ctx context.Context) ([]model.PurchaseOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	// Update saves the order; when replaceItems is set the stored items are
	// replaced by po.Items in the same transaction.
	Update(ctx context.Context, po *model.PurchaseOrder, replaceItems bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuotationRepository interface {
	Create(ctx context.Context, q *model.Quotation) error
	FindAll(ctx context.Context) ([]model.Quotation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuotationStatus, updatedBy string) error
	UpdateQuote(ctx context.Context, quote *model.QuotationSupplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store groups the repositories the services depend on.
type Store struct {
	Users          UserRepository
	Suppliers      SupplierRepository
	Parts          PartRepository
	PurchaseOrders PurchaseOrderRepository
	Quotations     QuotationRepository
}
