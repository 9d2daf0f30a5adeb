package repository

import (
	"heavysync/internal/model"

	"gorm.io/gorm"
)

// NewStore wires the gorm-backed repositories.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:          NewUserRepo(db),
		Suppliers:      NewSupplierRepo(db),
		Parts:          NewPartRepo(db),
		PurchaseOrders: NewPurchaseOrderRepo(db),
		Quotations:     NewQuotationRepo(db),
	}
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Supplier{},
		&model.Part{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Quotation{},
		&model.QuotationSupplier{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
