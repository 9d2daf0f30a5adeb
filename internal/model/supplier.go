package model

import "github.com/google/uuid"

// Supplier is a vendor that purchase orders and quotations are placed with.
// Code is the optional human-facing identifier ("supplierId" on the wire).
type Supplier struct {
	BaseModel
	Code         string `gorm:"column:supplier_code;type:varchar(50);index" json:"supplierId,omitempty"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	ContactEmail string `gorm:"type:varchar(255);uniqueIndex;not null" json:"contactEmail"`
	ContactPhone string `gorm:"type:varchar(20);not null" json:"contactPhone"`
	Address      string `gorm:"type:varchar(500);not null" json:"address"`
}

// SupplierRef is the reduced supplier shape embedded in purchase orders.
type SupplierRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
}

func (s *Supplier) Ref() SupplierRef {
	return SupplierRef{
		ID:           s.ID,
		Name:         s.Name,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
	}
}
