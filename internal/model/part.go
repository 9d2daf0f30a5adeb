package model

import "github.com/google/uuid"

// Part is an inventory item. Code is the unique part identifier ("partId").
type Part struct {
	BaseModel
	Code         string  `gorm:"column:part_code;type:varchar(50);uniqueIndex;not null" json:"partId"`
	Name         string  `gorm:"type:varchar(100);not null" json:"name"`
	Description  string  `gorm:"type:varchar(1000);not null" json:"description"`
	PartNumber   string  `gorm:"type:varchar(100);not null;index" json:"partNumber"`
	Quantity     int     `gorm:"not null;default:0" json:"quantity"`
	MinimumStock int     `gorm:"not null;default:0" json:"minimumStock"`
	UnitPrice    float64 `gorm:"type:numeric(12,2);not null;default:0" json:"unitPrice"`
	Location     string  `gorm:"type:varchar(255);not null" json:"location"`
	CategoryID   string  `gorm:"type:varchar(100);not null;index" json:"categoryId"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplierId,omitempty"`
	Supplier   *Supplier  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"supplier,omitempty"`
}

// IsLowStock reports whether the part has reached its reorder level.
func (p *Part) IsLowStock() bool {
	return p.Quantity <= p.MinimumStock
}
