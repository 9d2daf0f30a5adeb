package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrderStatus string

const (
	POStatusPending   PurchaseOrderStatus = "Pending"
	POStatusApproved  PurchaseOrderStatus = "Approved"
	POStatusReceived  PurchaseOrderStatus = "Received"
	POStatusCancelled PurchaseOrderStatus = "Cancelled"
)

// PurchaseOrderStatuses lists every status in lifecycle order.
var PurchaseOrderStatuses = []PurchaseOrderStatus{
	POStatusPending, POStatusApproved, POStatusReceived, POStatusCancelled,
}

type PurchaseOrder struct {
	BaseModel
	SupplierID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"-"`
	Supplier    *Supplier           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Items       []PurchaseOrderItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	TotalAmount float64             `gorm:"type:numeric(14,2);not null;default:0" json:"totalAmount"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:Pending" json:"status"`
	Notes       string              `gorm:"type:varchar(500)" json:"notes,omitempty"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position        int       `gorm:"not null;default:0" json:"-"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	UnitPrice       float64   `gorm:"type:numeric(12,2);not null" json:"unitPrice"`
	TotalPrice      float64   `gorm:"type:numeric(14,2);not null" json:"totalPrice"`
}

func (item *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return
}

// NewPurchaseOrderItem builds a line item; a nil totalPrice is derived as
// quantity x unitPrice.
func NewPurchaseOrderItem(name string, quantity int, unitPrice float64, totalPrice *float64) PurchaseOrderItem {
	item := PurchaseOrderItem{Name: name, Quantity: quantity, UnitPrice: unitPrice}
	if totalPrice != nil {
		item.TotalPrice = *totalPrice
	} else {
		item.TotalPrice = decimal.NewFromFloat(unitPrice).
			Mul(decimal.NewFromInt(int64(quantity))).
			Round(2).
			InexactFloat64()
	}
	return item
}

// SetItems replaces the line items and recomputes TotalAmount from them.
func (po *PurchaseOrder) SetItems(items []PurchaseOrderItem) {
	for i := range items {
		items[i].Position = i
		items[i].PurchaseOrderID = po.ID
	}
	po.Items = items
	po.TotalAmount = SumItems(items)
}

// SumItems adds the line totals in decimal to avoid float drift.
func SumItems(items []PurchaseOrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	return total.Round(2).InexactFloat64()
}

func (s PurchaseOrderStatus) Valid() bool {
	for _, status := range PurchaseOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsOpen reports whether the order still commits money.
func (s PurchaseOrderStatus) IsOpen() bool {
	return s == POStatusPending || s == POStatusApproved
}

// PurchaseOrderResponse expands the supplier reference for API responses.
type PurchaseOrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	Supplier    SupplierRef         `json:"supplier"`
	Items       []PurchaseOrderItem `json:"items"`
	TotalAmount float64             `json:"totalAmount"`
	Status      PurchaseOrderStatus `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func (po *PurchaseOrder) ToResponse() PurchaseOrderResponse {
	ref := SupplierRef{ID: po.SupplierID}
	if po.Supplier != nil {
		ref = po.Supplier.Ref()
	}
	items := po.Items
	if items == nil {
		items = []PurchaseOrderItem{}
	}
	return PurchaseOrderResponse{
		ID:          po.ID,
		Supplier:    ref,
		Items:       items,
		TotalAmount: po.TotalAmount,
		Status:      po.Status,
		Notes:       po.Notes,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}
