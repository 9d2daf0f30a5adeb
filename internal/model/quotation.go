package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationStatus string

const (
	QuotationOpen      QuotationStatus = "Open"
	QuotationClosed    QuotationStatus = "Closed"
	QuotationCancelled QuotationStatus = "Cancelled"
)

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "Pending"
	QuoteQuoted   QuoteStatus = "Quoted"
	QuoteAccepted QuoteStatus = "Accepted"
	QuoteRejected QuoteStatus = "Rejected"
)

// Quotation is a request for prices on one part sent to several suppliers.
// PartNumber and PartName are copied from the part when the request is made.
type Quotation struct {
	BaseModel
	PartID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"part"`
	Part       *Part               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	PartNumber string              `gorm:"type:varchar(100);not null" json:"partNumber"`
	PartName   string              `gorm:"type:varchar(100);not null" json:"partName"`
	Quantity   int                 `gorm:"not null" json:"quantity"`
	Status     QuotationStatus     `gorm:"type:varchar(20);not null;default:Open" json:"status"`
	ValidUntil *time.Time          `json:"validUntil,omitempty"`
	Notes      string              `gorm:"type:varchar(500)" json:"notes,omitempty"`
	Suppliers  []QuotationSupplier `gorm:"constraint:OnDelete:CASCADE;" json:"suppliers"`
}

// QuotationSupplier is one supplier's answer to a quotation.
type QuotationSupplier struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	QuotationID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_quotation_supplier" json:"-"`
	SupplierID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_quotation_supplier" json:"supplier"`
	Supplier     *Supplier   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	SupplierName string      `gorm:"-" json:"supplierName,omitempty"`
	QuotedPrice  *float64    `gorm:"type:numeric(12,2)" json:"quotedPrice,omitempty"`
	DeliveryDays *int        `json:"deliveryTime,omitempty"`
	Status       QuoteStatus `gorm:"type:varchar(20);not null;default:Pending" json:"status"`
	Notes        string      `gorm:"type:varchar(500)" json:"notes,omitempty"`
}

func (qs *QuotationSupplier) BeforeCreate(tx *gorm.DB) (err error) {
	if qs.ID == uuid.Nil {
		qs.ID = uuid.New()
	}
	return
}

// FillName copies the display name from a preloaded supplier.
func (qs *QuotationSupplier) FillName() {
	if qs.Supplier != nil {
		qs.SupplierName = qs.Supplier.Name
	}
}

// Quote finds the entry for supplierID.
func (q *Quotation) Quote(supplierID uuid.UUID) (*QuotationSupplier, bool) {
	for i := range q.Suppliers {
		if q.Suppliers[i].SupplierID == supplierID {
			return &q.Suppliers[i], true
		}
	}
	return nil, false
}

func (s QuotationStatus) Valid() bool {
	return s == QuotationOpen || s == QuotationClosed || s == QuotationCancelled
}

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuotePending, QuoteQuoted, QuoteAccepted, QuoteRejected:
		return true
	}
	return false
}
