package entity

import (
	"time"

	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quotation is a formal price offer (cotización) for a client
type Quotation struct {
	ID             uuid.UUID                          `gorm:"type:uuid;primary_key" json:"id"`
	Number         string                             `gorm:"size:20;uniqueIndex;not null" json:"number"`
	ClientID       uuid.UUID                          `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientSnapshot datatypes.JSONType[ClientSnapshot] `json:"client"`
	Currency       enum.Currency                      `gorm:"size:3;not null;default:'PEN'" json:"currency"`
	TaxRate        float64                            `gorm:"type:double precision;not null;default:18" json:"tax_rate"`
	Subtotal       float64                            `gorm:"type:double precision;default:0" json:"subtotal"`
	DiscountTotal  float64                            `gorm:"type:double precision;default:0" json:"discount_total"`
	TaxAmount      float64                            `gorm:"type:double precision;default:0" json:"tax_amount"`
	Total          float64                            `gorm:"type:double precision;default:0" json:"total"`
	Notes          *string                            `gorm:"type:text" json:"notes,omitempty"`
	Terms          *string                            `gorm:"type:text" json:"terms,omitempty"`
	Status         enum.QuotationStatus               `gorm:"default:0;index" json:"status"`
	ExpirationDate time.Time                          `gorm:"not null" json:"expiration_date"`
	CreatedBy      uuid.UUID                          `gorm:"type:uuid;not null;index" json:"created_by"`
	IsActive       bool                               `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time                          `json:"created_at"`
	UpdatedAt      time.Time                          `json:"updated_at"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// EffectiveStatus reports VENCIDA for a sent quotation whose expiration date
// is already behind now. The stored status is left untouched.
func (q *Quotation) EffectiveStatus(now time.Time) enum.QuotationStatus {
	if q.Status == enum.QuotationStatusSent && now.After(q.ExpirationDate) {
		return enum.QuotationStatusExpired
	}
	return q.Status
}

// IsLocked reports whether the quotation rejects every further change.
func (q *Quotation) IsLocked() bool {
	return q.Status == enum.QuotationStatusApproved
}

// QuotationItem is a line of a quotation. Code, description, specifications
// and price are copied from the catalog when the quotation is saved.
type QuotationItem struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Sequence       int                  `gorm:"not null" json:"sequence"`
	ProductID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"product_id"`
	Category       enum.ProductCategory `gorm:"size:50" json:"category"`
	Code           string               `gorm:"size:100;not null" json:"code"`
	Description    string               `gorm:"size:500" json:"description"`
	Specifications string               `gorm:"type:text" json:"specifications,omitempty"`
	Unit           string               `gorm:"size:20" json:"unit"`
	Quantity       float64              `gorm:"type:double precision;not null" json:"quantity"`
	UnitPrice      float64              `gorm:"type:double precision;not null" json:"unit_price"`
	Discount       float64              `gorm:"type:double precision;default:0" json:"discount"`
	Subtotal       float64              `gorm:"type:double precision;not null" json:"subtotal"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new quotation item
func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationItem model
func (QuotationItem) TableName() string {
	return "quotation_items"
}
