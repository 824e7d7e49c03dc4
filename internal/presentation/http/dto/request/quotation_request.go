package request

import (
	"time"

	"github.com/andesind/catalog-api/internal/domain/draft"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
)

// QuotationRequest represents the create and update quotation body. The
// totals are accepted for compatibility with the editor but never trusted.
type QuotationRequest struct {
	Client         QuotationClient        `json:"client"`
	ExpirationDate *time.Time             `json:"expiration_date"`
	Currency       string                 `json:"currency" binding:"omitempty,oneof=PEN USD pen usd"`
	TaxRate        *float64               `json:"tax_rate" binding:"omitempty,gte=0,lte=100"`
	Notes          *string                `json:"notes"`
	Terms          *string                `json:"terms"`
	Status         *enum.QuotationStatus  `json:"status"`
	Items          []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`

	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// QuotationClient identifies the client by ID or by RUC
type QuotationClient struct {
	ID    *uuid.UUID `json:"id"`
	TaxID string     `json:"tax_id"`
}

// QuotationItemRequest is one requested line. Description and price fields
// sent by the editor are ignored; the catalog is authoritative.
type QuotationItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Code      string    `json:"code"`
	Quantity  float64   `json:"quantity" binding:"gt=0"`
	Discount  float64   `json:"discount" binding:"gte=0,lte=100"`
}

// QuotationStatusRequest moves a quotation to another status
type QuotationStatusRequest struct {
	Status *enum.QuotationStatus `json:"status" binding:"required"`
}

// QuotationFilterRequest represents quotation list parameters
type QuotationFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	ClientID  string `form:"client_id"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// DraftActionRequest carries the current draft and one action to apply
type DraftActionRequest struct {
	Draft  draft.Draft        `json:"draft"`
	Action DraftActionPayload `json:"action"`
}

// DraftActionPayload is a reducer action. add_selection names a product and
// the variant codes to add.
type DraftActionPayload struct {
	Type      draft.ActionType `json:"type" binding:"required,oneof=add_selection remove_line edit_line set_tax_rate set_currency recalculate"`
	ProductID uuid.UUID        `json:"product_id"`
	Codes     []string         `json:"codes"`
	Sequence  int              `json:"sequence"`
	Patch     *draft.LinePatch `json:"patch"`
	TaxRate   *float64         `json:"tax_rate"`
	Currency  enum.Currency    `json:"currency"`
}
