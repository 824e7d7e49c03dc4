package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientLookupTTL is how long registry data is trusted before a lookup
// re-fetches it.
const ClientLookupTTL = 24 * time.Hour

// Client is a company quotations are addressed to, keyed by its RUC
type Client struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TaxID             string     `gorm:"size:11;uniqueIndex;not null" json:"tax_id"`
	LegalName         string     `gorm:"size:255;not null" json:"legal_name"`
	TradeName         *string    `gorm:"size:255" json:"trade_name,omitempty"`
	Address           string     `gorm:"type:text" json:"address"`
	ContactName       *string    `gorm:"size:255" json:"contact_name,omitempty"`
	ContactPhone      *string    `gorm:"size:50" json:"contact_phone,omitempty"`
	ContactEmail      *string    `gorm:"size:255" json:"contact_email,omitempty"`
	RegistryStatus    string     `gorm:"size:50" json:"registry_status"`
	RegistryCondition string     `gorm:"size:50" json:"registry_condition"`
	LastLookupAt      *time.Time `json:"last_lookup_at,omitempty"`
	IsActive          bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Quotations []Quotation `gorm:"foreignKey:ClientID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// IsFresh reports whether the registry data was fetched less than
// ClientLookupTTL before now.
func (c *Client) IsFresh(now time.Time) bool {
	if c.LastLookupAt == nil {
		return false
	}
	return now.Sub(*c.LastLookupAt) < ClientLookupTTL
}

// Snapshot copies the identity, address and contact fields that a quotation
// keeps as its historical record.
func (c *Client) Snapshot() ClientSnapshot {
	s := ClientSnapshot{
		TaxID:     c.TaxID,
		LegalName: c.LegalName,
		Address:   c.Address,
	}
	if c.TradeName != nil {
		s.TradeName = *c.TradeName
	}
	if c.ContactName != nil {
		s.ContactName = *c.ContactName
	}
	if c.ContactPhone != nil {
		s.ContactPhone = *c.ContactPhone
	}
	if c.ContactEmail != nil {
		s.ContactEmail = *c.ContactEmail
	}
	return s
}

// ClientSnapshot is the denormalized client block stored on a quotation
type ClientSnapshot struct {
	TaxID        string `json:"tax_id"`
	LegalName    string `json:"legal_name"`
	TradeName    string `json:"trade_name,omitempty"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}
