package entity

import (
	"time"

	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a quote or information request left on the storefront
type Contact struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Name      string             `gorm:"size:255;not null" json:"name"`
	Company   *string            `gorm:"size:255" json:"company,omitempty"`
	Phone     string             `gorm:"size:50;not null" json:"phone"`
	Email     *string            `gorm:"size:255" json:"email,omitempty"`
	Message   string             `gorm:"type:text" json:"message"`
	ProductID *uuid.UUID         `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Quantity  *int               `json:"quantity,omitempty"`
	Source    enum.ContactSource `gorm:"size:20;default:'form'" json:"source"`
	Status    enum.ContactStatus `gorm:"default:0;index" json:"status"`
	IsActive  bool               `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new contact
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Contact model
func (Contact) TableName() string {
	return "contacts"
}
