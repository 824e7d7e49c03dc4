package entity

import (
	"strings"
	"time"

	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a catalog entry. Its category selects the shape of Details.
type Product struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Name        string               `gorm:"size:255;not null" json:"name"`
	Slug        string               `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string               `gorm:"type:text" json:"description"`
	Category    enum.ProductCategory `gorm:"size:50;not null;index" json:"category"`
	ImageURL    *string              `gorm:"size:500" json:"image_url,omitempty"`
	Details     datatypes.JSON       `json:"details,omitempty"`
	BasePrice   float64              `gorm:"type:decimal(15,2);default:0" json:"base_price"`
	Unit        string               `gorm:"size:20;default:'UND'" json:"unit"`
	IsActive    bool                 `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// SyntheticCode is the variant code used when a product is quoted without
// real variants.
func (p *Product) SyntheticCode() string {
	return strings.ToUpper(p.Slug)
}

// FindVariant returns the variant with the given code, matched case-insensitively.
func (p *Product) FindVariant(code string) *ProductVariant {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].Code, code) {
			return &p.Variants[i]
		}
	}
	return nil
}

// DecodeDetails returns the category-specific payload.
func (p *Product) DecodeDetails() (ProductDetails, error) {
	return DecodeProductDetails(p.Category, p.Details)
}

// Specifications renders the category payload as a single line for
// quotation snapshots. Undecodable details yield an empty string.
func (p *Product) Specifications() string {
	d, err := p.DecodeDetails()
	if err != nil || d == nil {
		return ""
	}
	return d.Specifications()
}

// ProductVariant is a purchasable configuration of a product
type ProductVariant struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Code        string    `gorm:"size:100;not null;index" json:"code"`
	Description string    `gorm:"size:500" json:"description"`
	UnitPrice   float64   `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Unit        string    `gorm:"size:20;default:'UND'" json:"unit"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new variant
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}
