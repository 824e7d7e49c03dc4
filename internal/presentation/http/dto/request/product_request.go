package request

import "encoding/json"

// ProductRequest represents the create and update product body. Details is
// the category specific payload and must match Category.
type ProductRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=255"`
	Slug        string           `json:"slug" binding:"omitempty,max=255"`
	Description string           `json:"description"`
	Category    string           `json:"category" binding:"required"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,url"`
	Details     json.RawMessage  `json:"details"`
	BasePrice   float64          `json:"base_price" binding:"gte=0"`
	Unit        string           `json:"unit" binding:"omitempty,max=20"`
	IsActive    *bool            `json:"is_active"`
	Variants    []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// VariantRequest is one configuration of a product
type VariantRequest struct {
	Code        string  `json:"code" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=500"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
	Unit        string  `json:"unit" binding:"omitempty,max=20"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	Active    bool   `form:"active"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}
