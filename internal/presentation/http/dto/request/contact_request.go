package request

import (
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
)

// ContactRequest is a storefront contact form submission
type ContactRequest struct {
	Name      string     `json:"name" binding:"required,max=255"`
	Company   *string    `json:"company" binding:"omitempty,max=255"`
	Phone     string     `json:"phone" binding:"required,max=50"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Message   string     `json:"message" binding:"max=2000"`
	ProductID *uuid.UUID `json:"product_id"`
	Quantity  *int       `json:"quantity" binding:"omitempty,min=1"`
	Source    string     `json:"source" binding:"omitempty,oneof=form whatsapp"`
}

// ContactStatusRequest updates the follow-up status of a contact
type ContactStatusRequest struct {
	Status *enum.ContactStatus `json:"status" binding:"required"`
}
