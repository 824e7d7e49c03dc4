package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/andesind/catalog-api/pkg/whatsapp"
	"github.com/google/uuid"
)

// ContactService stores storefront requests and builds WhatsApp deep links
// to the sales line.
type ContactService struct {
	contactRepo repository.ContactRepository
	productRepo repository.ProductRepository
	salesPhone  string
	logger      *slog.Logger
}

// NewContactService creates a new contact service. salesPhone is the
// WhatsApp number every link points to.
func NewContactService(contactRepo repository.ContactRepository, productRepo repository.ProductRepository, salesPhone string, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		contactRepo: contactRepo,
		productRepo: productRepo,
		salesPhone:  salesPhone,
		logger:      logger,
	}
}

// ContactInput represents a storefront contact request
type ContactInput struct {
	Name      string
	Company   *string
	Phone     string
	Email     *string
	Message   string
	ProductID *uuid.UUID
	Quantity  *int
	Source    enum.ContactSource
}

// ContactOutput is the stored request and the link that continues it on WhatsApp
type ContactOutput struct {
	Contact      *entity.Contact `json:"contact"`
	WhatsAppLink string          `json:"whatsapp_link"`
}

// SubmitContact stores a contact request
func (s *ContactService) SubmitContact(ctx context.Context, input *ContactInput) (*ContactOutput, error) {
	var fieldErrors []apperror.FieldError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	phone, err := whatsapp.NormalizePhone(input.Phone)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "phone number is invalid"})
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must be at least 1"})
	}

	var product *entity.Product
	if input.ProductID != nil {
		product, err = s.productRepo.GetByID(ctx, *input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_id", Message: "product does not exist"})
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	source := input.Source
	if source == "" {
		source = enum.ContactSourceForm
	}
	contact := &entity.Contact{
		Name:      name,
		Company:   trimmedOrNil(input.Company),
		Phone:     phone,
		Email:     trimmedOrNil(input.Email),
		Message:   strings.TrimSpace(input.Message),
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Source:    source,
		Status:    enum.ContactStatusNew,
		IsActive:  true,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}

	inquiry := whatsapp.Inquiry{CustomerName: name, Message: contact.Message}
	if contact.Company != nil {
		inquiry.Company = *contact.Company
	}
	if product != nil {
		inquiry.ProductName = product.Name
		contact.Product = product
	}
	if contact.Quantity != nil {
		inquiry.Quantity = *contact.Quantity
	}
	link, err := s.link(inquiry)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "contact request received", "contact_id", contact.ID, "source", string(source))
	return &ContactOutput{Contact: contact, WhatsAppLink: link}, nil
}

// ProductWhatsAppLink builds an inquiry link for an active product
func (s *ContactService) ProductWhatsAppLink(ctx context.Context, slug string, quantity int) (string, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if product == nil || !product.IsActive {
		return "", apperror.NewNotFoundError("Product")
	}
	return s.link(whatsapp.Inquiry{ProductName: product.Name, Quantity: quantity})
}

func (s *ContactService) link(inquiry whatsapp.Inquiry) (string, error) {
	link, err := whatsapp.Link(s.salesPhone, inquiry.Text())
	if errors.Is(err, whatsapp.ErrInvalidPhone) {
		return "", apperror.NewInternalError(err)
	}
	return link, err
}

// GetContact retrieves a contact request by ID
func (s *ContactService) GetContact(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, apperror.NewNotFoundError("Contact")
	}
	return contact, nil
}

// ListContactsInput represents the input for listing contact requests
type ListContactsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     string
}

// ListContacts lists contact requests, newest first
func (s *ContactService) ListContacts(ctx context.Context, input *ListContactsInput) (*pagination.PaginatedResult[entity.Contact], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	var status *enum.ContactStatus
	if input.Status != "" {
		parsed, err := enum.ParseContactStatus(input.Status)
		if err != nil {
			return nil, apperror.NewFieldError("status", err.Error())
		}
		status = &parsed
	}

	contacts, total, err := s.contactRepo.List(ctx, input.Pagination, input.Search, status)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(contacts, pag), nil
}

// UpdateContactStatus marks a request as contacted or closed
func (s *ContactService) UpdateContactStatus(ctx context.Context, id uuid.UUID, status enum.ContactStatus) (*entity.Contact, error) {
	contact, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	contact.Status = status
	return contact, nil
}

// DeleteContact deactivates a contact request
func (s *ContactService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetContact(ctx, id); err != nil {
		return err
	}
	return s.contactRepo.Deactivate(ctx, id)
}
