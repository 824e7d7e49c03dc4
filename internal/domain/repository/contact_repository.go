package repository

import (
	"context"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
)

// ContactRepository defines the interface for storefront contact requests
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ContactStatus) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, status *enum.ContactStatus) ([]entity.Contact, int64, error)
	CountByStatus(ctx context.Context, status enum.ContactStatus) (int64, error)
}
