package repository

import (
	"context"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	// GetByTaxID returns the client with the given RUC, active or not.
	GetByTaxID(ctx context.Context, taxID string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ClientFilterParams) ([]entity.Client, int64, error)
}

// ClientFilterParams contains filtering parameters for client queries
type ClientFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	IncludeInactive bool
}
