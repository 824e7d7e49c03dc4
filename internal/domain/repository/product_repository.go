package repository

import (
	"context"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository is the single source of catalog data. Variants are always
// loaded with their product, ordered by position.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	// Update saves product fields and replaces its variants.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// Search matches active products by name, description or variant code.
	Search(ctx context.Context, query string, limit int) ([]entity.Product, error)
	CountByCategory(ctx context.Context) (map[enum.ProductCategory]int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   *enum.ProductCategory
	OnlyActive bool
	SortBy     string
	SortOrder  string
}
