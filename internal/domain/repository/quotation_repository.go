package repository

import (
	"context"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
)

// QuotationRepository defines the interface for quotation data operations.
// Create and Update persist the quotation together with its items in one
// transaction.
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	GetByNumber(ctx context.Context, number string) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
	// NextSequence returns the next number for quotations whose number starts
	// with prefix, counting deactivated ones too.
	NextSequence(ctx context.Context, prefix string) (int, error)
	CountByEffectiveStatus(ctx context.Context, now time.Time) (map[enum.QuotationStatus]int64, error)
	SumApprovedSince(ctx context.Context, since time.Time) (float64, error)
}

// QuotationFilterParams contains filtering parameters for quotation queries.
// Status filters on the effective status: VENCIDA includes sent quotations
// already past their expiration date.
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	ClientID   *uuid.UUID
	Now        time.Time
	SortBy     string
	SortOrder  string
}
