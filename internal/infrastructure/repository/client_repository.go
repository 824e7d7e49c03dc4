package repository

import (
	"context"
	"errors"

	"github.com/andesind/catalog-api/internal/domain/entity"
	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return translate(r.db.WithContext(ctx).Create(client).Error)
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) GetByTaxID(ctx context.Context, taxID string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "tax_id = ?", taxID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return translate(r.db.WithContext(ctx).Save(client).Error)
}

func (r *clientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Client{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *clientRepository) List(ctx context.Context, params *domainRepo.ClientFilterParams) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Scopes(SearchScope(params.Search, "tax_id", "legal_name", "trade_name"))
	if !params.IncludeInactive {
		query = query.Scopes(ActiveScope)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PageScope(params.Pagination)).
		Order("legal_name ASC").
		Find(&clients).Error

	return clients, total, err
}
