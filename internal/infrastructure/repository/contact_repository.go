package repository

import (
	"context"
	"errors"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) domainRepo.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope).
		Preload("Product").
		First(&contact, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &contact, err
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ContactStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Contact{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *contactRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Contact{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *contactRepository) List(ctx context.Context, params *pagination.PaginationParams, search string, status *enum.ContactStatus) ([]entity.Contact, int64, error) {
	var contacts []entity.Contact
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Contact{}).
		Scopes(ActiveScope, SearchScope(search, "name", "company", "phone", "email"))
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PageScope(params)).
		Preload("Product").
		Order("created_at DESC").
		Find(&contacts).Error

	return contacts, total, err
}

func (r *contactRepository) CountByStatus(ctx context.Context, status enum.ContactStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Contact{}).
		Scopes(ActiveScope).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
