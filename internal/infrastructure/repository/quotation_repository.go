package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sequence ASC")
	})
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translate(tx.Create(quotation).Error)
	})
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope, preloadItems).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) GetByNumber(ctx context.Context, number string) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope, preloadItems).
		First(&quotation, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

// Update saves the header and replaces every item. A failure leaves the
// stored quotation as it was.
func (r *quotationRepository) Update(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quotation).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", quotation.ID).Delete(&entity.QuotationItem{}).Error; err != nil {
			return err
		}
		if len(quotation.Items) == 0 {
			return nil
		}
		for i := range quotation.Items {
			quotation.Items[i].ID = uuid.Nil
			quotation.Items[i].QuotationID = quotation.ID
		}
		return tx.Create(&quotation.Items).Error
	})
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *quotationRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *quotationRepository) List(ctx context.Context, params *domainRepo.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	query := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(ActiveScope, SearchScope(params.Search, "number", "CAST(client_snapshot AS TEXT)"))

	if params.Status != nil {
		query = query.Scopes(effectiveStatusScope(*params.Status, now))
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Scopes(
			PageScope(params.Pagination),
			OrderScope(params.SortBy, params.SortOrder, "created_at", "number", "total", "expiration_date", "created_at"),
			preloadItems,
		).
		Find(&quotations).Error

	return quotations, total, err
}

// effectiveStatusScope filters on the status a reader would see at now: a
// sent quotation past its expiration date counts as expired.
func effectiveStatusScope(status enum.QuotationStatus, now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch status {
		case enum.QuotationStatusExpired:
			return db.Where("(status = ? OR (status = ? AND expiration_date < ?))",
				enum.QuotationStatusExpired, enum.QuotationStatusSent, now)
		case enum.QuotationStatusSent:
			return db.Where("status = ? AND expiration_date >= ?", enum.QuotationStatusSent, now)
		default:
			return db.Where("status = ?", status)
		}
	}
}

func (r *quotationRepository) NextSequence(ctx context.Context, prefix string) (int, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 1, nil
	}

	last, err := strconv.Atoi(strings.TrimPrefix(numbers[0], prefix))
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (r *quotationRepository) CountByEffectiveStatus(ctx context.Context, now time.Time) (map[enum.QuotationStatus]int64, error) {
	var rows []struct {
		Status  enum.QuotationStatus
		Count   int64
		Expired int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(ActiveScope).
		Select("status, COUNT(*) AS count, SUM(CASE WHEN expiration_date < ? THEN 1 ELSE 0 END) AS expired", now).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[enum.QuotationStatus]int64{
		enum.QuotationStatusDraft:    0,
		enum.QuotationStatusSent:     0,
		enum.QuotationStatusApproved: 0,
		enum.QuotationStatusRejected: 0,
		enum.QuotationStatusExpired:  0,
	}
	for _, row := range rows {
		if row.Status == enum.QuotationStatusSent {
			counts[enum.QuotationStatusSent] += row.Count - row.Expired
			counts[enum.QuotationStatusExpired] += row.Expired
			continue
		}
		counts[row.Status] += row.Count
	}
	return counts, nil
}

func (r *quotationRepository) SumApprovedSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(ActiveScope).
		Where("status = ? AND updated_at >= ?", enum.QuotationStatusApproved, since).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}
