package repository

import (
	"context"
	"errors"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Preload("Variants", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	assignPositions(product)
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	for i := range products {
		assignPositions(&products[i])
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&products).Error
	}))
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(preloadVariants).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(preloadVariants).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(preloadVariants).
		First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	assignPositions(product)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants").Save(product).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&entity.ProductVariant{}).Error; err != nil {
			return err
		}
		if len(product.Variants) == 0 {
			return nil
		}
		for i := range product.Variants {
			product.Variants[i].ID = uuid.Nil
			product.Variants[i].ProductID = product.ID
		}
		return tx.Create(&product.Variants).Error
	})
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(SearchScope(params.Search, "name", "description"))

	if params.OnlyActive {
		query = query.Scopes(ActiveScope)
	}
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Scopes(
			PageScope(params.Pagination),
			OrderScope(params.SortBy, params.SortOrder, "created_at", "name", "base_price", "created_at", "updated_at"),
			preloadVariants,
		).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) Search(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	var products []entity.Product

	db := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(ActiveScope)
	if query != "" {
		pattern := likePattern(query)
		codes := r.db.Model(&entity.ProductVariant{}).
			Select("product_id").
			Where("LOWER(code) LIKE ?", pattern)
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR id IN (?)",
			pattern, pattern, codes)
	}

	err := db.Scopes(preloadVariants).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountByCategory(ctx context.Context) (map[enum.ProductCategory]int64, error) {
	var rows []struct {
		Category enum.ProductCategory
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(ActiveScope).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enum.ProductCategory]int64, len(enum.ProductCategories))
	for _, c := range enum.ProductCategories {
		counts[c] = 0
	}
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

func assignPositions(p *entity.Product) {
	for i := range p.Variants {
		p.Variants[i].Position = i
	}
}
