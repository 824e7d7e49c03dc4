package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/internal/infrastructure/cache"
	"github.com/andesind/catalog-api/internal/infrastructure/spreadsheet"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/andesind/catalog-api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductService manages the catalog. Public reads go through the Redis
// catalog cache, which every write invalidates.
type ProductService struct {
	productRepo repository.ProductRepository
	cache       *cache.Catalog
	logger      *slog.Logger
}

// NewProductService creates a new product service. catalogCache may be nil.
func NewProductService(productRepo repository.ProductRepository, catalogCache *cache.Catalog, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		productRepo: productRepo,
		cache:       catalogCache,
		logger:      logger,
	}
}

// ProductInput represents the create and update product input
type ProductInput struct {
	Name        string
	Slug        string
	Description string
	Category    string
	ImageURL    *string
	Details     json.RawMessage
	BasePrice   float64
	Unit        string
	IsActive    *bool
	Variants    []VariantInput
}

// VariantInput is one variant of a product, in display order
type VariantInput struct {
	Code        string
	Description string
	UnitPrice   float64
	Unit        string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	product := &entity.Product{IsActive: true}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.GetBySlug(ctx, product.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this slug already exists")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("A product with this slug already exists")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct replaces a product's fields and variants
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Slug == "" {
		input.Slug = product.Slug
	}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}

	other, err := s.productRepo.GetBySlug(ctx, product.Slug)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != product.ID {
		return nil, apperror.NewConflictError("A product with this slug already exists")
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("A product with this slug already exists")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

// DeleteProduct soft-deletes a product. Quotations keep their own copy of
// its data.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListProductsInput represents the input for listing products
type ListProductsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	OnlyActive bool
	SortBy     string
	SortOrder  string
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	params := &repository.ProductFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		OnlyActive: input.OnlyActive,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}
	if input.Category != "" {
		category, err := enum.ParseProductCategory(input.Category)
		if err != nil {
			return nil, apperror.NewFieldError("category", err.Error())
		}
		params.Category = &category
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListPublicProducts lists active products for the storefront
func (s *ProductService) ListPublicProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	input.OnlyActive = true
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	key, err := s.cache.BuildKey(ctx, "products", input.Category, strings.ToLower(input.Search),
		strconv.Itoa(input.Pagination.Page), strconv.Itoa(input.Pagination.PerPage), input.SortBy, input.SortOrder)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache unavailable", "error", err)
		return s.ListProducts(ctx, input)
	}

	var result pagination.PaginatedResult[entity.Product]
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.ListProducts(ctx, input)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
		return s.ListProducts(ctx, input)
	}
	return &result, nil
}

// GetPublicProduct returns an active product by slug for the storefront
func (s *ProductService) GetPublicProduct(ctx context.Context, slug string) (*entity.Product, error) {
	load := func(ctx context.Context) (*entity.Product, error) {
		product, err := s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, apperror.NewNotFoundError("Product")
		}
		return product, nil
	}

	key, err := s.cache.BuildKey(ctx, "product", slug)
	if err != nil {
		return load(ctx)
	}
	var product entity.Product
	err = s.cache.FetchJSON(ctx, key, &product, func(ctx context.Context) (interface{}, error) {
		return load(ctx)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
		return load(ctx)
	}
	return &product, nil
}

// ImportResult summarizes a spreadsheet import
type ImportResult struct {
	Created int                    `json:"created"`
	Skipped []spreadsheet.RowError `json:"skipped"`
}

// ImportProducts creates every product found in an .xlsx workbook. Rows
// that fail to parse and products whose slug already exists are reported
// and skipped; the rest are created in one transaction.
func (s *ProductService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parsed, err := spreadsheet.ReadProducts(r)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	result := &ImportResult{Skipped: parsed.Errors}
	toCreate := make([]entity.Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		existing, err := s.productRepo.GetBySlug(ctx, p.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Skipped = append(result.Skipped, spreadsheet.RowError{
				Message: fmt.Sprintf("product %q already exists", p.Slug),
			})
			continue
		}
		toCreate = append(toCreate, p)
	}
	if result.Skipped == nil {
		result.Skipped = []spreadsheet.RowError{}
	}

	if err := s.productRepo.CreateBatch(ctx, toCreate); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("The workbook repeats a product slug")
		}
		return nil, err
	}
	result.Created = len(toCreate)
	if result.Created > 0 {
		s.invalidate(ctx)
	}
	s.logger.InfoContext(ctx, "products imported", "created", result.Created, "skipped", len(result.Skipped))
	return result, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.ErrorContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

func applyProductInput(p *entity.Product, in *ProductInput) error {
	var fieldErrors []apperror.FieldError

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	slug := utils.Slugify(in.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	category, err := enum.ParseProductCategory(in.Category)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "category", Message: err.Error()})
	}
	if in.BasePrice < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "base_price", Message: "must not be negative"})
	}

	var details datatypes.JSON
	if err == nil && len(in.Details) > 0 && string(in.Details) != "null" {
		decoded, derr := entity.DecodeProductDetails(category, datatypes.JSON(in.Details))
		if derr == nil {
			details, derr = entity.EncodeProductDetails(category, decoded)
		}
		if derr != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "details", Message: derr.Error()})
		}
	}

	unit := strings.ToUpper(strings.TrimSpace(in.Unit))
	if unit == "" {
		unit = "UND"
	}

	variants := make([]entity.ProductVariant, 0, len(in.Variants))
	seen := make(map[string]bool, len(in.Variants))
	for i, v := range in.Variants {
		code := strings.ToUpper(strings.TrimSpace(v.Code))
		field := fmt.Sprintf("variants[%d]", i)
		switch {
		case code == "":
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".code", Message: "code is required"})
		case seen[code]:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".code", Message: "duplicate code " + code})
		}
		if v.UnitPrice < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".unit_price", Message: "must not be negative"})
		}
		seen[code] = true

		vunit := strings.ToUpper(strings.TrimSpace(v.Unit))
		if vunit == "" {
			vunit = unit
		}
		variants = append(variants, entity.ProductVariant{
			Code:        code,
			Description: strings.TrimSpace(v.Description),
			UnitPrice:   v.UnitPrice,
			Unit:        vunit,
			Position:    i,
		})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	p.Name = name
	p.Slug = slug
	p.Description = strings.TrimSpace(in.Description)
	p.Category = category
	p.ImageURL = trimmedOrNil(in.ImageURL)
	p.Details = details
	p.BasePrice = in.BasePrice
	p.Unit = unit
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.Variants = variants
	return nil
}
