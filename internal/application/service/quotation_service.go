package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/andesind/catalog-api/internal/domain/draft"
	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/internal/infrastructure/pdf"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/andesind/catalog-api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const numberAttempts = 3

// QuotationSettings are the defaults applied to new quotations
type QuotationSettings struct {
	ValidityDays int
	TaxRate      float64
	NumberPrefix string
	DefaultTerms string
}

// QuotationService handles quotation-related operations
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	clientRepo    repository.ClientRepository
	productRepo   repository.ProductRepository
	pdf           pdf.Generator
	settings      QuotationSettings
	logger        *slog.Logger
	now           func() time.Time
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	generator pdf.Generator,
	settings QuotationSettings,
	logger *slog.Logger,
) *QuotationService {
	if settings.ValidityDays <= 0 {
		settings.ValidityDays = 15
	}
	if settings.NumberPrefix == "" {
		settings.NumberPrefix = "COT"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		pdf:           generator,
		settings:      settings,
		logger:        logger,
		now:           time.Now,
	}
}

// QuotationInput represents the create and update quotation input. Prices,
// descriptions and totals are always taken from the catalog; only quantity
// and discount come from the caller.
type QuotationInput struct {
	UserID         uuid.UUID
	ClientID       *uuid.UUID
	ClientTaxID    string
	Currency       string
	TaxRate        *float64
	Notes          *string
	Terms          *string
	ExpirationDate *time.Time
	Status         *enum.QuotationStatus
	Items          []QuotationItemInput
}

// QuotationItemInput represents a line item input
type QuotationItemInput struct {
	ProductID uuid.UUID
	Code      string
	Quantity  float64
	Discount  float64
}

// CreateQuotation validates the submission against the live catalog and
// persists it with a server generated number.
func (s *QuotationService) CreateQuotation(ctx context.Context, input *QuotationInput) (*entity.Quotation, error) {
	now := s.now()

	status := enum.QuotationStatusDraft
	if input.Status != nil {
		if *input.Status != enum.QuotationStatusDraft && *input.Status != enum.QuotationStatusSent {
			return nil, apperror.NewFieldError("status", "a new quotation must be BORRADOR or ENVIADA")
		}
		status = *input.Status
	}

	expiration := now.AddDate(0, 0, s.settings.ValidityDays)
	if input.ExpirationDate != nil {
		if input.ExpirationDate.Before(now) {
			return nil, apperror.NewFieldError("expiration_date", "expiration date is in the past")
		}
		expiration = *input.ExpirationDate
	}

	quotation := &entity.Quotation{
		Status:         status,
		ExpirationDate: expiration,
		CreatedBy:      input.UserID,
		IsActive:       true,
		Terms:          trimmedOrNil(input.Terms),
	}
	if quotation.Terms == nil && s.settings.DefaultTerms != "" {
		terms := s.settings.DefaultTerms
		quotation.Terms = &terms
	}
	if err := s.assemble(ctx, quotation, input, s.settings.TaxRate); err != nil {
		return nil, err
	}

	prefix := utils.NumberPrefix(s.settings.NumberPrefix, now.Format("200601"))
	for attempt := 1; ; attempt++ {
		seq, err := s.quotationRepo.NextSequence(ctx, prefix)
		if err != nil {
			return nil, err
		}
		quotation.Number = utils.QuotationNumber(s.settings.NumberPrefix, now.Format("200601"), seq)

		err = s.quotationRepo.Create(ctx, quotation)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateKey) || attempt == numberAttempts {
			return nil, err
		}
		// another request took the number
		s.logger.WarnContext(ctx, "quotation number taken, retrying", "number", quotation.Number, "attempt", attempt)
		quotation.ID = uuid.Nil
		for i := range quotation.Items {
			quotation.Items[i].ID = uuid.Nil
		}
	}

	s.logger.InfoContext(ctx, "quotation created", "number", quotation.Number, "total", quotation.Total)
	return quotation, nil
}

// GetQuotation retrieves a quotation by ID with its effective status
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	quotation.Status = quotation.EffectiveStatus(s.now())
	return quotation, nil
}

// UpdateQuotation re-validates and replaces a quotation's client, lines and
// terms. Approved quotations are locked.
func (s *QuotationService) UpdateQuotation(ctx context.Context, id uuid.UUID, input *QuotationInput) (*entity.Quotation, error) {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.IsLocked() {
		return nil, apperror.ErrQuotationLocked
	}

	if input.ExpirationDate != nil {
		if input.ExpirationDate.Before(s.now()) {
			return nil, apperror.NewFieldError("expiration_date", "expiration date is in the past")
		}
		quotation.ExpirationDate = *input.ExpirationDate
	}
	if input.Terms != nil {
		quotation.Terms = trimmedOrNil(input.Terms)
	}
	if input.Currency == "" {
		input.Currency = string(quotation.Currency)
	}
	if input.ClientID == nil && input.ClientTaxID == "" {
		clientID := quotation.ClientID
		input.ClientID = &clientID
	}
	if err := s.assemble(ctx, quotation, input, quotation.TaxRate); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, err
	}
	quotation.Status = quotation.EffectiveStatus(s.now())
	return quotation, nil
}

// ChangeStatus moves a quotation forward in its lifecycle
func (s *QuotationService) ChangeStatus(ctx context.Context, id uuid.UUID, next enum.QuotationStatus) (*entity.Quotation, error) {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.IsLocked() {
		return nil, apperror.ErrQuotationLocked
	}

	current := quotation.EffectiveStatus(s.now())
	if !current.CanTransitionTo(next) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Cannot change status from %s to %s", current, next))
	}
	if err := s.quotationRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quotation status changed", "number", quotation.Number, "from", current.String(), "to", next.String())
	quotation.Status = next
	return quotation, nil
}

// DeleteQuotation deactivates a quotation. Approved quotations are kept.
func (s *QuotationService) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if quotation.IsLocked() {
		return apperror.ErrQuotationLocked
	}
	return s.quotationRepo.Deactivate(ctx, id)
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     string
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// ListQuotations lists quotations with filtering
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	now := s.now()
	params := &repository.QuotationFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		ClientID:   input.ClientID,
		Now:        now,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}
	if input.Status != "" {
		status, err := enum.ParseQuotationStatus(input.Status)
		if err != nil {
			return nil, apperror.NewFieldError("status", err.Error())
		}
		params.Status = &status
	}

	quotations, total, err := s.quotationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	for i := range quotations {
		quotations[i].Status = quotations[i].EffectiveStatus(now)
	}
	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// RenderPDF renders the formal quotation document
func (s *QuotationService) RenderPDF(ctx context.Context, id uuid.UUID) (*entity.Quotation, []byte, error) {
	quotation, err := s.GetQuotation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.pdf.Generate(quotation)
	if err != nil {
		return nil, nil, apperror.NewInternalError(fmt.Errorf("render quotation %s: %w", quotation.Number, err))
	}
	return quotation, doc, nil
}

func (s *QuotationService) find(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return quotation, nil
}

// assemble resolves the client and every line against the current catalog
// and fills q with the snapshots and recomputed totals. Every problem found
// is reported together; q is left untouched on error.
func (s *QuotationService) assemble(ctx context.Context, q *entity.Quotation, input *QuotationInput, fallbackRate float64) error {
	var fieldErrors []apperror.FieldError

	client, err := s.resolveClient(ctx, input)
	if err != nil {
		return err
	}
	if client == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "client", Message: "client does not exist or is inactive"})
	}

	currency, err := enum.ParseCurrency(input.Currency)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "currency", Message: err.Error()})
	}

	lines, lineErrors, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return err
	}
	fieldErrors = append(fieldErrors, lineErrors...)

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	d := draft.New()
	d.TaxRate = fallbackRate
	if input.TaxRate != nil {
		d.TaxRate = *input.TaxRate
	}
	d.Lines = lines
	d = d.SetClient(client).Recalculate()

	q.ClientID = client.ID
	q.ClientSnapshot = datatypes.NewJSONType(*d.Client)
	q.Currency = currency
	q.TaxRate = d.Totals.TaxRate
	q.Subtotal = d.Totals.Subtotal
	q.DiscountTotal = d.Totals.DiscountTotal
	q.TaxAmount = d.Totals.TaxAmount
	q.Total = d.Totals.Total
	q.Notes = trimmedOrNil(input.Notes)
	q.Items = make([]entity.QuotationItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		q.Items = append(q.Items, entity.QuotationItem{
			Sequence:       l.Sequence,
			ProductID:      l.ProductID,
			Category:       l.Category,
			Code:           l.Code,
			Description:    l.Description,
			Specifications: l.Specifications,
			Unit:           l.Unit,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			Discount:       l.Discount,
			Subtotal:       l.Subtotal,
		})
	}
	return nil
}

func (s *QuotationService) resolveClient(ctx context.Context, input *QuotationInput) (*entity.Client, error) {
	var (
		client *entity.Client
		err    error
	)
	switch {
	case input.ClientID != nil && *input.ClientID != uuid.Nil:
		client, err = s.clientRepo.GetByID(ctx, *input.ClientID)
	case strings.TrimSpace(input.ClientTaxID) != "":
		client, err = s.clientRepo.GetByTaxID(ctx, strings.TrimSpace(input.ClientTaxID))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if client == nil || !client.IsActive {
		return nil, nil
	}
	return client, nil
}

func (s *QuotationService) resolveLines(ctx context.Context, items []QuotationItemInput) ([]draft.Line, []apperror.FieldError, error) {
	if len(items) == 0 {
		return nil, []apperror.FieldError{{Field: "items", Message: "at least one item is required"}}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var fieldErrors []apperror.FieldError
	lines := make([]draft.Line, 0, len(items))
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		product := byID[it.ProductID]
		if product == nil || !product.IsActive {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".product_id", Message: "product does not exist or is inactive"})
			continue
		}

		var codes []string
		if code := strings.TrimSpace(it.Code); code != "" {
			codes = []string{code}
		}
		sel, err := draft.SelectVariants(product, codes)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".code", Message: fmt.Sprintf("variant %q no longer exists in %s", it.Code, product.Name)})
			continue
		}
		if sel.Empty() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".code", Message: "a variant code is required for " + product.Name})
			continue
		}

		line := draft.BuildLines(sel, len(lines))[0]
		line.Quantity = it.Quantity
		line.Discount = it.Discount
		lines = append(lines, line)
	}
	return lines, fieldErrors, nil
}
