package service

import (
	"context"
	"errors"
	"strings"

	"github.com/andesind/catalog-api/internal/domain/draft"
	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/google/uuid"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// DraftService backs the quotation editor: product search for the variant
// selector and the draft reducer endpoint.
type DraftService struct {
	productRepo repository.ProductRepository
}

// NewDraftService creates a new draft service
func NewDraftService(productRepo repository.ProductRepository) *DraftService {
	return &DraftService{productRepo: productRepo}
}

// SearchResult is a quotable product together with what the selector offers
type SearchResult struct {
	Product *entity.Product `json:"product"`
	Options []draft.Variant `json:"options"`
}

// SearchProducts finds active products by name, description or variant code
func (s *DraftService) SearchProducts(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	products, err := s.productRepo.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(products))
	for i := range products {
		results = append(results, SearchResult{
			Product: &products[i],
			Options: draft.Options(&products[i]),
		})
	}
	return results, nil
}

// DraftAction is a reducer action as sent by the editor. add_selection
// carries a product and variant codes instead of a resolved selection.
type DraftAction struct {
	Type      draft.ActionType
	ProductID uuid.UUID
	Codes     []string
	Sequence  int
	Patch     *draft.LinePatch
	TaxRate   *float64
	Currency  enum.Currency
}

// ApplyAction reprices the incoming draft from the catalog, applies action
// and returns the next draft. Prices and totals sent by the client are never
// trusted, so the preview matches what CreateQuotation would store.
func (s *DraftService) ApplyAction(ctx context.Context, current draft.Draft, action *DraftAction) (draft.Draft, error) {
	if current.Lines == nil {
		current.Lines = []draft.Line{}
	}
	if current.Currency == "" {
		current.Currency = enum.CurrencyPEN
	}
	catalog, err := s.catalogFor(ctx, current.Lines)
	if err != nil {
		return current, err
	}
	current = current.Reprice(catalog)

	a := draft.Action{
		Type:     action.Type,
		Sequence: action.Sequence,
		Patch:    action.Patch,
		TaxRate:  action.TaxRate,
		Currency: action.Currency,
	}

	if action.Type == draft.ActionAddSelection {
		product, err := s.productRepo.GetByID(ctx, action.ProductID)
		if err != nil {
			return current, err
		}
		if product == nil || !product.IsActive {
			return current, apperror.NewFieldError("product_id", "product does not exist or is inactive")
		}
		sel, err := draft.SelectVariants(product, action.Codes)
		if err != nil {
			return current, translateDraftError(err)
		}
		a.Selection = &sel
	}

	next, err := draft.Apply(current, a)
	if err != nil {
		return current, translateDraftError(err)
	}
	return next, nil
}

func (s *DraftService) catalogFor(ctx context.Context, lines []draft.Line) (map[uuid.UUID]*entity.Product, error) {
	seen := make(map[uuid.UUID]bool, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == uuid.Nil || seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}
	catalog := make(map[uuid.UUID]*entity.Product, len(ids))
	if len(ids) == 0 {
		return catalog, nil
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].IsActive {
			catalog[products[i].ID] = &products[i]
		}
	}
	return catalog, nil
}

func translateDraftError(err error) error {
	switch {
	case errors.Is(err, draft.ErrEmptySelection):
		return apperror.NewFieldError("codes", "select at least one variant")
	case errors.Is(err, draft.ErrUnknownVariant):
		return apperror.NewFieldError("codes", err.Error())
	case errors.Is(err, draft.ErrLineNotFound):
		return apperror.NewFieldError("sequence", err.Error())
	}
	return apperror.NewBadRequestError(err.Error())
}
