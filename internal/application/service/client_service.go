package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/internal/infrastructure/registry"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/andesind/catalog-api/pkg/ruc"
	"github.com/google/uuid"
)

// ClientService resolves and maintains the companies quotations are made for
type ClientService struct {
	clientRepo repository.ClientRepository
	registry   registry.Lookup
	logger     *slog.Logger
	now        func() time.Time
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, lookup registry.Lookup, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{
		clientRepo: clientRepo,
		registry:   lookup,
		logger:     logger,
		now:        time.Now,
	}
}

// LookupResult is the outcome of a tax ID lookup. IsNew is true when the
// client is not usable on file: it came from the registry and has not been
// saved yet, or it was deactivated. Either way CreateClient makes it usable.
type LookupResult struct {
	Client *entity.Client
	IsNew  bool
}

// LookupByTaxID resolves a client by RUC. A stored client with data fetched
// in the last 24 hours is returned as is; otherwise the registry is asked.
// Registry data refreshes a stored client, while an unknown RUC yields an
// unsaved proposal.
func (s *ClientService) LookupByTaxID(ctx context.Context, rawTaxID string) (*LookupResult, error) {
	taxID, err := validateTaxID(rawTaxID)
	if err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if existing != nil && existing.IsFresh(now) {
		return &LookupResult{Client: existing, IsNew: !existing.IsActive}, nil
	}

	taxpayer, err := s.registry.LookupRUC(ctx, taxID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Taxpayer")
		}
		s.logger.WarnContext(ctx, "tax registry lookup failed", "tax_id", taxID, "error", err)
		return nil, apperror.NewTransientError("Tax registry is unavailable, try again later", err)
	}

	if existing != nil {
		mergeTaxpayer(existing, taxpayer, now)
		if err := s.clientRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &LookupResult{Client: existing, IsNew: !existing.IsActive}, nil
	}

	proposal := &entity.Client{
		TaxID:    taxID,
		IsActive: true,
	}
	mergeTaxpayer(proposal, taxpayer, now)
	return &LookupResult{Client: proposal, IsNew: true}, nil
}

func mergeTaxpayer(c *entity.Client, tp *registry.Taxpayer, now time.Time) {
	if tp.LegalName != "" {
		c.LegalName = tp.LegalName
	}
	if tp.Address != "" {
		c.Address = tp.Address
	}
	c.RegistryStatus = tp.Status
	c.RegistryCondition = tp.Condition
	c.LastLookupAt = &now
}

// ClientInput carries the editable fields of a client
type ClientInput struct {
	TaxID        string
	LegalName    string
	TradeName    *string
	Address      string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
}

// CreateClient saves a new client. A RUC already on file is a conflict,
// unless that client was deactivated, in which case it is reactivated with
// the new data.
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	taxID, err := validateTaxID(input.TaxID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.LegalName) == "" {
		return nil, apperror.NewFieldError("legal_name", "legal name is required")
	}

	existing, err := s.clientRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsActive {
		return nil, apperror.NewConflictError("A client with this tax ID already exists")
	}

	client := existing
	if client == nil {
		client = &entity.Client{TaxID: taxID}
	}
	applyClientInput(client, input)
	client.IsActive = true

	if existing != nil {
		err = s.clientRepo.Update(ctx, client)
	} else {
		err = s.clientRepo.Create(ctx, client)
	}
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, apperror.NewConflictError("A client with this tax ID already exists")
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil || !client.IsActive {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists active clients
func (s *ClientService) ListClients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	clients, total, err := s.clientRepo.List(ctx, &repository.ClientFilterParams{
		Pagination: params,
		Search:     search,
	})
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// UpdateClient updates a client. The RUC cannot change.
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.TaxID != "" {
		taxID, err := validateTaxID(input.TaxID)
		if err != nil {
			return nil, err
		}
		if taxID != client.TaxID {
			return nil, apperror.NewFieldError("tax_id", "tax ID cannot be changed")
		}
	}
	if input.LegalName == "" {
		input.LegalName = client.LegalName
	}
	applyClientInput(client, input)

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeactivateClient hides a client from lists; its quotations keep their snapshot.
func (s *ClientService) DeactivateClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Deactivate(ctx, id)
}

func applyClientInput(c *entity.Client, in *ClientInput) {
	c.LegalName = strings.TrimSpace(in.LegalName)
	c.TradeName = trimmedOrNil(in.TradeName)
	if in.Address != "" {
		c.Address = strings.TrimSpace(in.Address)
	}
	c.ContactName = trimmedOrNil(in.ContactName)
	c.ContactPhone = trimmedOrNil(in.ContactPhone)
	c.ContactEmail = trimmedOrNil(in.ContactEmail)
}

func validateTaxID(raw string) (string, error) {
	taxID, err := ruc.Validate(raw)
	switch {
	case errors.Is(err, ruc.ErrInvalidLength):
		return "", apperror.NewFieldError("tax_id", "tax ID must have exactly 11 digits")
	case errors.Is(err, ruc.ErrInvalidCheckSum):
		return "", apperror.NewFieldError("tax_id", "tax ID check digit is invalid")
	case err != nil:
		return "", apperror.NewFieldError("tax_id", err.Error())
	}
	return taxID, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
