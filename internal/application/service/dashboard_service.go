package service

import (
	"context"
	"time"

	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/pkg/money"
	"github.com/andesind/catalog-api/pkg/pagination"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	productRepo   repository.ProductRepository
	clientRepo    repository.ClientRepository
	contactRepo   repository.ContactRepository
	quotationRepo repository.QuotationRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	contactRepo repository.ContactRepository,
	quotationRepo repository.QuotationRepository,
) *DashboardService {
	return &DashboardService{
		productRepo:   productRepo,
		clientRepo:    clientRepo,
		contactRepo:   contactRepo,
		quotationRepo: quotationRepo,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	ActiveProducts     int64            `json:"active_products"`
	ProductsByCategory map[string]int64 `json:"products_by_category"`
	ActiveClients      int64            `json:"active_clients"`
	NewContacts        int64            `json:"new_contacts"`
	Quotations         map[string]int64 `json:"quotations"`
	ApprovedThisMonth  float64          `json:"approved_this_month"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ProductsByCategory: make(map[string]int64),
		Quotations:         make(map[string]int64),
	}

	// only the totals are needed
	paginationParams := pagination.DefaultPagination()
	paginationParams.PerPage = 1

	_, productCount, err := s.productRepo.List(ctx, &repository.ProductFilterParams{Pagination: paginationParams, OnlyActive: true})
	if err != nil {
		return nil, err
	}
	stats.ActiveProducts = productCount

	byCategory, err := s.productRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for category, n := range byCategory {
		stats.ProductsByCategory[string(category)] = n
	}

	_, clientCount, err := s.clientRepo.List(ctx, &repository.ClientFilterParams{Pagination: paginationParams})
	if err != nil {
		return nil, err
	}
	stats.ActiveClients = clientCount

	stats.NewContacts, err = s.contactRepo.CountByStatus(ctx, enum.ContactStatusNew)
	if err != nil {
		return nil, err
	}

	now := s.now()
	byStatus, err := s.quotationRepo.CountByEffectiveStatus(ctx, now)
	if err != nil {
		return nil, err
	}
	for status := enum.QuotationStatusDraft; status <= enum.QuotationStatusExpired; status++ {
		stats.Quotations[status.String()] = byStatus[status]
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	approved, err := s.quotationRepo.SumApprovedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	stats.ApprovedThisMonth = money.Round2(approved)

	return stats, nil
}
