package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/internal/infrastructure/registry"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
)

// ============================================================================
// IN-MEMORY REPOSITORIES
// ============================================================================

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]entity.Client
	writes  int
}

func newFakeClientRepo(clients ...entity.Client) *fakeClientRepo {
	r := &fakeClientRepo{clients: make(map[uuid.UUID]entity.Client)}
	for _, c := range clients {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.clients[c.ID] = c
	}
	return r
}

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clients {
		if existing.TaxID == c.TaxID {
			return repository.ErrDuplicateKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = *c
	r.writes++
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeClientRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.TaxID == taxID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = *c
	r.writes++
	return nil
}

func (r *fakeClientRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.clients[id]
	c.IsActive = false
	r.clients[id] = c
	r.writes++
	return nil
}

func (r *fakeClientRepo) List(_ context.Context, params *repository.ClientFilterParams) ([]entity.Client, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Client
	for _, c := range r.clients {
		if !c.IsActive && !params.IncludeInactive {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(c.LegalName), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

type fakeRegistry struct {
	taxpayer *registry.Taxpayer
	err      error
	calls    int
}

func (f *fakeRegistry) LookupRUC(_ context.Context, ruc string) (*registry.Taxpayer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	tp := *f.taxpayer
	tp.TaxID = ruc
	return &tp, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]entity.Product
	failWith error
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = *p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(p)
}

func (r *fakeProductRepo) create(p *entity.Product) error {
	if r.failWith != nil {
		return r.failWith
	}
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return repository.ErrDuplicateKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) CreateBatch(_ context.Context, products []entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range products {
		if err := r.create(&products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if params.OnlyActive && !p.IsActive {
			continue
		}
		if params.Category != nil && p.Category != *params.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Search(_ context.Context, query string, limit int) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	q := strings.ToLower(query)
	for _, p := range r.products {
		if !p.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), q) || p.FindVariant(query) != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProductRepo) CountByCategory(_ context.Context) (map[enum.ProductCategory]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[enum.ProductCategory]int64)
	for _, c := range enum.ProductCategories {
		counts[c] = 0
	}
	for _, p := range r.products {
		if p.IsActive {
			counts[p.Category]++
		}
	}
	return counts, nil
}

type fakeQuotationRepo struct {
	mu         sync.Mutex
	quotations map[uuid.UUID]entity.Quotation
	// duplicates makes the next N creates fail as if the number was taken
	duplicates int
	creates    int
}

func newFakeQuotationRepo(quotations ...entity.Quotation) *fakeQuotationRepo {
	r := &fakeQuotationRepo{quotations: make(map[uuid.UUID]entity.Quotation)}
	for _, q := range quotations {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		r.quotations[q.ID] = q
	}
	return r
}

func (r *fakeQuotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.duplicates > 0 {
		r.duplicates--
		r.quotations[uuid.New()] = entity.Quotation{Number: q.Number, IsActive: true}
		return repository.ErrDuplicateKey
	}
	for _, existing := range r.quotations {
		if existing.Number == q.Number {
			return repository.ErrDuplicateKey
		}
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	r.quotations[q.ID] = copyQuotation(*q)
	return nil
}

func (r *fakeQuotationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotations[id]
	if !ok || !q.IsActive {
		return nil, nil
	}
	q = copyQuotation(q)
	return &q, nil
}

func (r *fakeQuotationRepo) GetByNumber(_ context.Context, number string) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotations {
		if q.Number == number && q.IsActive {
			q = copyQuotation(q)
			return &q, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) Update(_ context.Context, q *entity.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotations[q.ID] = copyQuotation(*q)
	return nil
}

func (r *fakeQuotationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.QuotationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.quotations[id]
	q.Status = status
	r.quotations[id] = q
	return nil
}

func (r *fakeQuotationRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.quotations[id]
	q.IsActive = false
	r.quotations[id] = q
	return nil
}

func (r *fakeQuotationRepo) List(_ context.Context, params *repository.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Quotation
	for _, q := range r.quotations {
		if !q.IsActive {
			continue
		}
		if params.Status != nil && q.EffectiveStatus(params.Now) != *params.Status {
			continue
		}
		out = append(out, copyQuotation(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) NextSequence(_ context.Context, prefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.quotations {
		if strings.HasPrefix(q.Number, prefix) {
			n++
		}
	}
	return n + 1, nil
}

func (r *fakeQuotationRepo) CountByEffectiveStatus(_ context.Context, now time.Time) (map[enum.QuotationStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[enum.QuotationStatus]int64)
	for _, q := range r.quotations {
		if q.IsActive {
			counts[q.EffectiveStatus(now)]++
		}
	}
	return counts, nil
}

func (r *fakeQuotationRepo) SumApprovedSince(_ context.Context, since time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, q := range r.quotations {
		if q.IsActive && q.Status == enum.QuotationStatusApproved && !q.UpdatedAt.Before(since) {
			sum += q.Total
		}
	}
	return sum, nil
}

func copyQuotation(q entity.Quotation) entity.Quotation {
	items := make([]entity.QuotationItem, len(q.Items))
	copy(items, q.Items)
	q.Items = items
	return q
}

type fakeContactRepo struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]entity.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[uuid.UUID]entity.Contact)}
}

func (r *fakeContactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.contacts[c.ID] = *c
	return nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeContactRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.ContactStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.contacts[id]
	c.Status = status
	r.contacts[id] = c
	return nil
}

func (r *fakeContactRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.contacts[id]
	c.IsActive = false
	r.contacts[id] = c
	return nil
}

func (r *fakeContactRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string, status *enum.ContactStatus) ([]entity.Contact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Contact
	for _, c := range r.contacts {
		if !c.IsActive || (status != nil && c.Status != *status) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeContactRepo) CountByStatus(ctx context.Context, status enum.ContactStatus) (int64, error) {
	_, n, err := r.List(ctx, nil, "", &status)
	return n, err
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakePDF struct {
	rendered []string
	err      error
}

func (f *fakePDF) Generate(q *entity.Quotation) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, q.Number)
	return []byte("%PDF-1.3 " + q.Number), nil
}

var errBoom = errors.New("boom")
