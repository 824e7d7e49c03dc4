package repository

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/pricing"
	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/internal/infrastructure/database"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedClient(t *testing.T, db *gorm.DB, taxID, name string) *entity.Client {
	t.Helper()
	c := &entity.Client{TaxID: taxID, LegalName: name, Address: "Av. Argentina 1234, Lima", IsActive: true}
	require.NoError(t, NewClientRepository(db).Create(context.Background(), c))
	return c
}

func clampProduct(name, slug string, codes ...string) *entity.Product {
	p := &entity.Product{
		Name:      name,
		Slug:      slug,
		Category:  enum.CategoryClamps,
		Details:   datatypes.JSON(`{"material":"Hierro dúctil","min_diameter_mm":50,"max_diameter_mm":110}`),
		BasePrice: 100,
		Unit:      "UND",
		IsActive:  true,
	}
	for i, code := range codes {
		p.Variants = append(p.Variants, entity.ProductVariant{
			Code:        code,
			Description: name + " " + code,
			UnitPrice:   float64(100 + 50*i),
			Unit:        "UND",
		})
	}
	return p
}

func TestClientRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	acme := seedClient(t, db, "20100070970", "Acme Industrial S.A.C.")
	seedClient(t, db, "20131312955", "Minera del Sur S.A.")

	got, err := repo.GetByTaxID(ctx, "20100070970")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, acme.ID, got.ID)

	missing, err := repo.GetByTaxID(ctx, "20123456786")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := &entity.Client{TaxID: "20100070970", LegalName: "Otra"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domainRepo.ErrDuplicateKey)

	clients, total, err := repo.List(ctx, &domainRepo.ClientFilterParams{Pagination: pagination.New(1, 10), Search: "MINERA"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "20131312955", clients[0].TaxID)

	require.NoError(t, repo.Deactivate(ctx, acme.ID))
	_, total, err = repo.List(ctx, &domainRepo.ClientFilterParams{Pagination: pagination.New(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// a deactivated client is still found by RUC so it can be reactivated
	got, err = repo.GetByTaxID(ctx, "20100070970")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
}

func TestProductRepositoryVariants(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := clampProduct("Abrazadera de reparación", "abrazadera-reparacion", "AR-6", "AR-2", "AR-4")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetBySlug(ctx, "abrazadera-reparacion")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Variants, 3)
	assert.Equal(t, []string{"AR-6", "AR-2", "AR-4"}, variantCodes(got))

	got.Name = "Abrazadera de reparación larga"
	got.Variants = []entity.ProductVariant{
		{Code: "ARL-4", UnitPrice: 300},
		{Code: "ARL-8", UnitPrice: 480},
	}
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abrazadera de reparación larga", reloaded.Name)
	assert.Equal(t, []string{"ARL-4", "ARL-8"}, variantCodes(reloaded))

	var variantRows int64
	require.NoError(t, db.Model(&entity.ProductVariant{}).Count(&variantRows).Error)
	assert.EqualValues(t, 2, variantRows)

	require.NoError(t, repo.Delete(ctx, p.ID))
	gone, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProductRepositorySearchAndCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	epoxy := &entity.Product{Name: "Masilla epóxica", Slug: "masilla-epoxica", Category: enum.CategoryEpoxy, BasePrice: 32.5, IsActive: true}
	require.NoError(t, repo.CreateBatch(ctx, []entity.Product{
		*clampProduct("Abrazadera de reparación", "abrazadera-reparacion", "AR-2", "AR-4"),
		*clampProduct("Abrazadera de derivación", "abrazadera-derivacion", "AD-2"),
		*epoxy,
	}))

	found, err := repo.Search(ctx, "ad-2", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "abrazadera-derivacion", found[0].Slug)

	found, err = repo.Search(ctx, "ABRAZADERA", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	category := enum.CategoryEpoxy
	list, total, err := repo.List(ctx, &domainRepo.ProductFilterParams{
		Pagination: pagination.New(1, 10),
		Category:   &category,
		OnlyActive: true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, list[0].Variants)

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[enum.CategoryClamps])
	assert.EqualValues(t, 1, counts[enum.CategoryEpoxy])
	assert.EqualValues(t, 0, counts[enum.CategoryKits])
}

func newQuotation(client *entity.Client, number string, status enum.QuotationStatus, expires time.Time, total float64) *entity.Quotation {
	return &entity.Quotation{
		Number:         number,
		ClientID:       client.ID,
		ClientSnapshot: datatypes.NewJSONType(client.Snapshot()),
		Currency:       enum.CurrencyPEN,
		TaxRate:        18,
		Subtotal:       total / 1.18,
		Total:          total,
		Status:         status,
		ExpirationDate: expires,
		CreatedBy:      uuid.New(),
		IsActive:       true,
		Items: []entity.QuotationItem{
			{Sequence: 1, ProductID: uuid.New(), Code: "AR-2", Quantity: 1, UnitPrice: 100, Subtotal: 100},
			{Sequence: 2, ProductID: uuid.New(), Code: "AR-4", Quantity: 1, UnitPrice: 150, Subtotal: 150},
		},
	}
}

func TestQuotationRepositoryPersistsItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuotationRepository(db)
	ctx := context.Background()
	client := seedClient(t, db, "20100070970", "Acme Industrial S.A.C.")

	q := newQuotation(client, "COT-202610-0001", enum.QuotationStatusDraft, time.Now().Add(24*time.Hour), 295)
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.GetByNumber(ctx, "COT-202610-0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "AR-2", got.Items[0].Code)
	assert.Equal(t, "Acme Industrial S.A.C.", got.ClientSnapshot.Data().LegalName)

	got.Items = got.Items[1:]
	got.Items[0].Sequence = 1
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "AR-4", reloaded.Items[0].Code)

	require.NoError(t, repo.Deactivate(ctx, q.ID))
	gone, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestQuotationRepositoryKeepsComputedAmounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuotationRepository(db)
	ctx := context.Background()
	client := seedClient(t, db, "20100070970", "Acme Industrial S.A.C.")

	priced := []pricing.Line{
		{Quantity: 1, UnitPrice: 10.05, Discount: 50},
		{Quantity: 1, UnitPrice: 10.05, Discount: 50},
		{Quantity: 3, UnitPrice: 7.77, Discount: 33.333},
	}
	totals := pricing.Calculate(priced, 18)

	q := newQuotation(client, "COT-202610-0002", enum.QuotationStatusDraft, time.Now().Add(24*time.Hour), totals.Total)
	q.Items = nil
	for i, l := range priced {
		q.Items = append(q.Items, entity.QuotationItem{
			Sequence:  i + 1,
			ProductID: uuid.New(),
			Code:      "X-" + strconv.Itoa(i+1),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Subtotal:  pricing.LineSubtotal(l),
		})
	}
	q.Subtotal = totals.Subtotal
	q.DiscountTotal = totals.DiscountTotal
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	var sum float64
	reloaded := make([]pricing.Line, len(got.Items))
	for i, it := range got.Items {
		sum += it.Subtotal
		reloaded[i] = pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Discount: it.Discount}
	}
	assert.InDelta(t, got.Subtotal, sum, 1e-9)
	assert.Equal(t, 33.333, got.Items[2].Discount)

	again := pricing.Calculate(reloaded, got.TaxRate)
	assert.InDelta(t, got.Subtotal, again.Subtotal, 1e-9)
	assert.InDelta(t, got.TaxAmount, again.TaxAmount, 1e-9)
	assert.InDelta(t, got.Total, again.Total, 1e-9)
}

func TestQuotationRepositoryNextSequence(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuotationRepository(db)
	ctx := context.Background()
	client := seedClient(t, db, "20100070970", "Acme Industrial S.A.C.")

	next, err := repo.NextSequence(ctx, "COT-202610-")
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	expires := time.Now().Add(time.Hour)
	for _, n := range []string{"COT-202610-0009", "COT-202610-0010", "COT-202609-0044"} {
		require.NoError(t, repo.Create(ctx, newQuotation(client, n, enum.QuotationStatusDraft, expires, 10)))
	}
	deleted := newQuotation(client, "COT-202610-0011", enum.QuotationStatusDraft, expires, 10)
	require.NoError(t, repo.Create(ctx, deleted))
	require.NoError(t, repo.Deactivate(ctx, deleted.ID))

	next, err = repo.NextSequence(ctx, "COT-202610-")
	require.NoError(t, err)
	assert.Equal(t, 12, next)

	next, err = repo.NextSequence(ctx, "COT-202609-")
	require.NoError(t, err)
	assert.Equal(t, 45, next)
}

func TestQuotationRepositoryEffectiveStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuotationRepository(db)
	ctx := context.Background()
	client := seedClient(t, db, "20100070970", "Acme Industrial S.A.C.")

	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	fixtures := []*entity.Quotation{
		newQuotation(client, "COT-202610-0001", enum.QuotationStatusSent, past, 100),
		newQuotation(client, "COT-202610-0002", enum.QuotationStatusSent, future, 200),
		newQuotation(client, "COT-202610-0003", enum.QuotationStatusExpired, past, 300),
		newQuotation(client, "COT-202610-0004", enum.QuotationStatusApproved, past, 400),
		newQuotation(client, "COT-202610-0005", enum.QuotationStatusDraft, future, 500),
	}
	for _, q := range fixtures {
		require.NoError(t, repo.Create(ctx, q))
	}

	expired := enum.QuotationStatusExpired
	list, total, err := repo.List(ctx, &domainRepo.QuotationFilterParams{
		Pagination: pagination.New(1, 10),
		Status:     &expired,
		Now:        now,
		SortBy:     "number",
		SortOrder:  "asc",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "COT-202610-0001", list[0].Number)
	assert.Equal(t, "COT-202610-0003", list[1].Number)

	sent := enum.QuotationStatusSent
	list, total, err = repo.List(ctx, &domainRepo.QuotationFilterParams{
		Pagination: pagination.New(1, 10),
		Status:     &sent,
		Now:        now,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "COT-202610-0002", list[0].Number)

	counts, err := repo.CountByEffectiveStatus(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[enum.QuotationStatusSent])
	assert.EqualValues(t, 2, counts[enum.QuotationStatusExpired])
	assert.EqualValues(t, 1, counts[enum.QuotationStatusApproved])
	assert.EqualValues(t, 1, counts[enum.QuotationStatusDraft])
	assert.EqualValues(t, 0, counts[enum.QuotationStatusRejected])

	// updated_at is written in local time by gorm
	sum, err := repo.SumApprovedSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 400, sum, 0.001)

	list, _, err = repo.List(ctx, &domainRepo.QuotationFilterParams{
		Pagination: pagination.New(1, 10),
		Search:     "acme",
	})
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestContactRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	company := "Acme"
	first := &entity.Contact{Name: "Rosa Quispe", Company: &company, Phone: "987654321", Message: "Cotizar 20 abrazaderas", Source: enum.ContactSourceForm, IsActive: true}
	second := &entity.Contact{Name: "Luis Huamán", Phone: "912345678", Source: enum.ContactSourceWhatsApp, IsActive: true}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, enum.ContactStatusContacted))

	newCount, err := repo.CountByStatus(ctx, enum.ContactStatusNew)
	require.NoError(t, err)
	assert.EqualValues(t, 1, newCount)

	status := enum.ContactStatusContacted
	list, total, err := repo.List(ctx, pagination.New(1, 10), "acme", &status)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Rosa Quispe", list[0].Name)

	require.NoError(t, repo.Deactivate(ctx, second.ID))
	gone, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUserAndIdempotencyRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	u := &entity.User{Name: "Ventas", Email: " Ventas@Andes.pe ", Password: "x", Role: enum.RoleSales, IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByEmail(ctx, "VENTAS@andes.pe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	keys := NewIdempotencyRepository(db)
	stale := &entity.IdempotencyKey{Key: "k1", UserID: u.ID, Endpoint: "/api/v1/quotations", ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, keys.Reserve(ctx, stale))

	miss, err := keys.GetByKey(ctx, "k1", u.ID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	pending := &entity.IdempotencyKey{Key: "k1", UserID: u.ID, Endpoint: "/api/v1/quotations", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, keys.Reserve(ctx, pending))

	second := &entity.IdempotencyKey{Key: "k1", UserID: u.ID, Endpoint: "/api/v1/quotations", ExpiresAt: time.Now().Add(time.Hour)}
	assert.ErrorIs(t, keys.Reserve(ctx, second), domainRepo.ErrDuplicateKey)

	held, err := keys.GetByKey(ctx, "k1", u.ID)
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.True(t, held.IsPending())

	require.NoError(t, keys.Release(ctx, "k1", u.ID))
	require.NoError(t, keys.Reserve(ctx, second))

	second.ResponseCode = 201
	second.ResponseBody = "{}"
	require.NoError(t, keys.Complete(ctx, second))

	hit, err := keys.GetByKey(ctx, "k1", u.ID)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.False(t, hit.IsPending())
	assert.Equal(t, "{}", hit.ResponseBody)

	// a completed key is never released
	require.NoError(t, keys.Release(ctx, "k1", u.ID))
	hit, err = keys.GetByKey(ctx, "k1", u.ID)
	require.NoError(t, err)
	assert.NotNil(t, hit)

	require.NoError(t, keys.DeleteExpired(ctx))
}

func variantCodes(p *entity.Product) []string {
	codes := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		codes[i] = v.Code
	}
	return codes
}
