package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quotationFixture struct {
	service    *QuotationService
	quotations *fakeQuotationRepo
	clients    *fakeClientRepo
	products   *fakeProductRepo
	pdf        *fakePDF
	client     entity.Client
	clamp      *entity.Product
	epoxy      *entity.Product
}

func newQuotationFixture(t *testing.T) *quotationFixture {
	t.Helper()
	client := entity.Client{ID: uuid.New(), TaxID: "20100070970", LegalName: "ACME SAC", Address: "Av. Colonial 100", IsActive: true}
	clamp := &entity.Product{
		ID: uuid.New(), Name: "Abrazadera de reparación", Slug: "abrazadera-reparacion",
		Category: enum.CategoryClamps, Unit: "UND", IsActive: true,
		Variants: []entity.ProductVariant{
			{Code: "AR-2", Description: "Abrazadera 2\"", UnitPrice: 100, Unit: "UND"},
			{Code: "AR-4", Description: "Abrazadera 4\"", UnitPrice: 150, Unit: "UND", Position: 1},
		},
	}
	epoxy := &entity.Product{
		ID: uuid.New(), Name: "Masilla epóxica 50 ml", Slug: "masilla-epoxica-50",
		Category: enum.CategoryEpoxy, BasePrice: 32.5, Unit: "TUBO", IsActive: true,
	}

	f := &quotationFixture{
		quotations: newFakeQuotationRepo(),
		clients:    newFakeClientRepo(client),
		products:   newFakeProductRepo(clamp, epoxy),
		pdf:        &fakePDF{},
		client:     client,
		clamp:      clamp,
		epoxy:      epoxy,
	}
	f.service = NewQuotationService(f.quotations, f.clients, f.products, f.pdf, QuotationSettings{
		ValidityDays: 15,
		TaxRate:      18,
		NumberPrefix: "COT",
		DefaultTerms: "Precios no incluyen flete.",
	}, nil)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func (f *quotationFixture) input(items ...QuotationItemInput) *QuotationInput {
	id := f.client.ID
	return &QuotationInput{UserID: uuid.New(), ClientID: &id, Items: items}
}

func (f *quotationFixture) create(t *testing.T) *entity.Quotation {
	t.Helper()
	q, err := f.service.CreateQuotation(context.Background(), f.input(
		QuotationItemInput{ProductID: f.clamp.ID, Code: "AR-2", Quantity: 1},
		QuotationItemInput{ProductID: f.clamp.ID, Code: "AR-4", Quantity: 1},
	))
	require.NoError(t, err)
	return q
}

func TestCreateQuotationSnapshotsCatalogAndComputesTotals(t *testing.T) {
	f := newQuotationFixture(t)

	q := f.create(t)

	assert.Equal(t, "COT-202610-0001", q.Number)
	assert.Equal(t, enum.QuotationStatusDraft, q.Status)
	assert.Equal(t, enum.CurrencyPEN, q.Currency)
	assert.Equal(t, fixedNow.AddDate(0, 0, 15), q.ExpirationDate)
	assert.Equal(t, "ACME SAC", q.ClientSnapshot.Data().LegalName)
	require.NotNil(t, q.Terms)
	assert.Equal(t, "Precios no incluyen flete.", *q.Terms)

	assert.Equal(t, 250.0, q.Subtotal)
	assert.Equal(t, 45.0, q.TaxAmount)
	assert.Equal(t, 295.0, q.Total)

	require.Len(t, q.Items, 2)
	assert.Equal(t, 1, q.Items[0].Sequence)
	assert.Equal(t, "AR-2", q.Items[0].Code)
	assert.Equal(t, 100.0, q.Items[0].UnitPrice)
	assert.Equal(t, 2, q.Items[1].Sequence)
	assert.Equal(t, "Abrazadera 4\"", q.Items[1].Description)
	assert.Len(t, f.quotations.quotations, 1)
}

func TestCreateQuotationKeepsQuantityAndDiscount(t *testing.T) {
	f := newQuotationFixture(t)
	rate := 0.0

	in := f.input(QuotationItemInput{ProductID: f.clamp.ID, Code: "ar-4", Quantity: 4, Discount: 10})
	in.TaxRate = &rate
	in.Currency = "usd"
	q, err := f.service.CreateQuotation(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 540.0, q.Items[0].Subtotal)
	assert.InDelta(t, 60.0, q.DiscountTotal, 1e-9)
	assert.Zero(t, q.TaxAmount)
	assert.Equal(t, q.Subtotal, q.Total)
	assert.Equal(t, enum.CurrencyUSD, q.Currency)
}

func TestCreateQuotationUsesSyntheticVariant(t *testing.T) {
	f := newQuotationFixture(t)

	q, err := f.service.CreateQuotation(context.Background(), f.input(
		QuotationItemInput{ProductID: f.epoxy.ID, Quantity: 2},
		QuotationItemInput{ProductID: f.epoxy.ID, Code: "MASILLA-EPOXICA-50", Quantity: 1},
	))
	require.NoError(t, err)
	require.Len(t, q.Items, 2)
	assert.Equal(t, "MASILLA-EPOXICA-50", q.Items[0].Code)
	assert.Equal(t, "TUBO", q.Items[0].Unit)
	assert.Equal(t, 65.0, q.Items[0].Subtotal)
	assert.Equal(t, 97.5, q.Subtotal)
}

func TestCreateQuotationRejectsWholeSubmission(t *testing.T) {
	f := newQuotationFixture(t)
	inactive := entity.Client{ID: uuid.New(), TaxID: "20131312955", LegalName: "OLD", IsActive: false}
	f.clients.clients[inactive.ID] = inactive

	in := &QuotationInput{
		ClientID: &inactive.ID,
		Items: []QuotationItemInput{
			{ProductID: f.clamp.ID, Code: "AR-2", Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
			{ProductID: f.clamp.ID, Code: "AR-99", Quantity: 1},
			{ProductID: f.clamp.ID, Quantity: 1},
		},
	}
	_, err := f.service.CreateQuotation(context.Background(), in)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)

	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"client", "items[1].product_id", "items[2].code", "items[3].code"}, fields)
	assert.Zero(t, f.quotations.creates)
}

func TestCreateQuotationRejectsEmptyAndExpired(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateQuotation(ctx, f.input())
	requireAppError(t, err, http.StatusUnprocessableEntity)

	past := fixedNow.Add(-time.Hour)
	in := f.input(QuotationItemInput{ProductID: f.epoxy.ID, Quantity: 1})
	in.ExpirationDate = &past
	_, err = f.service.CreateQuotation(ctx, in)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	approved := enum.QuotationStatusApproved
	in = f.input(QuotationItemInput{ProductID: f.epoxy.ID, Quantity: 1})
	in.Status = &approved
	_, err = f.service.CreateQuotation(ctx, in)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	assert.Zero(t, f.quotations.creates)
}

func TestCreateQuotationRejectsDeactivatedProduct(t *testing.T) {
	f := newQuotationFixture(t)
	p := f.products.products[f.epoxy.ID]
	p.IsActive = false
	f.products.products[f.epoxy.ID] = p

	_, err := f.service.CreateQuotation(context.Background(), f.input(QuotationItemInput{ProductID: f.epoxy.ID, Quantity: 1}))
	requireAppError(t, err, http.StatusUnprocessableEntity)
}

func TestCreateQuotationRetriesTakenNumber(t *testing.T) {
	f := newQuotationFixture(t)
	f.quotations.duplicates = 1

	q := f.create(t)
	assert.Equal(t, "COT-202610-0002", q.Number)
	assert.Equal(t, 2, f.quotations.creates)

	next := f.create(t)
	assert.Equal(t, "COT-202610-0003", next.Number)
}

func TestQuotationStatusLifecycle(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t)

	_, err := f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusApproved)
	requireAppError(t, err, http.StatusConflict)

	sent, err := f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusSent, sent.Status)

	_, err = f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusDraft)
	requireAppError(t, err, http.StatusConflict)

	approved, err := f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusApproved, approved.Status)

	_, err = f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusRejected)
	assert.ErrorIs(t, err, apperror.ErrQuotationLocked)

	_, err = f.service.UpdateQuotation(ctx, q.ID, f.input(QuotationItemInput{ProductID: f.epoxy.ID, Quantity: 1}))
	assert.ErrorIs(t, err, apperror.ErrQuotationLocked)

	err = f.service.DeleteQuotation(ctx, q.ID)
	assert.ErrorIs(t, err, apperror.ErrQuotationLocked)

	stored, err := f.service.GetQuotation(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 295.0, stored.Total)
}

func TestSentQuotationPastExpirationIsExpired(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t)
	_, err := f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusSent)
	require.NoError(t, err)

	f.service.now = func() time.Time { return fixedNow.AddDate(0, 0, 16) }

	got, err := f.service.GetQuotation(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusExpired, got.Status)
	assert.Equal(t, enum.QuotationStatusSent, f.quotations.quotations[q.ID].Status)

	_, err = f.service.ChangeStatus(ctx, q.ID, enum.QuotationStatusApproved)
	requireAppError(t, err, http.StatusConflict)

	list, err := f.service.ListQuotations(ctx, &ListQuotationsInput{Status: "vencida"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, enum.QuotationStatusExpired, list.Items[0].Status)
}

func TestUpdateQuotationRecomputesAndKeepsNumber(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t)

	in := &QuotationInput{Items: []QuotationItemInput{
		{ProductID: f.clamp.ID, Code: "AR-4", Quantity: 2, Discount: 50},
	}}
	updated, err := f.service.UpdateQuotation(ctx, q.ID, in)
	require.NoError(t, err)

	assert.Equal(t, q.Number, updated.Number)
	assert.Equal(t, f.client.ID, updated.ClientID)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 1, updated.Items[0].Sequence)
	assert.Equal(t, 150.0, updated.Subtotal)
	assert.Equal(t, 27.0, updated.TaxAmount)
	assert.Equal(t, 177.0, updated.Total)
}

func TestDeleteQuotationDeactivates(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t)

	require.NoError(t, f.service.DeleteQuotation(ctx, q.ID))
	_, err := f.service.GetQuotation(ctx, q.ID)
	requireAppError(t, err, http.StatusNotFound)
	assert.False(t, f.quotations.quotations[q.ID].IsActive)
}

func TestListQuotationsRejectsUnknownStatus(t *testing.T) {
	f := newQuotationFixture(t)
	_, err := f.service.ListQuotations(context.Background(), &ListQuotationsInput{Status: "ARCHIVADA"})
	requireAppError(t, err, http.StatusUnprocessableEntity)
}

func TestRenderPDF(t *testing.T) {
	f := newQuotationFixture(t)
	q := f.create(t)

	got, doc, err := f.service.RenderPDF(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Number, got.Number)
	assert.Contains(t, string(doc), "%PDF")
	assert.Equal(t, []string{q.Number}, f.pdf.rendered)

	f.pdf.err = errBoom
	_, _, err = f.service.RenderPDF(context.Background(), q.ID)
	requireAppError(t, err, http.StatusInternalServerError)
}
