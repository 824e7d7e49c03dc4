package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesPhone = "+51 987 654 321"

func TestSubmitContactReturnsWhatsAppLink(t *testing.T) {
	f := newQuotationFixture(t)
	contacts := newFakeContactRepo()
	s := NewContactService(contacts, f.products, salesPhone, nil)

	company := "ACME"
	qty := 12
	out, err := s.SubmitContact(context.Background(), &ContactInput{
		Name:      " Rosa Quispe ",
		Company:   &company,
		Phone:     "987 111 222",
		ProductID: &f.clamp.ID,
		Quantity:  &qty,
		Message:   "Entrega en Arequipa",
	})
	require.NoError(t, err)

	assert.Equal(t, "51987111222", out.Contact.Phone)
	assert.Equal(t, enum.ContactStatusNew, out.Contact.Status)
	assert.Equal(t, enum.ContactSourceForm, out.Contact.Source)
	assert.Len(t, contacts.contacts, 1)

	require.True(t, strings.HasPrefix(out.WhatsAppLink, "https://wa.me/51987654321?text="))
	link, err := url.Parse(out.WhatsAppLink)
	require.NoError(t, err)
	text := link.Query().Get("text")
	assert.Contains(t, text, "Abrazadera de reparación (cantidad: 12)")
	assert.Contains(t, text, "Soy Rosa Quispe de ACME.")
	assert.Contains(t, text, "Entrega en Arequipa")
}

func TestSubmitContactValidation(t *testing.T) {
	f := newQuotationFixture(t)
	contacts := newFakeContactRepo()
	s := NewContactService(contacts, f.products, salesPhone, nil)

	missing := uuid.New()
	zero := 0
	_, err := s.SubmitContact(context.Background(), &ContactInput{
		Phone: "123", ProductID: &missing, Quantity: &zero,
	})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, appErr.Errors, 4)
	assert.Empty(t, contacts.contacts)
}

func TestProductWhatsAppLink(t *testing.T) {
	f := newQuotationFixture(t)
	s := NewContactService(newFakeContactRepo(), f.products, salesPhone, nil)

	link, err := s.ProductWhatsAppLink(context.Background(), "masilla-epoxica-50", 3)
	require.NoError(t, err)
	assert.Contains(t, link, url.QueryEscape("Masilla epóxica 50 ml (cantidad: 3)"))

	_, err = s.ProductWhatsAppLink(context.Background(), "missing", 0)
	requireAppError(t, err, http.StatusNotFound)
}

func TestContactAdminOperations(t *testing.T) {
	f := newQuotationFixture(t)
	s := NewContactService(newFakeContactRepo(), f.products, salesPhone, nil)
	ctx := context.Background()

	out, err := s.SubmitContact(ctx, &ContactInput{Name: "Luis", Phone: "014445555"})
	require.NoError(t, err)
	id := out.Contact.ID

	updated, err := s.UpdateContactStatus(ctx, id, enum.ContactStatusContacted)
	require.NoError(t, err)
	assert.Equal(t, enum.ContactStatusContacted, updated.Status)

	list, err := s.ListContacts(ctx, &ListContactsInput{Status: "nuevo"})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	_, err = s.ListContacts(ctx, &ListContactsInput{Status: "whatever"})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	require.NoError(t, s.DeleteContact(ctx, id))
	_, err = s.GetContact(ctx, id)
	requireAppError(t, err, http.StatusNotFound)
}
