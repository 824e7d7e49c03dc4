package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRUC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ruc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("numero") {
		case "20100070970":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"razonSocial": "SUPERMERCADOS PERUANOS SOCIEDAD ANONIMA",
				"numeroDocumento": "20100070970",
				"estado": "activo",
				"condicion": "habido",
				"direccion": "CAL. MORELLI NRO. 181",
				"distrito": "SAN BORJA",
				"provincia": "LIMA",
				"departamento": "LIMA"
			}`))
		case "20123456786":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", Token: "secret"})

	tp, err := c.LookupRUC(context.Background(), "20100070970")
	require.NoError(t, err)
	assert.Equal(t, "SUPERMERCADOS PERUANOS SOCIEDAD ANONIMA", tp.LegalName)
	assert.Equal(t, "CAL. MORELLI NRO. 181, SAN BORJA, LIMA", tp.Address)
	assert.Equal(t, "ACTIVO", tp.Status)
	assert.Equal(t, "HABIDO", tp.Condition)

	_, err = c.LookupRUC(context.Background(), "20123456786")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.LookupRUC(context.Background(), "20131312955")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookupRUCTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.LookupRUC(context.Background(), "20100070970")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookupRUCUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(Config{BaseURL: url}).LookupRUC(context.Background(), "20100070970")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLookupRUCMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).LookupRUC(context.Background(), "20100070970")
	assert.ErrorIs(t, err, ErrUnavailable)
}
