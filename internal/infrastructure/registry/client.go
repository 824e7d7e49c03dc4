// Package registry queries the national tax registry (SUNAT) for the legal
// data behind a RUC.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrNotFound means the registry answered and has no taxpayer for the RUC.
	ErrNotFound = errors.New("registry: taxpayer not found")
	// ErrUnavailable wraps every other failure: network, timeout, 5xx,
	// unexpected payloads.
	ErrUnavailable = errors.New("registry: service unavailable")
)

// Taxpayer is the registry view of a company.
type Taxpayer struct {
	TaxID     string
	LegalName string
	Address   string
	Status    string
	Condition string
}

// Lookup resolves a RUC against the registry.
type Lookup interface {
	LookupRUC(ctx context.Context, ruc string) (*Taxpayer, error)
}

// Config configures the HTTP client
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to a SUNAT RUC lookup API of the form GET {base}/ruc?numero=.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a registry client. A non-empty token is sent as a
// Bearer credential on every request.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	httpClient := &http.Client{}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

type rucResponse struct {
	RazonSocial     string `json:"razonSocial"`
	NumeroDocumento string `json:"numeroDocumento"`
	Estado          string `json:"estado"`
	Condicion       string `json:"condicion"`
	Direccion       string `json:"direccion"`
	Distrito        string `json:"distrito"`
	Provincia       string `json:"provincia"`
	Departamento    string `json:"departamento"`
}

// LookupRUC fetches the taxpayer registered under ruc.
func (c *Client) LookupRUC(ctx context.Context, ruc string) (*Taxpayer, error) {
	endpoint := c.baseURL + "/ruc?" + url.Values{"numero": {ruc}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var payload rucResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if payload.RazonSocial == "" {
		return nil, ErrNotFound
	}

	return &Taxpayer{
		TaxID:     firstNonEmpty(payload.NumeroDocumento, ruc),
		LegalName: strings.TrimSpace(payload.RazonSocial),
		Address:   joinAddress(payload),
		Status:    strings.ToUpper(strings.TrimSpace(payload.Estado)),
		Condition: strings.ToUpper(strings.TrimSpace(payload.Condicion)),
	}, nil
}

func joinAddress(p rucResponse) string {
	parts := []string{strings.TrimSpace(p.Direccion)}
	for _, s := range []string{p.Distrito, p.Provincia, p.Departamento} {
		s = strings.TrimSpace(s)
		// some providers already append the ubigeo to the street address
		if s != "" && s != "-" && !strings.Contains(strings.ToUpper(parts[0]), strings.ToUpper(s)) {
			parts = append(parts, s)
		}
	}
	if parts[0] == "" || parts[0] == "-" {
		parts = parts[1:]
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
