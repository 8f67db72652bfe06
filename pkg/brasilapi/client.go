// Package brasilapi looks up CNPJ registration data on BrasilAPI.
package brasilapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://brasilapi.com.br/api"

// ErrInvalidCNPJ is returned for identifiers that are not 14 digits after
// digit-filtering. No request is made for them.
var ErrInvalidCNPJ = eris.New("brasilapi: cnpj must have 14 digits")

// Client performs CNPJ lookups.
type Client interface {
	LookupCNPJ(ctx context.Context, cnpj string) (*CNPJResponse, error)
}

// CNPJResponse is the registry record for a legal entity.
type CNPJResponse struct {
	RazaoSocial string    `json:"razao_social"`
	CEP         string    `json:"cep"`
	Logradouro  string    `json:"logradouro"`
	Numero      string    `json:"numero"`
	Complemento string    `json:"complemento"`
	Bairro      string    `json:"bairro"`
	Municipio   string    `json:"municipio"`
	UF          string    `json:"uf"`
	QSA         []Partner `json:"qsa"`
}

// Partner is one entry in the ownership list (quadro societário).
type Partner struct {
	NomeSocio string `json:"nome_socio"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a BrasilAPI client. Every lookup waits on a limiter
// allowing one call per cooldown interval; the free tier enforces a low
// per-minute quota.
func NewClient(cooldown time.Duration, opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(cooldown), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) LookupCNPJ(ctx context.Context, cnpj string) (*CNPJResponse, error) {
	cleaned := digitsOnly(cnpj)
	if len(cleaned) != 14 {
		return nil, ErrInvalidCNPJ
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "brasilapi: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cnpj/v1/"+cleaned, nil)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "brasilapi: lookup %s", cleaned)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("brasilapi: unexpected status %d for cnpj %s: %s",
			resp.StatusCode, cleaned, string(body))
	}

	var result CNPJResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "brasilapi: unmarshal response")
	}

	return &result, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
