// Package viacep consulta el servicio público de CEP para autocompletar la dirección
// del cadastro.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/client-intake/internal/domain"
)

const (
	// DefaultBaseURL base pública del servicio.
	DefaultBaseURL = "https://viacep.com.br/ws/"

	defaultTimeout   = 5 * time.Second
	maxResponseBytes = 64 * 1024
)

// Address respuesta de /ws/<cep>/json/.
type Address struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro,omitempty"`
}

// notFound el servicio responde {"erro": true} (o "true" en versiones nuevas).
func (a Address) notFound() bool {
	switch v := a.Erro.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Client cliente HTTP del servicio de CEP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. httpClient nil usa uno con timeout de 5s.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Lookup consulta un CEP de 8 dígitos. Devuelve domain.ErrNotFound si el servicio no lo conoce.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cep+"/json/", nil)
	if err != nil {
		return nil, fmt.Errorf("viacep: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("viacep: leer respuesta: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: CEP %s", domain.ErrNotFound, cep)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: CEP %s", domain.ErrInvalidCEP, cep)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("viacep: HTTP %d", resp.StatusCode)
	}

	var addr Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, fmt.Errorf("viacep: respuesta no JSON: %w", err)
	}
	if addr.notFound() {
		return nil, fmt.Errorf("%w: CEP %s", domain.ErrNotFound, cep)
	}
	return &addr, nil
}
