package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/client-intake/internal/application/dto"
	"github.com/jhoicas/client-intake/internal/domain"
)

const (
	clientsPath      = "/api/clients"
	addressPath      = "/api/address/"
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 64 * 1024
)

var (
	_ Submitter     = (*HTTPClient)(nil)
	_ AddressLookup = (*HTTPClient)(nil)
)

// HTTPClient habla con la API de cadastro: envío del formulario y consulta de CEP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient construye el cliente para el servidor en baseURL (p. ej. http://localhost:8080).
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Submit POST /api/clients. Cualquier status con cuerpo IntakeResponse es una respuesta
// declarada; solo fallos de red o cuerpos ilegibles devuelven error.
func (c *HTTPClient) Submit(ctx context.Context, in dto.ClientSubmission) (dto.IntakeResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return dto.IntakeResponse{}, fmt.Errorf("wizard: serializar formulario: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+clientsPath, bytes.NewReader(body))
	if err != nil {
		return dto.IntakeResponse{}, fmt.Errorf("wizard: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out dto.IntakeResponse
	status, err := c.do(req, &out)
	if err != nil {
		return dto.IntakeResponse{}, err
	}
	if status >= http.StatusInternalServerError && out.Message == "" {
		return dto.IntakeResponse{}, fmt.Errorf("wizard: HTTP %d sin respuesta declarada", status)
	}
	return out, nil
}

// LookupAddress GET /api/address/:cep.
func (c *HTTPClient) LookupAddress(ctx context.Context, cep string) (*dto.AddressResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+addressPath+url.PathEscape(cep), nil)
	if err != nil {
		return nil, fmt.Errorf("wizard: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out dto.AddressResponse
	status, err := c.do(req, &out)
	switch {
	case status == http.StatusBadRequest:
		return nil, domain.ErrInvalidCEP
	case status == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case err != nil:
		return nil, err
	case status != http.StatusOK:
		return nil, fmt.Errorf("wizard: consulta de CEP HTTP %d", status)
	}
	return &out, nil
}

func (c *HTTPClient) do(req *http.Request, dst any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("wizard: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("wizard: leer respuesta: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return resp.StatusCode, fmt.Errorf("wizard: HTTP %d, respuesta no JSON: %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}
