// Package tiny integra el cadastro con la API de contatos del ERP externo:
// mapeo del cliente al esquema de contato y envío a contato.incluir.php.
package tiny

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jhoicas/client-intake/internal/domain"
)

const (
	// DefaultBaseURL base de la API v2.
	DefaultBaseURL = "https://api.tiny.com.br/api2/"

	includeContactPath = "contato.incluir.php"
	formatJSON         = "json"
	maxResponseBytes   = 256 * 1024
)

// Client cliente HTTP de la API externa. Usa net/http sin reintentos ni timeout propio:
// vale el del transporte.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient construye el cliente. Un token vacío no falla aquí: cada envío devuelve
// domain.ErrMissingAPIToken antes de tocar la red.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, token: token, httpClient: httpClient}
}

// Configured indica si hay token.
func (c *Client) Configured() bool {
	return c.token != ""
}

// IncludeContact envía un único contato. Devuelve el envelope decodificado (con el cuerpo
// crudo) o error de configuración, transporte o decodificación. Un status distinto de
// "OK" no es error a este nivel: lo interpreta quien llama con Envelope.OK.
func (c *Client) IncludeContact(ctx context.Context, contact Contact) (*Envelope, error) {
	if c.token == "" {
		return nil, domain.ErrMissingAPIToken
	}

	payload, err := json.Marshal(contactRequest{Contatos: []contactItem{{Contato: contact}}})
	if err != nil {
		return nil, fmt.Errorf("tiny: serializar contato: %w", err)
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("formato", formatJSON)
	form.Set("contato", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+includeContactPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("tiny: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tiny: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("tiny: leer respuesta: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("tiny: HTTP %d, respuesta no JSON: %w", resp.StatusCode, err)
	}
	env.Raw = raw
	return &env, nil
}
