package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"painelans/backend/services/painel/internal/models"
)

var (
	// ErrNotFound is returned when the operator API answers 404.
	ErrNotFound = errors.New("clients: not found")
	// ErrMalformedResponse is returned when a response body lacks the expected shape.
	ErrMalformedResponse = errors.New("clients: malformed response")
)

// OperadorasClient talks to the operator API. The base URL carries the /api prefix.
type OperadorasClient struct {
	base *BaseClient
}

// NewOperadorasClient returns client. token, when set, is sent as a bearer credential.
func NewOperadorasClient(baseURL, token string, httpClient HTTPDoer) *OperadorasClient {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return &OperadorasClient{base: NewBaseClient(baseURL, httpClient, headers)}
}

// ListOperadoras issues GET /operadoras and returns the records of the nested data array
// as received. The body must carry a data field holding an array; records themselves are
// not inspected.
func (c *OperadorasClient) ListOperadoras(ctx context.Context) ([]json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.getJSON(ctx, "/operadoras", &envelope); err != nil {
		return nil, err
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedResponse)
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("%w: data is not an array", ErrMalformedResponse)
	}
	records := []json.RawMessage{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return records, nil
}

// GetOperadora fetches one operator by CNPJ or registro ANS.
func (c *OperadorasClient) GetOperadora(ctx context.Context, id string) (*models.Operadora, error) {
	var o models.Operadora
	if err := c.getJSON(ctx, "/operadoras/"+url.PathEscape(id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListDespesas fetches the expense history of an operator.
func (c *OperadorasClient) ListDespesas(ctx context.Context, cnpj string) ([]models.Despesa, error) {
	var out []models.Despesa
	if err := c.getJSON(ctx, "/operadoras/"+url.PathEscape(cnpj)+"/despesas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEstatisticas fetches the aggregate statistics.
func (c *OperadorasClient) GetEstatisticas(ctx context.Context) (*models.Estatisticas, error) {
	var out models.Estatisticas
	if err := c.getJSON(ctx, "/estatisticas", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCrescimento fetches the growth ranking with the API's default years.
func (c *OperadorasClient) GetCrescimento(ctx context.Context) ([]models.CrescimentoOperadora, error) {
	var out []models.CrescimentoOperadora
	if err := c.getJSON(ctx, "/analise/crescimento", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OperadorasClient) getJSON(ctx context.Context, path string, target interface{}) error {
	status, body, err := c.base.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if status == http.StatusNotFound {
		return ErrNotFound
	}
	if status < 200 || status >= 300 {
		return &StatusError{Status: status, Body: string(body)}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
