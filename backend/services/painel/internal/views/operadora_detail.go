package views

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"painelans/backend/services/painel/internal/clients"
	"painelans/backend/services/painel/internal/models"
)

// OperadoraSource loads one operator and its expenses.
type OperadoraSource interface {
	GetOperadora(ctx context.Context, id string) (*models.Operadora, error)
	ListDespesas(ctx context.Context, cnpj string) ([]models.Despesa, error)
}

// OperadoraDetailView renders one operator. The id comes from route params.
type OperadoraDetailView struct {
	api    OperadoraSource
	logger *zap.Logger
}

// NewOperadoraDetailView returns view.
func NewOperadoraDetailView(api OperadoraSource, logger *zap.Logger) *OperadoraDetailView {
	return &OperadoraDetailView{api: api, logger: logger}
}

type operadoraDetailPage struct {
	Operadora    *models.Operadora
	Despesas     []models.Despesa
	DespesasErro string
}

// Render implements View.
func (v *OperadoraDetailView) Render(w http.ResponseWriter, r *http.Request, params Params) error {
	id := strings.TrimSpace(params["id"])
	if id == "" {
		return renderError(w, http.StatusNotFound, "Operadora não encontrada.")
	}

	o, err := v.api.GetOperadora(r.Context(), id)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return renderError(w, http.StatusNotFound, "Operadora não encontrada.")
		}
		v.logger.Warn("load operadora failed", zap.String("id", id), zap.Error(err))
		return renderError(w, http.StatusBadGateway, "Serviço de operadoras indisponível.")
	}

	page := operadoraDetailPage{Operadora: o}
	despesas, err := v.api.ListDespesas(r.Context(), o.CNPJ)
	if err != nil {
		v.logger.Warn("load despesas failed", zap.String("cnpj", o.CNPJ), zap.Error(err))
		page.DespesasErro = "Despesas indisponíveis no momento."
	} else {
		page.Despesas = despesas
	}
	return render(w, http.StatusOK, "operadora_detail", page)
}
