package views

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"painelans/backend/services/painel/internal/models"
)

// AnaliseSource provides the dashboard aggregates.
type AnaliseSource interface {
	GetEstatisticas(ctx context.Context) (*models.Estatisticas, error)
	GetCrescimento(ctx context.Context) ([]models.CrescimentoOperadora, error)
}

// DashboardView renders the landing page. It does not touch the operator store.
type DashboardView struct {
	api    AnaliseSource
	logger *zap.Logger
}

// NewDashboardView returns view.
func NewDashboardView(api AnaliseSource, logger *zap.Logger) *DashboardView {
	return &DashboardView{api: api, logger: logger}
}

type dashboardPage struct {
	Estatisticas     *models.Estatisticas
	EstatisticasErro string
	Crescimento      []models.CrescimentoOperadora
	CrescimentoErro  string
}

// Render implements View.
func (v *DashboardView) Render(w http.ResponseWriter, r *http.Request, _ Params) error {
	var page dashboardPage

	stats, err := v.api.GetEstatisticas(r.Context())
	if err != nil {
		v.logger.Warn("load estatisticas failed", zap.Error(err))
		page.EstatisticasErro = "Estatísticas indisponíveis no momento."
	} else {
		page.Estatisticas = stats
	}

	crescimento, err := v.api.GetCrescimento(r.Context())
	if err != nil {
		v.logger.Warn("load crescimento failed", zap.Error(err))
		page.CrescimentoErro = "Ranking de crescimento indisponível no momento."
	} else {
		page.Crescimento = crescimento
	}

	return render(w, http.StatusOK, "dashboard", page)
}
