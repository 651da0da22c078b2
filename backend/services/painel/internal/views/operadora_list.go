package views

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"painelans/backend/services/painel/internal/models"
	"painelans/backend/services/painel/internal/store"
)

// OperadoraSnapshotter is the part of the operator store the list view uses.
type OperadoraSnapshotter interface {
	FetchOperadoras(ctx context.Context) error
	Snapshot() store.State
}

// OperadoraListView lists operators from the store, refreshing it on every visit.
type OperadoraListView struct {
	store  OperadoraSnapshotter
	logger *zap.Logger
}

// NewOperadoraListView returns view.
func NewOperadoraListView(s OperadoraSnapshotter, logger *zap.Logger) *OperadoraListView {
	return &OperadoraListView{store: s, logger: logger}
}

type operadoraListPage struct {
	Operadoras []models.Operadora
	Total      int
	Query      string
	Erro       string
}

// Render implements View. A failed fetch still renders the last known collection.
func (v *OperadoraListView) Render(w http.ResponseWriter, r *http.Request, _ Params) error {
	fetchErr := v.store.FetchOperadoras(r.Context())
	if fetchErr != nil {
		v.logger.Warn("refresh operadoras failed, rendering stale data", zap.Error(fetchErr))
	}

	snapshot := v.store.Snapshot()
	operadoras, skipped := models.DecodeOperadoras(snapshot.Operadoras)
	if skipped > 0 {
		v.logger.Warn("skipping unreadable operadora records", zap.Int("skipped", skipped))
	}
	query := r.URL.Query().Get("q")
	page := operadoraListPage{
		Operadoras: filterOperadoras(operadoras, query),
		Total:      len(operadoras),
		Query:      query,
	}
	if fetchErr != nil {
		page.Erro = "serviço de operadoras indisponível"
	}
	return render(w, http.StatusOK, "operadora_list", page)
}
