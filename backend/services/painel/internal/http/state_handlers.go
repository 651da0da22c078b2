package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"painelans/backend/services/painel/internal/store"
)

// OperadoraState is the store surface exposed over HTTP.
type OperadoraState interface {
	FetchOperadoras(ctx context.Context) error
	Snapshot() store.State
}

// StateHandlers exposes the operator store as JSON.
type StateHandlers struct {
	store  OperadoraState
	logger *zap.Logger
}

// NewStateHandlers returns handler set.
func NewStateHandlers(s OperadoraState, logger *zap.Logger) *StateHandlers {
	return &StateHandlers{store: s, logger: logger}
}

// Get handles GET /state/operadoras.
func (h *StateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// Fetch handles POST /state/operadoras/fetch. The snapshot is returned in both cases,
// with 502 when the fetch failed.
func (h *StateHandlers) Fetch(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if err := h.store.FetchOperadoras(r.Context()); err != nil {
		h.logger.Warn("explicit fetch failed", zap.Error(err))
		status = http.StatusBadGateway
	}
	writeJSON(w, status, h.store.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
