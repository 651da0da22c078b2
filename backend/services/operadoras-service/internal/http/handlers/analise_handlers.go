package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"painelans/backend/services/operadoras-service/internal/models"
)

// AnaliseService is the subset of the analytics service used by the handlers.
type AnaliseService interface {
	Estatisticas(ctx context.Context) (*models.Estatisticas, error)
	Crescimento(ctx context.Context, anoInicial, anoFinal int) ([]models.CrescimentoOperadora, error)
	PorUF(ctx context.Context) ([]models.DespesaUF, error)
	Agregados(ctx context.Context, limit int) ([]models.AgregadoOperadora, error)
}

// AnaliseHandlers serves the aggregate endpoints.
type AnaliseHandlers struct {
	svc    AnaliseService
	logger *zap.Logger
}

// NewAnaliseHandlers returns handler set.
func NewAnaliseHandlers(svc AnaliseService, logger *zap.Logger) *AnaliseHandlers {
	return &AnaliseHandlers{svc: svc, logger: logger}
}

// Estatisticas handles GET /api/estatisticas.
func (h *AnaliseHandlers) Estatisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Estatisticas(r.Context())
	if err != nil {
		h.logger.Error("estatisticas failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao calcular estatísticas")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Crescimento handles GET /api/analise/crescimento?ano_inicial=&ano_final=.
func (h *AnaliseHandlers) Crescimento(w http.ResponseWriter, r *http.Request) {
	inicial, err := queryInt(r, "ano_inicial", 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "ano_inicial deve ser um número")
		return
	}
	final, err := queryInt(r, "ano_final", 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "ano_final deve ser um número")
		return
	}

	result, err := h.svc.Crescimento(r.Context(), inicial, final)
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		h.logger.Error("crescimento failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao calcular crescimento")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PorUF handles GET /api/analise/uf.
func (h *AnaliseHandlers) PorUF(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.PorUF(r.Context())
	if err != nil {
		h.logger.Error("despesas por uf failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao agregar despesas por UF")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Agregados handles GET /api/analise/agregados?limit=.
func (h *AnaliseHandlers) Agregados(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "limit deve ser um número")
		return
	}

	result, err := h.svc.Agregados(r.Context(), limit)
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		h.logger.Error("agregados failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao agregar despesas")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
