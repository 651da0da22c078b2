package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"painelans/backend/services/operadoras-service/internal/models"
	"painelans/backend/services/operadoras-service/internal/service"
)

// OperadorasService is the subset of the service used by the handlers.
type OperadorasService interface {
	List(ctx context.Context, page, limit int) (*models.OperadoraPage, error)
	Get(ctx context.Context, id string) (*models.Operadora, error)
	Create(ctx context.Context, input service.CreateInput) (*models.Operadora, error)
	Update(ctx context.Context, cnpj string, input service.UpdateInput) error
	Delete(ctx context.Context, cnpj string) error
	Despesas(ctx context.Context, cnpj string) ([]models.Despesa, error)
}

// OperadorasHandlers serves /api/operadoras.
type OperadorasHandlers struct {
	svc    OperadorasService
	logger *zap.Logger
}

// NewOperadorasHandlers returns handler set.
func NewOperadorasHandlers(svc OperadorasService, logger *zap.Logger) *OperadorasHandlers {
	return &OperadorasHandlers{svc: svc, logger: logger}
}

// List handles GET /api/operadoras?page=&limit=.
func (h *OperadorasHandlers) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "page deve ser um número")
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "limit deve ser um número")
		return
	}

	result, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list operadoras failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao listar operadoras")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /api/operadoras/{id}.
func (h *OperadorasHandlers) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		h.logger.Error("get operadora failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao buscar operadora")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type createRequest struct {
	RegistroANS int64  `json:"registro_ans"`
	RazaoSocial string `json:"razao_social"`
	CNPJ        string `json:"cnpj"`
	UF          string `json:"uf"`
	Modalidade  string `json:"modalidade"`
}

// Create handles POST /api/operadoras.
func (h *OperadorasHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	o, err := h.svc.Create(r.Context(), service.CreateInput{
		RegistroANS: req.RegistroANS,
		RazaoSocial: req.RazaoSocial,
		CNPJ:        req.CNPJ,
		UF:          req.UF,
		Modalidade:  req.Modalidade,
	})
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		h.logger.Error("create operadora failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao criar operadora")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Operadora criada com sucesso!",
		"operadora": o,
	})
}

type updateRequest struct {
	RazaoSocial *string `json:"razao_social"`
	UF          *string `json:"uf"`
}

// Update handles PUT /api/operadoras/{cnpj}.
func (h *OperadorasHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateInput{
		RazaoSocial: req.RazaoSocial,
		UF:          req.UF,
	})
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		h.logger.Error("update operadora failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao atualizar operadora")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Operadora atualizada!"})
}

// Delete handles DELETE /api/operadoras/{cnpj}.
func (h *OperadorasHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if writeServiceError(w, err) {
			return
		}
		h.logger.Error("delete operadora failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao excluir operadora")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Operadora excluída!"})
}

// Despesas handles GET /api/operadoras/{cnpj}/despesas.
func (h *OperadorasHandlers) Despesas(w http.ResponseWriter, r *http.Request) {
	despesas, err := h.svc.Despesas(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("list despesas failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao listar despesas")
		return
	}
	writeJSON(w, http.StatusOK, despesas)
}
