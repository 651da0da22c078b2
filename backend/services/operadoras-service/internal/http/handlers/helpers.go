package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"painelans/backend/services/operadoras-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationError(w http.ResponseWriter, err *service.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error": err.Message,
		"field": err.Field,
	})
}

// writeServiceError maps service errors to statuses; ok is false for unexpected errors.
func writeServiceError(w http.ResponseWriter, err error) bool {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "operadora não encontrada")
	case errors.Is(err, service.ErrDuplicate):
		writeError(w, http.StatusConflict, "operadora já cadastrada")
	default:
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
