package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"painelans/backend/services/operadoras-service/internal/service"
)

// Authenticator issues tokens for valid credentials.
type Authenticator interface {
	Login(username, password string) (string, error)
}

// NewTokenHandler handles POST /api/auth/token.
func NewTokenHandler(auth Authenticator, expiresIn time.Duration) http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type response struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresIn int    `json:"expires_in"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}

		token, err := auth.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "credenciais inválidas")
				return
			}
			writeError(w, http.StatusInternalServerError, "falha ao emitir token")
			return
		}

		writeJSON(w, http.StatusOK, response{
			Token:     token,
			TokenType: "Bearer",
			ExpiresIn: int(expiresIn.Seconds()),
		})
	}
}
