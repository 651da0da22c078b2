package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"painelans/backend/services/painel/internal/views"
)

// RouterDeps groups what the painel router needs.
type RouterDeps struct {
	Views  map[views.ViewName]views.View
	State  *StateHandlers
	Stream http.HandlerFunc
}

// NewRouter mounts the route table plus the state and health endpoints.
func NewRouter(deps RouterDeps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/state/operadoras", deps.State.Get)
	r.Post("/state/operadoras/fetch", deps.State.Fetch)
	if deps.Stream != nil {
		r.Get("/ws/operadoras", deps.Stream)
	}

	if err := views.Mount(r, views.Routes(), deps.Views); err != nil {
		return nil, err
	}
	return r, nil
}
