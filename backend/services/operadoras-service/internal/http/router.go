package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"painelans/backend/services/operadoras-service/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Operadoras   *handlers.OperadorasHandlers
	Analise      *handlers.AnaliseHandlers
	Token        http.HandlerFunc
	Health       http.HandlerFunc
	RequireAdmin func(http.Handler) http.Handler
	RateLimit    func(http.Handler) http.Handler
}

// NewRouter wires the REST API.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", deps.Health)

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit)
		}

		r.Post("/auth/token", deps.Token)

		r.Get("/operadoras", deps.Operadoras.List)
		r.Get("/operadoras/{id}", deps.Operadoras.Get)
		r.Get("/operadoras/{id}/despesas", deps.Operadoras.Despesas)

		r.Group(func(r chi.Router) {
			r.Use(deps.RequireAdmin)
			r.Post("/operadoras", deps.Operadoras.Create)
			r.Put("/operadoras/{id}", deps.Operadoras.Update)
			r.Delete("/operadoras/{id}", deps.Operadoras.Delete)
		})

		r.Get("/estatisticas", deps.Analise.Estatisticas)
		r.Get("/analise/crescimento", deps.Analise.Crescimento)
		r.Get("/analise/uf", deps.Analise.PorUF)
		r.Get("/analise/agregados", deps.Analise.Agregados)
	})

	return r
}
