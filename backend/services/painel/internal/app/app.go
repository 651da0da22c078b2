package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"painelans/backend/libs/httpserver"
	"painelans/backend/services/painel/internal/clients"
	"painelans/backend/services/painel/internal/config"
	painelhttp "painelans/backend/services/painel/internal/http"
	"painelans/backend/services/painel/internal/store"
	"painelans/backend/services/painel/internal/views"
)

// App wires painel dependencies.
type App struct {
	server *httpserver.Server
	store  *store.OperadoraStore
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	api := clients.NewOperadorasClient(cfg.API.BaseURL, cfg.API.Token, clients.NewDefaultHTTPClient(cfg.API.Timeout))

	operadoraStore := store.NewOperadoraStore(api, store.Options{
		FetchTimeout:     cfg.Store.FetchTimeout,
		SubscriberBuffer: cfg.Store.SubscriberBuffer,
	}, logger.Named("store"))

	checkOrigin := cfg.CheckOrigin()
	router, err := painelhttp.NewRouter(painelhttp.RouterDeps{
		Views: map[views.ViewName]views.View{
			views.ViewDashboard:       views.NewDashboardView(api, logger),
			views.ViewOperadoraList:   views.NewOperadoraListView(operadoraStore, logger),
			views.ViewOperadoraDetail: views.NewOperadoraDetailView(api, logger),
		},
		State: painelhttp.NewStateHandlers(operadoraStore, logger),
		Stream: painelhttp.NewStreamHandler(operadoraStore, func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || checkOrigin(origin)
		}, logger),
	})
	if err != nil {
		return nil, err
	}

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger,
		httpserver.RequestIDMiddleware(),
		httpserver.LoggingMiddleware(logger),
		httpserver.RecoveryMiddleware(logger),
	)

	return &App{server: server, store: operadoraStore, logger: logger}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	a.logger.Info("painel stopped", zap.Int("operadoras_cached", len(a.store.Operadoras())))
}
