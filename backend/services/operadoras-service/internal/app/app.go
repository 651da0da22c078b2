package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"painelans/backend/libs/httpserver"
	"painelans/backend/libs/ratelimit"
	libredis "painelans/backend/libs/redis"
	"painelans/backend/services/operadoras-service/internal/cache"
	"painelans/backend/services/operadoras-service/internal/config"
	"painelans/backend/services/operadoras-service/internal/db"
	apihttp "painelans/backend/services/operadoras-service/internal/http"
	"painelans/backend/services/operadoras-service/internal/http/handlers"
	"painelans/backend/services/operadoras-service/internal/http/middleware"
	"painelans/backend/services/operadoras-service/internal/password"
	"painelans/backend/services/operadoras-service/internal/repository"
	"painelans/backend/services/operadoras-service/internal/service"
)

const rateLimitJanitorInterval = time.Minute

// App wires operadoras-service dependencies.
type App struct {
	server      *httpserver.Server
	limiter     *ratelimit.Store
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph and applies pending migrations.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(ctx, libredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	operadoraRepo := repository.NewOperadoraRepository(sqlDB)
	despesaRepo := repository.NewDespesaRepository(sqlDB)
	statsCache := cache.NewEstatisticasCache(redisClient, cfg.Redis.TTL)

	operadorasService := service.NewOperadorasService(operadoraRepo, despesaRepo, statsCache, logger)
	analiseService := service.NewAnaliseService(despesaRepo, statsCache, logger)
	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	authService := service.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, password.NewBcryptHasher(0), tokenService, logger)

	limiter := ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 0)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Operadoras:   handlers.NewOperadorasHandlers(operadorasService, logger),
		Analise:      handlers.NewAnaliseHandlers(analiseService, logger),
		Token:        handlers.NewTokenHandler(authService, tokenService.ExpiresIn()),
		Health:       handlers.NewHealthHandler(),
		RequireAdmin: middleware.AuthMiddleware(tokenService, service.RoleAdmin),
		RateLimit:    ratelimit.Middleware(limiter, ratelimit.ClientIP(cfg.RateLimit.TrustXFF), logger),
	})

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger,
		httpserver.RequestIDMiddleware(),
		httpserver.LoggingMiddleware(logger),
		httpserver.RecoveryMiddleware(logger),
		httpserver.CORSMiddleware(cfg.HTTP.CORSOrigins),
	)

	return &App{
		server:      server,
		limiter:     limiter,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	a.limiter.StartJanitor(ctx, rateLimitJanitorInterval)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
