package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"painelans/backend/libs/logging"
	libredis "painelans/backend/libs/redis"
	"painelans/backend/services/operadoras-service/internal/cache"
	"painelans/backend/services/operadoras-service/internal/config"
	"painelans/backend/services/operadoras-service/internal/db"
	"painelans/backend/services/operadoras-service/internal/ingest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadIngest()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("consolidar")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	source := ingest.NewListingClient(ingest.NewHTTPClient(cfg.ANS.Timeout), logger)
	pipeline := ingest.NewPipeline(source, ingest.NewLoader(sqlDB, logger), ingest.Options{
		BaseURL:     cfg.ANS.BaseURL,
		CadastroURL: cfg.ANS.CadastroURL,
		Quarters:    cfg.ANS.Quarters,
	}, logger)

	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Fatal("consolidation failed", zap.Error(err))
	}
	logger.Info("consolidation finished",
		zap.Int("arquivos", result.Arquivos),
		zap.Int("lancamentos", result.Lancamentos),
		zap.Int("ignoradas", result.Ignoradas),
		zap.Int("sem_cadastro", result.SemCadastro),
		zap.Int("despesas", result.Load.Despesas),
		zap.Int("agregados", len(result.Agregados)),
	)

	if cfg.Redis.Addr != "" {
		invalidateEstatisticas(ctx, cfg, logger)
	}

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, result); err != nil {
			logger.Fatal("failed to write report", zap.String("path", cfg.Report), zap.Error(err))
		}
		logger.Info("report written", zap.String("path", cfg.Report))
	}
}

func invalidateEstatisticas(ctx context.Context, cfg *config.Ingest, logger *zap.Logger) {
	client, err := libredis.NewRedisClient(ctx, libredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, cached estatisticas kept until ttl", zap.Error(err))
		return
	}
	defer client.Close()

	if err := cache.NewEstatisticasCache(client, 0).Invalidate(ctx); err != nil {
		logger.Warn("failed to invalidate estatisticas cache", zap.Error(err))
	}
}

func writeReport(path string, result *ingest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ingest.WriteAgregados(f, result.Agregados); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
