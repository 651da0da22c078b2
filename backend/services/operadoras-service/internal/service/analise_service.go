package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"painelans/backend/services/operadoras-service/internal/cache"
	"painelans/backend/services/operadoras-service/internal/models"
)

const (
	// DefaultAnoInicial is the base year of the growth ranking.
	DefaultAnoInicial = 2023
	// DefaultAnoFinal is the last year compared against the base year.
	DefaultAnoFinal = 2025
	// DefaultAgregadosLimit caps the aggregate listing when no limit is given.
	DefaultAgregadosLimit = 20
	maxAgregadosLimit     = 200
)

// AnaliseRepository runs the aggregate expense queries.
type AnaliseRepository interface {
	Estatisticas(ctx context.Context) (*models.Estatisticas, error)
	Crescimento(ctx context.Context, anoInicial, anoFinal int) ([]models.CrescimentoOperadora, error)
	PorUF(ctx context.Context) ([]models.DespesaUF, error)
	Agregados(ctx context.Context, limit int) ([]models.AgregadoOperadora, error)
}

// EstatisticasCache stores the statistics payload.
type EstatisticasCache interface {
	Get(ctx context.Context) (*models.Estatisticas, error)
	Set(ctx context.Context, stats *models.Estatisticas) error
}

// AnaliseService serves aggregated expense analytics.
type AnaliseService struct {
	repo   AnaliseRepository
	cache  EstatisticasCache
	logger *zap.Logger
}

// NewAnaliseService builds service. cache may be nil.
func NewAnaliseService(repo AnaliseRepository, cache EstatisticasCache, logger *zap.Logger) *AnaliseService {
	return &AnaliseService{repo: repo, cache: cache, logger: logger}
}

// Estatisticas serves from cache when possible. Cache failures fall back to the database.
func (s *AnaliseService) Estatisticas(ctx context.Context) (*models.Estatisticas, error) {
	if s.cache != nil {
		stats, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			return stats, nil
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn("estatisticas cache read failed", zap.Error(err))
		}
	}

	stats, err := s.repo.Estatisticas(ctx)
	if err != nil {
		return nil, fmt.Errorf("estatisticas: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.Warn("estatisticas cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Crescimento ranks operators by growth. Zero years use the defaults.
func (s *AnaliseService) Crescimento(ctx context.Context, anoInicial, anoFinal int) ([]models.CrescimentoOperadora, error) {
	if anoInicial == 0 {
		anoInicial = DefaultAnoInicial
	}
	if anoFinal == 0 {
		anoFinal = DefaultAnoFinal
	}
	if anoFinal <= anoInicial {
		return nil, &ValidationError{Field: "ano_final", Message: "deve ser maior que ano_inicial"}
	}
	return s.repo.Crescimento(ctx, anoInicial, anoFinal)
}

// PorUF aggregates expenses per UF.
func (s *AnaliseService) PorUF(ctx context.Context) ([]models.DespesaUF, error) {
	return s.repo.PorUF(ctx)
}

// Agregados summarizes expenses per razão social and UF. A zero limit uses the default.
func (s *AnaliseService) Agregados(ctx context.Context, limit int) ([]models.AgregadoOperadora, error) {
	if limit == 0 {
		limit = DefaultAgregadosLimit
	}
	if limit < 0 || limit > maxAgregadosLimit {
		return nil, &ValidationError{Field: "limit", Message: fmt.Sprintf("deve estar entre 1 e %d", maxAgregadosLimit)}
	}
	return s.repo.Agregados(ctx, limit)
}
