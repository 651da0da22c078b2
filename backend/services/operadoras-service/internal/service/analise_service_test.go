package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"painelans/backend/services/operadoras-service/internal/cache"
	"painelans/backend/services/operadoras-service/internal/models"
)

type fakeAnaliseRepo struct {
	estatisticasCalls int
	anos              [2]int
	limit             int
}

func (f *fakeAnaliseRepo) Estatisticas(ctx context.Context) (*models.Estatisticas, error) {
	f.estatisticasCalls++
	total := 300.0
	return &models.Estatisticas{TotalGeral: &total, Top5: []models.TopOperadora{{RazaoSocial: "A", TotalDespesa: 300}}}, nil
}

func (f *fakeAnaliseRepo) Crescimento(ctx context.Context, anoInicial, anoFinal int) ([]models.CrescimentoOperadora, error) {
	f.anos = [2]int{anoInicial, anoFinal}
	return []models.CrescimentoOperadora{}, nil
}

func (f *fakeAnaliseRepo) PorUF(ctx context.Context) ([]models.DespesaUF, error) {
	return []models.DespesaUF{{UF: "SP", TotalDespesa: 1, MediaPorOperadora: 1}}, nil
}

func (f *fakeAnaliseRepo) Agregados(ctx context.Context, limit int) ([]models.AgregadoOperadora, error) {
	f.limit = limit
	return []models.AgregadoOperadora{{RazaoSocial: "A", UF: "SP", TotalDespesas: 30, MediaTrimestral: 10, DesvioPadrao: 5}}, nil
}

type fakeStatsCache struct {
	stored *models.Estatisticas
	getErr error
	sets   int
}

func (f *fakeStatsCache) Get(ctx context.Context) (*models.Estatisticas, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, cache.ErrMiss
	}
	return f.stored, nil
}

func (f *fakeStatsCache) Set(ctx context.Context, stats *models.Estatisticas) error {
	f.sets++
	f.stored = stats
	return nil
}

func TestEstatisticasUsesCache(t *testing.T) {
	repo := &fakeAnaliseRepo{}
	c := &fakeStatsCache{}
	svc := NewAnaliseService(repo, c, zap.NewNop())

	first, err := svc.Estatisticas(context.Background())
	if err != nil {
		t.Fatalf("Estatisticas: %v", err)
	}
	second, err := svc.Estatisticas(context.Background())
	if err != nil {
		t.Fatalf("Estatisticas: %v", err)
	}

	if repo.estatisticasCalls != 1 {
		t.Errorf("repo calls = %d, want 1 (second served from cache)", repo.estatisticasCalls)
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}
	if *first.TotalGeral != *second.TotalGeral {
		t.Errorf("cached value differs: %v vs %v", *first.TotalGeral, *second.TotalGeral)
	}
}

func TestEstatisticasFallsBackWhenCacheFails(t *testing.T) {
	repo := &fakeAnaliseRepo{}
	svc := NewAnaliseService(repo, &fakeStatsCache{getErr: errors.New("connection refused")}, zap.NewNop())

	if _, err := svc.Estatisticas(context.Background()); err != nil {
		t.Fatalf("Estatisticas: %v", err)
	}
	if repo.estatisticasCalls != 1 {
		t.Errorf("repo calls = %d, want 1", repo.estatisticasCalls)
	}

	noCache := NewAnaliseService(repo, nil, zap.NewNop())
	if _, err := noCache.Estatisticas(context.Background()); err != nil {
		t.Fatalf("Estatisticas without cache: %v", err)
	}
}

func TestCrescimentoDefaultsAndValidation(t *testing.T) {
	repo := &fakeAnaliseRepo{}
	svc := NewAnaliseService(repo, nil, zap.NewNop())

	if _, err := svc.Crescimento(context.Background(), 0, 0); err != nil {
		t.Fatalf("Crescimento: %v", err)
	}
	if repo.anos != [2]int{DefaultAnoInicial, DefaultAnoFinal} {
		t.Errorf("anos = %v", repo.anos)
	}

	var verr *ValidationError
	if _, err := svc.Crescimento(context.Background(), 2025, 2024); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestAgregadosLimit(t *testing.T) {
	repo := &fakeAnaliseRepo{}
	svc := NewAnaliseService(repo, nil, zap.NewNop())

	got, err := svc.Agregados(context.Background(), 0)
	if err != nil {
		t.Fatalf("Agregados: %v", err)
	}
	if repo.limit != DefaultAgregadosLimit || len(got) != 1 {
		t.Errorf("limit = %d, got = %+v", repo.limit, got)
	}
	if _, err := svc.Agregados(context.Background(), 50); err != nil || repo.limit != 50 {
		t.Errorf("limit = %d, err = %v", repo.limit, err)
	}

	for _, limit := range []int{-1, 201} {
		var verr *ValidationError
		if _, err := svc.Agregados(context.Background(), limit); !errors.As(err, &verr) || verr.Field != "limit" {
			t.Errorf("limit %d: err = %v, want ValidationError on limit", limit, err)
		}
	}
}
