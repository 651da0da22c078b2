package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"painelans/backend/services/operadoras-service/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*EstatisticasCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewEstatisticasCache(client, ttl), mr
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	if _, err := c.Get(context.Background()); !errors.Is(err, ErrMiss) {
		t.Fatalf("err = %v, want ErrMiss", err)
	}
}

func TestSetGetExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 5*time.Minute)

	total := 1500.5
	stats := &models.Estatisticas{TotalGeral: &total, Top5: []models.TopOperadora{{RazaoSocial: "Amil", TotalDespesa: 900}}}
	if err := c.Set(ctx, stats); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL(estatisticasKey); ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", ttl)
	}

	got, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalGeral == nil || *got.TotalGeral != total || got.MediaGeral != nil {
		t.Errorf("stats = %+v", got)
	}
	if len(got.Top5) != 1 || got.Top5[0].RazaoSocial != "Amil" {
		t.Errorf("top5 = %+v", got.Top5)
	}

	mr.FastForward(5*time.Minute + time.Second)
	if _, err := c.Get(ctx); !errors.Is(err, ErrMiss) {
		t.Errorf("after ttl err = %v, want ErrMiss", err)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate on empty cache: %v", err)
	}
	if err := c.Set(ctx, &models.Estatisticas{Top5: []models.TopOperadora{}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if mr.Exists(estatisticasKey) {
		t.Error("key still present after invalidate")
	}
	if _, err := c.Get(ctx); !errors.Is(err, ErrMiss) {
		t.Errorf("err = %v, want ErrMiss", err)
	}
}

func TestGetCorruptValue(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	if err := mr.Set(estatisticasKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := c.Get(context.Background())
	if err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("err = %v, want decode error", err)
	}
}

func TestRedisDown(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()
	if _, err := c.Get(context.Background()); err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("err = %v, want connection error", err)
	}
}
