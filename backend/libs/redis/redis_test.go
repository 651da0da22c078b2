package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr(), DB: 0})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("stored = %q, want v", got)
	}
}

func TestNewRedisClientRejectsBadOptions(t *testing.T) {
	tests := map[string]Options{
		"empty addr":  {Addr: "  "},
		"negative db": {Addr: "localhost:6379", DB: -1},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRedisClient(context.Background(), opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewRedisClientPingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	if _, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr(), Password: "wrong"}); err == nil {
		t.Fatal("expected auth error on ping")
	}
}
