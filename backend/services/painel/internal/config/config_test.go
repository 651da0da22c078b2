package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Errorf("addr = %q", cfg.HTTPAddress())
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Store.FetchTimeout != 15*time.Second {
		t.Errorf("fetch timeout = %v", cfg.Store.FetchTimeout)
	}
}

func TestLoadRejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("PAINEL_API_BASE_URL", "/api")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestCheckOrigin(t *testing.T) {
	var cfg Config
	if !cfg.CheckOrigin()("http://any") {
		t.Error("empty list should accept any origin")
	}

	cfg.HTTP.AllowedOrigins = []string{"http://painel.local"}
	check := cfg.CheckOrigin()
	if !check("http://painel.local") || check("http://evil") {
		t.Error("origin list not enforced")
	}
}
