package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	libconfig "painelans/backend/libs/config"
)

// Config defines painel configuration.
type Config struct {
	HTTP struct {
		Port           string   `yaml:"port" env:"PAINEL_HTTP_PORT"`
		AllowedOrigins []string `yaml:"allowedOrigins" env:"PAINEL_ALLOWED_ORIGINS"`
	} `yaml:"http"`
	API struct {
		BaseURL string        `yaml:"baseURL" env:"PAINEL_API_BASE_URL"`
		Token   string        `yaml:"token" env:"PAINEL_API_TOKEN"`
		Timeout time.Duration `yaml:"timeout" env:"PAINEL_API_TIMEOUT"`
	} `yaml:"api"`
	Store struct {
		FetchTimeout     time.Duration `yaml:"fetchTimeout" env:"PAINEL_STORE_FETCH_TIMEOUT"`
		SubscriberBuffer int           `yaml:"subscriberBuffer" env:"PAINEL_STORE_SUBSCRIBER_BUFFER"`
	} `yaml:"store"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.API.BaseURL = "http://localhost:8000/api"
	cfg.API.Timeout = 10 * time.Second
	cfg.Store.FetchTimeout = 15 * time.Second
	cfg.Store.SubscriberBuffer = 8

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.API.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("api base url must be absolute")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api timeout must be positive")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// CheckOrigin returns the WebSocket origin policy. An empty list or "*" accepts any origin.
func (c *Config) CheckOrigin() func(origin string) bool {
	allowed := make(map[string]struct{}, len(c.HTTP.AllowedOrigins))
	for _, o := range c.HTTP.AllowedOrigins {
		if o == "*" {
			return func(string) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	if len(allowed) == 0 {
		return func(string) bool { return true }
	}
	return func(origin string) bool {
		_, ok := allowed[origin]
		return ok
	}
}
