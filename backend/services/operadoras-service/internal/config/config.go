package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "painelans/backend/libs/config"
)

// Config defines operadoras service configuration.
type Config struct {
	HTTP struct {
		Port        string   `yaml:"port" env:"OPERADORAS_HTTP_PORT"`
		CORSOrigins []string `yaml:"corsOrigins" env:"OPERADORAS_CORS_ORIGINS"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"OPERADORAS_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"OPERADORAS_POSTGRES_MAX_OPEN_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr" env:"OPERADORAS_REDIS_ADDR"`
		Password string        `yaml:"password" env:"OPERADORAS_REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"OPERADORAS_REDIS_DB"`
		TTL      time.Duration `yaml:"ttl" env:"OPERADORAS_REDIS_TTL"`
	} `yaml:"redis"`
	JWT struct {
		Secret    string        `yaml:"secret" env:"OPERADORAS_JWT_SECRET"`
		ExpiresIn time.Duration `yaml:"expiresIn" env:"OPERADORAS_JWT_EXPIRES_IN"`
	} `yaml:"jwt"`
	Admin struct {
		Username     string `yaml:"username" env:"OPERADORAS_ADMIN_USERNAME"`
		PasswordHash string `yaml:"passwordHash" env:"OPERADORAS_ADMIN_PASSWORD_HASH"`
	} `yaml:"admin"`
	RateLimit struct {
		RPS      float64 `yaml:"rps" env:"OPERADORAS_RATE_LIMIT_RPS"`
		Burst    int     `yaml:"burst" env:"OPERADORAS_RATE_LIMIT_BURST"`
		TrustXFF bool    `yaml:"trustXFF" env:"OPERADORAS_RATE_LIMIT_TRUST_XFF"`
	} `yaml:"rateLimit"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8000"
	cfg.HTTP.CORSOrigins = []string{"*"}
	cfg.Database.MaxOpenConns = 10
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 5 * time.Minute
	cfg.JWT.ExpiresIn = time.Hour
	cfg.Admin.Username = "admin"
	cfg.RateLimit.RPS = 10
	cfg.RateLimit.Burst = 20

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database dsn required")
	}
	if strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis addr required")
	}
	if len(c.JWT.Secret) < 16 {
		return errors.New("jwt secret must have at least 16 characters")
	}
	if c.RateLimit.RPS <= 0 {
		return errors.New("rate limit rps must be positive")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Ingest configures the consolidar command.
type Ingest struct {
	Database struct {
		DSN          string `yaml:"dsn" env:"OPERADORAS_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"OPERADORAS_POSTGRES_MAX_OPEN_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"OPERADORAS_REDIS_ADDR"`
		Password string `yaml:"password" env:"OPERADORAS_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"OPERADORAS_REDIS_DB"`
	} `yaml:"redis"`
	ANS struct {
		BaseURL     string        `yaml:"baseURL" env:"OPERADORAS_ANS_BASE_URL"`
		CadastroURL string        `yaml:"cadastroURL" env:"OPERADORAS_ANS_CADASTRO_URL"`
		Quarters    int           `yaml:"quarters" env:"OPERADORAS_ANS_QUARTERS"`
		Timeout     time.Duration `yaml:"timeout" env:"OPERADORAS_ANS_TIMEOUT"`
	} `yaml:"ans"`
	Report string `yaml:"report" env:"OPERADORAS_INGEST_REPORT"`
}

// LoadIngest reads the consolidar configuration. Redis is optional there; when set, the
// cached statistics are dropped after a load.
func LoadIngest() (*Ingest, error) {
	cfg := &Ingest{}
	cfg.Database.MaxOpenConns = 4
	cfg.ANS.BaseURL = "https://dadosabertos.ans.gov.br/FTP/PDA/demonstracoes_contabeis/"
	cfg.ANS.CadastroURL = "https://dadosabertos.ans.gov.br/FTP/PDA/operadoras_de_plano_de_saude_ativas/Relatorio_cadop.csv"
	cfg.ANS.Quarters = 3
	cfg.ANS.Timeout = 5 * time.Minute

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Ingest) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database dsn required")
	}
	if strings.TrimSpace(c.ANS.BaseURL) == "" || strings.TrimSpace(c.ANS.CadastroURL) == "" {
		return errors.New("ans urls required")
	}
	if c.ANS.Quarters <= 0 {
		return errors.New("ans quarters must be positive")
	}
	if c.ANS.Timeout <= 0 {
		return errors.New("ans timeout must be positive")
	}
	return nil
}
