package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// MemoryDatabase selects the in-process store instead of Postgres.
const MemoryDatabase = "memory"

// DatabaseConfig is the subset shared by the API and the admin CLI.
type DatabaseConfig struct {
	DatabaseURL      string        `envconfig:"DATABASE_URL" required:"true"`
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`
	LogFormat        string        `envconfig:"LOG_FORMAT" default:"text"`
}

// Config holds runtime configuration for the API server.
type Config struct {
	DatabaseConfig

	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"5000"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	RedisAddr   string `envconfig:"REDIS_ADDR"`
	CORSOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	RateLimitMax     int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow  time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	AuthRateLimitMax int           `envconfig:"AUTH_RATE_LIMIT_MAX" default:"10"`

	// Purchase-order routes were left unprotected in some revisions of the
	// original service; the choice is explicit here.
	ProtectPurchaseOrders bool `envconfig:"PROTECT_PURCHASE_ORDERS" default:"true"`
	AdminOnlyMutations    bool `envconfig:"ADMIN_ONLY_MUTATIONS" default:"false"`
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.DatabaseConfig.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	if cfg.RateLimitMax <= 0 || cfg.AuthRateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, errors.New("config: rate limits must be positive")
	}
	return &cfg, nil
}

// LoadDatabase reads only the database settings.
func LoadDatabase() (*DatabaseConfig, error) {
	loadDotEnv()

	var cfg DatabaseConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *DatabaseConfig) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.DBConnectTimeout <= 0 {
		c.DBConnectTimeout = 10 * time.Second
	}
	return nil
}

// UsesMemoryStore reports whether DATABASE_URL selects the in-process store.
func (c *DatabaseConfig) UsesMemoryStore() bool {
	return strings.EqualFold(strings.TrimSpace(c.DatabaseURL), MemoryDatabase)
}

// IsProduction returns true when error details must be hidden.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// HTTPAddress returns the listen address.
func (c *Config) HTTPAddress() string {
	return ":" + c.Port
}

// AllowedOrigins normalises CORS_ALLOWED_ORIGINS for the cors middleware.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
}
