package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration, read from the environment (and .env when present).
type Config struct {
	AppName string `envconfig:"APP_NAME" default:"Inventory Ledger API v1.0"`
	Port    string `envconfig:"PORT" default:"3000"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"inventory"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBTimeZone  string `envconfig:"DB_TIMEZONE" default:"Asia/Jakarta"`
	DBLogLevel  string `envconfig:"DB_LOG_LEVEL" default:"warn"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Empty RedisAddr disables the dashboard cache.
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	DashboardCacheTTL time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"60s"`

	LowStockThreshold int  `envconfig:"LOW_STOCK_THRESHOLD" default:"10"`
	StockOutTracking  bool `envconfig:"STOCK_OUT_TRACKING" default:"true"`

	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if cfg.LowStockThreshold < 0 {
		return nil, errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}
	return &cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a DSN built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}
