package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type RedisConfig struct {
	// Empty Addr keeps the in-process lock.
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	LockTTL  time.Duration `envconfig:"REDIS_LOCK_TTL" default:"10s"`
}

type AMQPConfig struct {
	// Empty URL disables event publishing.
	URL      string `envconfig:"AMQP_URL"`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"reservation.events"`
}

type App struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":50051"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Bound on every store call and lock wait.
	StoreTimeout    time.Duration `envconfig:"STORE_TIMEOUT" default:"3s"`
	DefaultCurrency string        `envconfig:"DEFAULT_CURRENCY" default:"USD"`
	CatalogPath     string        `envconfig:"CATALOG_PATH"`

	Redis RedisConfig `ignored:"true"`
	AMQP  AMQPConfig  `ignored:"true"`
	DB    DBConfig    `ignored:"true"`
}

// Load reads an optional .env file and then the environment.
// Variables already set win over the file.
func Load(envFile string) (*App, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	var cfg App
	for _, spec := range []any{&cfg, &cfg.Redis, &cfg.AMQP, &cfg.DB} {
		if err := envconfig.Process("", spec); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *App) Validate() error {
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be an ISO 4217 code, got %q", c.DefaultCurrency)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return c.DB.Validate()
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown LOG_LEVEL %q", s)
}
