package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the console.
type Config struct {
	AppMode            string
	Port               string
	PublicURL          string
	APIBaseURL         string
	BackendTimeout     time.Duration
	AllowedOrigins     string
	LoginRatePerMinute int
	Session            SessionConfig
	Storage            StorageConfig
}

// SessionConfig controls the browser-session cookie and workspace lifetime.
type SessionConfig struct {
	Secret       string
	IdleTimeout  time.Duration
	SecureCookie bool
}

// StorageConfig selects where per-browser durable state lives.
type StorageConfig struct {
	Driver        string // "memory", "redis" or "postgres"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	appMode := env("APP_MODE", "dev")
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	port := env("PORT", env("SERVER_PORT", "8080"))
	cfg := &Config{
		AppMode:        appMode,
		Port:           port,
		PublicURL:      strings.TrimRight(env("PUBLIC_URL", "http://localhost:"+port), "/"),
		APIBaseURL:     strings.TrimRight(env("API_BASE_URL", ""), "/"),
		AllowedOrigins: env("ALLOWED_ORIGINS", ""),
		Session: SessionConfig{
			Secret:       env("SESSION_SECRET", ""),
			SecureCookie: appMode == "prod",
		},
		Storage: StorageConfig{
			Driver:        env("STORAGE_DRIVER", "memory"),
			RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
			RedisPassword: env("REDIS_PASSWORD", ""),
			DatabaseURL:   env("DATABASE_URL", ""),
		},
	}

	var err error
	if cfg.Storage.RedisDB, err = envInt(env, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	idle, err := envInt(env, "SESSION_IDLE_MINUTES", 120)
	if err != nil {
		return nil, err
	}
	cfg.Session.IdleTimeout = time.Duration(idle) * time.Minute
	timeout, err := envInt(env, "BACKEND_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.BackendTimeout = time.Duration(timeout) * time.Second
	if cfg.LoginRatePerMinute, err = envInt(env, "LOGIN_RATE_PER_MINUTE", 10); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL environment variable not set")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable not set")
	}
	if c.AppMode == "prod" && len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes in prod")
	}
	switch c.Storage.Driver {
	case "memory", "redis":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable not set")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be memory, redis or postgres)", c.Storage.Driver)
	}
	return nil
}

// IsProd reports whether the console runs in production mode.
func (c *Config) IsProd() bool { return c.AppMode == "prod" }

func envInt(env func(string, string) string, key string, fallback int) (int, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: '%s' (must be a non-negative integer)", key, raw)
	}
	return n, nil
}
