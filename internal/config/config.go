package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the process settings read from the environment.
type Config struct {
	Addr          string        `env:"ADDR" envDefault:":3000"`
	BackendURL    string        `env:"BACKEND_URL" envDefault:"http://localhost:8000"`
	APIV1Str      string        `env:"API_V1_STR" envDefault:"/api/v1"`
	SessionKey    string        `env:"SESSION_KEY"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

/*
	START names the env file to read (.env-local, .env.docker, ...).
	Without it .env is tried; a missing file is not an error, the
	variables may come from the process environment.
*/
func Load() (*Config, error) {
	file := os.Getenv("START")
	if file == "" {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", c.BackendURL)
	}
	if c.SessionKey != "" && len(c.SessionKey) < 32 {
		return errors.New("SESSION_KEY must be at least 32 characters")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// APIBaseURL is the prefix every backend path is resolved against.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.BackendURL, "/") + "/" + strings.Trim(c.APIV1Str, "/") + "/"
}
