package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	UserStorePostgres = "postgres"
	UserStoreRedis    = "redis"
)

// Config centraliza la configuración del servicio y del cliente CLI.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	UserStore     string `env:"USER_STORE" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	BcryptCost            int           `env:"BCRYPT_COST" envDefault:"10"`
	RegisterRedirectDelay time.Duration `env:"REGISTER_REDIRECT_DELAY" envDefault:"900ms"`

	SessionCookieName   string `env:"SESSION_COOKIE_NAME" envDefault:"user_data"`
	SessionCookieSecure bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SessionFile         string `env:"SESSION_FILE"`
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required when USER_STORE=postgres")
	ErrMissingRedisAddr   = errors.New("REDIS_ADDR is required when USER_STORE=redis")
)

// LoadConfig carga la configuración desde variables de entorno y la valida.
func LoadConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parsea el entorno sin validar el backend; el CLI lo usa para
// comandos que solo tocan la sesión local.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.UserStore = strings.ToLower(strings.TrimSpace(cfg.UserStore))
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}
	return &cfg, nil
}

// Validate revisa las combinaciones que los tags no pueden expresar.
func (c *Config) Validate() error {
	switch c.UserStore {
	case UserStorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case UserStoreRedis:
		if c.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return fmt.Errorf("unknown USER_STORE %q", c.UserStore)
	}
	if c.SessionCookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	if c.RegisterRedirectDelay < 0 {
		return errors.New("REGISTER_REDIRECT_DELAY must not be negative")
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "devauth", "user_data.json")
}
