// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Registry RegistryConfig
	Cache    CacheConfig
	Session  SessionConfig
	Cabinet  CabinetConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds the store settings. DSN, when set, wins over the
// individual PostgreSQL fields.
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DSNValue string `env:"DATABASE_DSN"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"gcl"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Debug    bool   `env:"DB_DEBUG"`
}

// RegistryConfig points at the INSEE Sirene API.
type RegistryConfig struct {
	BaseURL string        `env:"INSEE_API_BASE_URL" envDefault:"https://api.insee.fr/api-sirene/3.11"`
	APIKey  string        `env:"INSEE_API_KEY"`
	Timeout time.Duration `env:"INSEE_TIMEOUT" envDefault:"5s"`
}

// CacheConfig selects the SIREN lookup cache backend.
type CacheConfig struct {
	Backend  string        `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"SIREN_CACHE_TTL" envDefault:"24h"`
}

type SessionConfig struct {
	Secret  string        `env:"SESSION_SECRET" envDefault:"devsessionsecret"`
	Backend string        `env:"SESSION_BACKEND" envDefault:"memory"`
	TTL     time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	Secure  bool          `env:"SESSION_SECURE_COOKIE"`
}

// CabinetConfig is the practice's contact block shown on every page.
type CabinetConfig struct {
	Name    string `env:"CABINET_NAME" envDefault:"Cabinet comptable"`
	Address string `env:"CABINET_ADDRESS"`
	Email   string `env:"CABINET_EMAIL"`
	Phone   string `env:"CABINET_PHONE"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	Dev        bool   `env:"DEV"`
	Migrations bool   `env:"MIGRATIONS"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone   string `env:"APP_TIMEZONE" envDefault:"Europe/Paris"`

	AdminEmail    string   `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string   `env:"ADMIN_PASSWORD"`
	SeedCabinets  []string `env:"SEED_CABINETS" envSeparator:","`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.DSNValue != "" {
		return d.DSNValue
	}
	if d.Driver == "sqlite" {
		return "gcl.db"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as golang-migrate expects.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Location returns the configured time zone, or UTC when it cannot be loaded.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the app runs with production settings.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported CACHE_BACKEND %q", cfg.Cache.Backend)
	}
	if (cfg.Cache.Backend == "redis" || cfg.Session.Backend == "redis") && cfg.Cache.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for the redis backend")
	}
	return cfg, nil
}
