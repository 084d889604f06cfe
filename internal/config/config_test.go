package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Registry.Timeout != 5*time.Second {
		t.Fatalf("registry timeout = %v", cfg.Registry.Timeout)
	}
	if cfg.Cache.TTL != 24*time.Hour || cfg.Cache.Backend != "memory" {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if cfg.Registry.BaseURL != "https://api.insee.fr/api-sirene/3.11" {
		t.Fatalf("base url = %q", cfg.Registry.BaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("INSEE_TIMEOUT", "2s")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MIGRATIONS", "true")
	t.Setenv("CABINET_NAME", "Cabinet Dupont")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.DSN() != "file:test.db" || cfg.Registry.Timeout != 2*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.App.Migrations || cfg.Cabinet.Name != "Cabinet Dupont" {
		t.Fatalf("unexpected app config %+v %+v", cfg.App, cfg.Cabinet)
	}
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown cache backend")
	}
}

func TestLoadRedisNeedsURL(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without REDIS_URL")
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "gcl", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=u password=p@ss dbname=gcl sslmode=disable" {
		t.Fatalf("dsn = %q", got)
	}
	if got := d.URL(); got != "postgres://u:p%40ss@db:5432/gcl?sslmode=disable" {
		t.Fatalf("url = %q", got)
	}
	if got := (DatabaseConfig{Driver: "sqlite"}).DSN(); got != "gcl.db" {
		t.Fatalf("sqlite dsn = %q", got)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	if (AppConfig{Timezone: "Nowhere/Special"}).Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
}
