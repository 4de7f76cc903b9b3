package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ANALOGHUB_AUTH_SECRET_KEY", "test-secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Elastic.Addresses) != 1 || cfg.Elastic.Addresses[0] != "http://localhost:9200" {
			t.Errorf("Elastic.Addresses = %v, want [http://localhost:9200]", cfg.Elastic.Addresses)
		}
		if cfg.Elastic.AnalogIndex != "analog" || cfg.Elastic.ProductIndex != "product" {
			t.Errorf("indices = %s/%s, want analog/product", cfg.Elastic.AnalogIndex, cfg.Elastic.ProductIndex)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("Database.Driver = %s, want sqlite", cfg.Database.Driver)
		}
		if cfg.Auth.AccessTokenTTL != 90*time.Minute {
			t.Errorf("Auth.AccessTokenTTL = %v, want 90m", cfg.Auth.AccessTokenTTL)
		}
		if cfg.Auth.RefreshTokenTTL != 120*time.Hour {
			t.Errorf("Auth.RefreshTokenTTL = %v, want 120h", cfg.Auth.RefreshTokenTTL)
		}
		if cfg.Auth.RefreshSecretKey == "" || cfg.Auth.RefreshSecretKey == cfg.Auth.SecretKey {
			t.Errorf("Auth.RefreshSecretKey = %q, want a key distinct from the access key", cfg.Auth.RefreshSecretKey)
		}
		if cfg.Storage.MaxAge != time.Hour {
			t.Errorf("Storage.MaxAge = %v, want 1h", cfg.Storage.MaxAge)
		}
		if cfg.Ingest.BatchSize != 10000 {
			t.Errorf("Ingest.BatchSize = %d, want 10000", cfg.Ingest.BatchSize)
		}
		if len(cfg.Search.PriorityManufacturers) != 6 {
			t.Errorf("Search.PriorityManufacturers = %v, want 6 entries", cfg.Search.PriorityManufacturers)
		}
		if cfg.Worker.SweepCron != "0 1 * * *" {
			t.Errorf("Worker.SweepCron = %s, want 0 1 * * *", cfg.Worker.SweepCron)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ANALOGHUB_SERVER_PORT", "9090")
		t.Setenv("ANALOGHUB_SERVER_ENVIRONMENT", "production")
		t.Setenv("ANALOGHUB_AUTH_SECRET_KEY", "custom-secret")
		t.Setenv("ANALOGHUB_AUTH_REFRESH_SECRET_KEY", "custom-refresh")
		t.Setenv("ANALOGHUB_ELASTIC_ADDRESSES", "http://es1:9200,http://es2:9200")
		t.Setenv("ANALOGHUB_CACHE_TYPE", "redis")
		t.Setenv("ANALOGHUB_REDIS_ADDR", "redis:6379")
		t.Setenv("ANALOGHUB_DATABASE_DRIVER", "postgres")
		t.Setenv("ANALOGHUB_DATABASE_DSN", "host=db user=postgres dbname=tools")
		t.Setenv("ANALOGHUB_INGEST_BATCH_SIZE", "500")
		t.Setenv("ANALOGHUB_RATELIMIT_PER_IP", "200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Auth.RefreshSecretKey != "custom-refresh" {
			t.Errorf("Auth.RefreshSecretKey = %s, want custom-refresh", cfg.Auth.RefreshSecretKey)
		}
		if len(cfg.Elastic.Addresses) != 2 {
			t.Errorf("Elastic.Addresses = %v, want 2 entries", cfg.Elastic.Addresses)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Redis.Addr != "redis:6379" {
			t.Errorf("Redis.Addr = %s, want redis:6379", cfg.Redis.Addr)
		}
		if cfg.Database.Driver != "postgres" {
			t.Errorf("Database.Driver = %s, want postgres", cfg.Database.Driver)
		}
		if cfg.Ingest.BatchSize != 500 {
			t.Errorf("Ingest.BatchSize = %d, want 500", cfg.Ingest.BatchSize)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads without a secret key", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ANALOGHUB_AUTH_SECRET_KEY", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Auth.RefreshSecretKey != "" {
			t.Errorf("Auth.RefreshSecretKey = %q, want empty without a secret key", cfg.Auth.RefreshSecretKey)
		}

		err = cfg.Auth.RequireSecret()
		if err == nil {
			t.Fatal("RequireSecret() error = nil, want error for missing secret key")
		}
		if err.Error() != "auth secret key is required (set ANALOGHUB_AUTH_SECRET_KEY)" {
			t.Errorf("RequireSecret() error = %v, want 'auth secret key is required'", err)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ANALOGHUB_AUTH_SECRET_KEY", "test-secret")
		t.Setenv("ANALOGHUB_CACHE_TYPE", "invalid")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads an explicit yaml file", func(t *testing.T) {
		t.Setenv("ANALOGHUB_AUTH_SECRET_KEY", "test-secret")

		path := filepath.Join(t.TempDir(), "analoghub.yaml")
		content := `
server:
  port: "7000"
ingest:
  batch_size: 250
search:
  priority_manufacturers: [PALBIT, HORN]
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7000" {
			t.Errorf("Server.Port = %s, want 7000", cfg.Server.Port)
		}
		if cfg.Ingest.BatchSize != 250 {
			t.Errorf("Ingest.BatchSize = %d, want 250", cfg.Ingest.BatchSize)
		}
		if len(cfg.Search.PriorityManufacturers) != 2 || cfg.Search.PriorityManufacturers[1] != "HORN" {
			t.Errorf("Search.PriorityManufacturers = %v, want [PALBIT HORN]", cfg.Search.PriorityManufacturers)
		}
	})

	t.Run("fails when the explicit file is missing", func(t *testing.T) {
		t.Setenv("ANALOGHUB_AUTH_SECRET_KEY", "test-secret")

		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("LoadFile() error = nil, want error for missing file")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Elastic:  ElasticConfig{Addresses: []string{"http://localhost:9200"}},
			Cache:    CacheConfig{Type: "memory"},
			Database: DatabaseConfig{Driver: "sqlite"},
			Auth:     AuthConfig{SecretKey: "secret"},
			Ingest:   IngestConfig{BatchSize: 10},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for redis cache without address", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Type = "redis"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for redis without address")
		}
	})

	t.Run("fails for unknown database driver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "mysql"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for unknown driver")
		}
	})

	t.Run("fails for zero batch size", func(t *testing.T) {
		cfg := valid()
		cfg.Ingest.BatchSize = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero batch size")
		}
	})

	t.Run("fails without elasticsearch addresses", func(t *testing.T) {
		cfg := valid()
		cfg.Elastic.Addresses = nil
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for missing addresses")
		}
	})
}
