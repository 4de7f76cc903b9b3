package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Elastic   ElasticConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Ingest    IngestConfig
	Search    SearchConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ElasticConfig holds search engine connection and index names
type ElasticConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	AnalogIndex  string   `mapstructure:"analog_index"`
	ProductIndex string   `mapstructure:"product_index"`
}

// RedisConfig holds the Redis connection shared by the task queue and the redis cache
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string `mapstructure:"type"` // "memory" or "redis"
	DB   int    `mapstructure:"db"`   // redis logical database for the cache
}

// DatabaseConfig holds the relational store configuration
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	SecretKey        string        `mapstructure:"secret_key"`
	RefreshSecretKey string        `mapstructure:"refresh_secret_key"`
	AccessTokenTTL   time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL  time.Duration `mapstructure:"refresh_token_ttl"`
}

// StorageConfig holds the upload scratch area configuration
type StorageConfig struct {
	Dir    string        `mapstructure:"dir"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// IngestConfig holds bulk loading configuration
type IngestConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// SearchConfig holds query configuration
type SearchConfig struct {
	PriorityManufacturers []string `mapstructure:"priority_manufacturers"`
}

// WorkerConfig holds task queue worker configuration
type WorkerConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	SweepCron   string        `mapstructure:"sweep_cron"`
	Retention   time.Duration `mapstructure:"retention"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from the given file, or from the default
// search paths when file is empty
func LoadFile(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/analoghub/")
	}

	// Environment variable settings
	v.SetEnvPrefix("ANALOGHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Elasticsearch defaults
	v.SetDefault("elastic.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elastic.username", "")
	v.SetDefault("elastic.password", "")
	v.SetDefault("elastic.analog_index", "analog")
	v.SetDefault("elastic.product_index", "product")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.db", 1)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "analoghub.db")

	// Auth defaults
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.refresh_secret_key", "")
	v.SetDefault("auth.access_token_ttl", "90m")
	v.SetDefault("auth.refresh_token_ttl", "120h") // 5 days

	// Storage defaults
	v.SetDefault("storage.dir", "file_storage")
	v.SetDefault("storage.max_age", "1h")

	// Ingest defaults
	v.SetDefault("ingest.batch_size", 10000)

	// Search defaults
	v.SetDefault("search.priority_manufacturers", []string{"PALBIT", "VARGUS", "VERGNANO", "DEREK", "BRICE", "OMAP"})

	// Worker defaults
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.sweep_cron", "0 1 * * *")
	v.SetDefault("worker.retention", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 600)
}

// RequireSecret reports whether tokens can be signed. Only the API server
// issues tokens, so Load does not enforce it.
func (a AuthConfig) RequireSecret() error {
	if a.SecretKey == "" {
		return fmt.Errorf("auth secret key is required (set ANALOGHUB_AUTH_SECRET_KEY)")
	}
	return nil
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Auth.RefreshSecretKey == "" && config.Auth.SecretKey != "" {
		config.Auth.RefreshSecretKey = config.Auth.SecretKey + ":refresh"
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Redis.Addr == "" {
		return fmt.Errorf("Redis address is required when cache type is 'redis'")
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return fmt.Errorf("database driver must be 'postgres' or 'sqlite', got: %s", config.Database.Driver)
	}

	if len(config.Elastic.Addresses) == 0 {
		return fmt.Errorf("at least one elasticsearch address is required")
	}

	if config.Ingest.BatchSize < 1 {
		return fmt.Errorf("ingest batch size must be positive, got: %d", config.Ingest.BatchSize)
	}

	return nil
}
