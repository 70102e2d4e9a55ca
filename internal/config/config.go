package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the product service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"product-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Cache
	RedisURL string        `env:"REDIS_URL,notEmpty"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Object Storage
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3PublicEndpoint string `env:"S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey      string `env:"S3_ACCESS_KEY"`
	S3SecretKey      string `env:"S3_SECRET_KEY"`
	S3TempBucket     string `env:"S3_TMP_BUCKET" envDefault:"tmp"`
	S3PermBucket     string `env:"S3_PERM_BUCKET" envDefault:"perm"`
	S3UsePathStyle   bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`

	// Uploads
	UploadGrantTTL time.Duration `env:"UPLOAD_GRANT_TTL" envDefault:"5m"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Orphan Reclamation
	CleanupSchedule  string        `env:"CLEANUP_SCHEDULE" envDefault:"0 */2 * * *"`
	PermSweepEnabled bool          `env:"PERM_SWEEP_ENABLED" envDefault:"false"`
	PermSweepMinAge  time.Duration `env:"PERM_SWEEP_MIN_AGE" envDefault:"24h"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	cfg.S3AccessKey = strings.TrimSpace(cfg.S3AccessKey)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3TempBucket = strings.TrimSpace(cfg.S3TempBucket)
	cfg.S3PermBucket = strings.TrimSpace(cfg.S3PermBucket)

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 * 1024 * 1024
	}
	if cfg.UploadGrantTTL <= 0 {
		cfg.UploadGrantTTL = 5 * time.Minute
	}
	if cfg.S3TempBucket == cfg.S3PermBucket {
		return nil, fmt.Errorf("S3_TMP_BUCKET and S3_PERM_BUCKET must differ")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// PublicObjectURL returns the browser-reachable URL for a permanent object.
func (c *Config) PublicObjectURL(storageKey string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.S3PublicEndpoint, "/"), c.S3PermBucket, storageKey)
}
