// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage (Hetzner/CEPH)
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string // optional CDN URL for public files

	// MediaBaseURL resolves public file keys when S3 is not configured.
	MediaBaseURL string

	// AdminTokenHash is the bcrypt hash of the admin bearer token. Empty
	// disables every admin route.
	AdminTokenHash string

	// Search
	SearchCacheTTL  time.Duration
	SearchRateLimit int // requests per client per minute
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present; variables already set take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "indomart"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "indomart"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "indomart-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "indomart-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		MediaBaseURL:   os.Getenv("MEDIA_BASE_URL"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	}

	var err error
	if cfg.SearchCacheTTL, err = time.ParseDuration(envOrDefault("SEARCH_CACHE_TTL", "1m")); err != nil {
		return nil, fmt.Errorf("SEARCH_CACHE_TTL: %w", err)
	}
	if cfg.SearchRateLimit, err = strconv.Atoi(envOrDefault("SEARCH_RATE_LIMIT", "120")); err != nil {
		return nil, fmt.Errorf("SEARCH_RATE_LIMIT: %w", err)
	}
	if cfg.SearchRateLimit < 0 {
		return nil, fmt.Errorf("SEARCH_RATE_LIMIT must not be negative")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyEnabled reports whether the search cache should connect to Valkey.
// Setting VALKEY_HOST to "off" disables it.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != "off"
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
