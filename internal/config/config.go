package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration for the sharing gateway.
type Config struct {
	// Server
	Port string

	// Catalog persistence
	DatabaseURL string
	MetadataDB  string

	// Storage roots and signing
	DeltaDataRoot        string
	StorageSigningSecret string

	// S3-compatible object storage (used when a table's storageUri has an s3:// scheme)
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	// Authentication
	ConfiguredBearerToken string
	AuthEnabled           bool
	PageTokenSecret       string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int

	// Snapshot cache
	SnapshotCacheCapacity   int
	SnapshotCacheTTLSeconds int

	// URL signing
	URLTTLSeconds int

	// Optional revocation cache
	RedisURL string

	// Optional consistency checker (C12)
	EnableDuckDBCheck bool

	// Optional path to a YAML catalog seed manifest, applied at startup.
	SeedConfigPath string

	// Features
	DisableCacheSweeper bool
}

var globalConfig *Config

// Load reads and validates all configuration from environment variables.
// This should be called once at application startup.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		MetadataDB:              os.Getenv("METADATA_DB"),
		DeltaDataRoot:           getEnv("DELTA_DATA_ROOT", "/data/delta"),
		StorageSigningSecret:    os.Getenv("STORAGE_SIGNING_SECRET"),
		S3Endpoint:              os.Getenv("S3_ENDPOINT"),
		S3AccessKey:             os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:             os.Getenv("S3_SECRET_KEY"),
		S3UseSSL:                getBoolEnv("S3_USE_SSL", true),
		ConfiguredBearerToken:   os.Getenv("BEARER_TOKEN"),
		AuthEnabled:             getBoolEnv("AUTH_ENABLED", true),
		PageTokenSecret:         os.Getenv("PAGE_TOKEN_SECRET"),
		DefaultPageSize:         getIntEnv("DEFAULT_PAGE_SIZE", 500),
		MaxPageSize:             getIntEnv("MAX_PAGE_SIZE", 2000),
		SnapshotCacheCapacity:   getIntEnv("SNAPSHOT_CACHE_CAPACITY", 256),
		SnapshotCacheTTLSeconds: getIntEnv("SNAPSHOT_CACHE_TTL_SECONDS", 300),
		URLTTLSeconds:           getIntEnv("URL_TTL_SECONDS", 900),
		RedisURL:                os.Getenv("REDIS_URL"),
		EnableDuckDBCheck:       getBoolEnv("ENABLE_DUCKDB_CHECK", false),
		DisableCacheSweeper:     getBoolEnv("DISABLE_CACHE_SWEEPER", false),
		SeedConfigPath:          os.Getenv("SEED_CONFIG_PATH"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	globalConfig = cfg
	log.Println("[config] configuration loaded successfully")
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var problems []string

	if c.AuthEnabled {
		if c.PageTokenSecret == "" {
			problems = append(problems, "PAGE_TOKEN_SECRET is required and must not be empty")
		} else if len(c.PageTokenSecret) < 32 {
			problems = append(problems, "PAGE_TOKEN_SECRET must be at least 32 characters")
		}
	}

	if c.DatabaseURL == "" && c.MetadataDB == "" {
		log.Println("[config] WARNING: neither DATABASE_URL nor METADATA_DB set, will use in-memory SQLite")
	}

	if c.MaxPageSize <= 0 || c.MaxPageSize > 2000 {
		problems = append(problems, "MAX_PAGE_SIZE must be in (0, 2000]")
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		problems = append(problems, "DEFAULT_PAGE_SIZE must be in (0, MAX_PAGE_SIZE]")
	}

	if c.URLTTLSeconds < 900 {
		problems = append(problems, "URL_TTL_SECONDS must be >= 900 (15 minutes)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return nil
}

// Get returns the global configuration instance. Must call Load() first.
func Get() *Config {
	if globalConfig == nil {
		log.Fatal("[config] Config.Get() called before Load()")
	}
	return globalConfig
}

// Set allows tests to inject configuration directly.
func Set(cfg *Config) { globalConfig = cfg }

// MustLoad loads configuration and exits the process if validation fails.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("[config] failed to load configuration: %v", err)
	}
	return cfg
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[config] WARNING: invalid boolean value for %s: %s, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[config] WARNING: invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return i
}
