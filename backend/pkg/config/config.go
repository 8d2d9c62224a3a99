package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	apperrors "jackut/backend/pkg/errors"
)

// Storage drivers understood by the record store factory
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Storage
	StorageDriver  string
	DataDir        string // Directory holding the six record files
	SQLitePath     string
	SaveOnShutdown bool

	// Neo4j mirror (optional, disabled when URI is empty)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		StorageDriver:  getEnv("STORAGE_DRIVER", StorageFile),
		DataDir:        getEnv("DATA_DIR", "./database"),
		SQLitePath:     getEnv("SQLITE_PATH", "./database/jackut.db"),
		SaveOnShutdown: getEnvBool("SAVE_ON_SHUTDOWN", true),
		Neo4jURI:       getEnv("NEO4J_URI", ""),
		Neo4jUser:      getEnv("NEO4J_USER", ""),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageFile:
		if c.DataDir == "" {
			return apperrors.NewConfigValidationFailed("DATA_DIR", "required for the file driver")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return apperrors.NewConfigValidationFailed("SQLITE_PATH", "required for the sqlite driver")
		}
	case StorageMemory:
	default:
		return apperrors.NewConfigValidationFailed("STORAGE_DRIVER", fmt.Sprintf("unknown driver %q", c.StorageDriver))
	}
	if c.MirrorEnabled() && c.Neo4jUser == "" {
		return apperrors.NewConfigValidationFailed("NEO4J_USER", "required when NEO4J_URI is set")
	}
	return nil
}

// MirrorEnabled reports whether the relationship graph is mirrored to Neo4j
func (c *Config) MirrorEnabled() bool {
	return c.Neo4jURI != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
