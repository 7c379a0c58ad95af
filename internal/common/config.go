package common

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Ingest IngestConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
}

// StoreConfig holds shipment store configuration
type StoreConfig struct {
	Path string
}

// IngestConfig holds ingestion-related configuration
type IngestConfig struct {
	DropDir       string        // empty disables the paste-file watcher
	WatchDebounce time.Duration
	RiskRulesPath string // optional YAML overriding risk thresholds
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Store: StoreConfig{
			Path: getEnv("DB_PATH", "guias.db"),
		},
		Ingest: IngestConfig{
			DropDir:       getEnv("DROP_DIR", ""),
			WatchDebounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
			RiskRulesPath: getEnv("RISK_RULES_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Store.Path == "" {
		return NewAppError("CONFIG_ERROR", "DB_PATH is required", ErrInvalidInput)
	}
	return nil
}
