// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server
type Config struct {
	LogLevel string
	GRPCPort string
	HTTPPort string
	APIToken string

	// SQLitePath is used unless a Postgres connection is configured
	SQLitePath string
	// PostgresConnStr is empty when Postgres is not configured
	PostgresConnStr string

	// Location decides which calendar day is "today"
	Location *time.Location
}

// UsePostgres reports whether a Postgres connection was configured
func (c *Config) UsePostgres() bool {
	return c.PostgresConnStr != ""
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		GRPCPort:        getEnvOrDefault("GRPC_PORT", "8080"),
		HTTPPort:        getEnvOrDefault("HTTP_PORT", "9090"),
		APIToken:        getEnvOrDefault("API_TOKEN", "dev-token"),
		SQLitePath:      getEnvOrDefault("SQLITE_PATH", "pricelist.db"),
		PostgresConnStr: postgresConnStr(),
		Location:        time.Local,
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

// postgresConnStr returns DB_CONN_STR, or builds one from the individual DB_* variables
// when DB_HOST is set (Docker friendly). Returns "" when neither is set.
func postgresConnStr() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host,
		getEnvOrDefault("DB_PORT", "5432"),
		getEnvOrDefault("DB_USER", "postgres"),
		getEnvOrDefault("DB_PASSWORD", "postgres"),
		getEnvOrDefault("DB_NAME", "pricelist"),
	)
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
