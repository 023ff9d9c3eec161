package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forumkit/patron-billing/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Stripe configuration
	Stripe StripeConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// StripeConfig holds payment provider credentials. An empty secret key means
// the provider is unconfigured and billing endpoints report 503.
type StripeConfig struct {
	SecretKey string
}

// Configured reports whether provider credentials are present.
func (c StripeConfig) Configured() bool {
	return c.SecretKey != ""
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Stripe:        loadStripeConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("PATRON_HOST", "0.0.0.0"),
		Port:            getEnv("PATRON_PORT", "8080"),
		ReadTimeout:     getEnvDuration("PATRON_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("PATRON_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("PATRON_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("PATRON_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// loadDatabaseConfig loads database configuration from environment
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnv("PATRON_POSTGRES_URL", ""),
		MaxOpenConns:    getEnvInt("PATRON_POSTGRES_MAX_CONNS", 10),
		MaxIdleConns:    getEnvInt("PATRON_POSTGRES_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("PATRON_POSTGRES_CONN_LIFETIME", 30*time.Minute),
	}
}

// loadStripeConfig loads payment provider configuration from environment
func loadStripeConfig() StripeConfig {
	return StripeConfig{
		SecretKey: getEnv("PATRON_STRIPE_SECRET_KEY", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("PATRON_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("PATRON_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %s", c.Server.Port)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("postgres URL is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("postgres max connections must be positive")
	}

	// Stripe credentials are deliberately optional: the server runs
	// without them and billing endpoints report 503.

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
