// Package config loads the CLI configuration from environment
// variables. Credentials are opaque strings; validation only checks
// presence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the CLI needs to construct its client.
type Config struct {
	APIKey     string
	APISecret  string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RecvWindow int64
	LogLevel   string
	Preflight  bool
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:     strings.TrimSpace(os.Getenv("BINANCE_API_KEY")),
		APISecret:  strings.TrimSpace(os.Getenv("BINANCE_API_SECRET")),
		BaseURL:    getEnv("BINANCE_BASE_URL", "https://testnet.binancefuture.com"),
		Timeout:    getEnvAsDuration("BINANCE_TIMEOUT", "10s"),
		MaxRetries: getEnvAsInt("BINANCE_MAX_RETRIES", 3),
		RecvWindow: getEnvAsInt64("BINANCE_RECV_WINDOW", 5000),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Preflight:  getEnvAsBool("ORDER_PREFLIGHT", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BINANCE_API_KEY is required")
	}
	if c.APISecret == "" {
		return fmt.Errorf("BINANCE_API_SECRET is required")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("BINANCE_MAX_RETRIES must be positive: %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("BINANCE_TIMEOUT must be positive: %s", c.Timeout)
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if int64Value, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int64Value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
