package config

import (
	"os"
	"strconv"
	"time"

	"statkit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Profiling ProfilingConfig
}

// AnalysisConfig holds the engine defaults applied when a request carries no
// explicit options
type AnalysisConfig struct {
	DefaultAlpha      float64
	DefaultConfidence float64
	PostHocTimeout    time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional result-store connection settings.
// An empty URL disables persistence; the engine itself never needs it.
type DatabaseConfig struct {
	URL string
}

// ProfilingConfig holds the debug/pprof server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: AnalysisConfig{
			DefaultAlpha:      getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05),
			DefaultConfidence: getEnvFloatOrDefault("DEFAULT_CONFIDENCE", 0.95),
			PostHocTimeout:    getEnvDurationOrDefault("POSTHOC_TIMEOUT", 10*time.Second),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if a := config.Analysis.DefaultAlpha; a <= 0 || a >= 1 {
		return errors.ConfigInvalid("DEFAULT_ALPHA must be in (0, 1)")
	}
	if c := config.Analysis.DefaultConfidence; c <= 0 || c >= 1 {
		return errors.ConfigInvalid("DEFAULT_CONFIDENCE must be in (0, 1)")
	}
	if config.Analysis.PostHocTimeout <= 0 {
		return errors.ConfigInvalid("POSTHOC_TIMEOUT must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
