// Package common provides shared utilities for Zenith
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Zenith
type Config struct {
	Environment string        `toml:"environment"`
	UserID      string        `toml:"user_id"` // single-user deployment; identifies the data blob
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	Path     string `toml:"path"`     // base directory for file-backed JSON data
	Versions int    `toml:"versions"` // rotated backups kept per user data file
	// Credentials selects the credential store backend: "keyring" or "file".
	Credentials string `toml:"credentials"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	// UseSimulated routes every broker through the simulated client.
	UseSimulated bool         `toml:"use_simulated"`
	Upstox       BrokerConfig `toml:"upstox"`
	AngelOne     BrokerConfig `toml:"angelone"`
	Fyers        BrokerConfig `toml:"fyers"`
	Gemini       GeminiConfig `toml:"gemini"`
}

// BrokerConfig holds per-broker client configuration
type BrokerConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *BrokerConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		UserID:      "default",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path:        "data",
			Versions:    3,
			Credentials: "file",
		},
		Clients: ClientsConfig{
			Upstox: BrokerConfig{
				BaseURL:   "https://api.upstox.com/v2",
				RateLimit: 5,
				Timeout:   "30s",
			},
			AngelOne: BrokerConfig{
				BaseURL:   "https://apiconnect.angelbroking.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Fyers: BrokerConfig{
				BaseURL:   "https://api.fyers.in/api/v2",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ZENITH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ZENITH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ZENITH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ZENITH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("ZENITH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if uid := os.Getenv("ZENITH_USER_ID"); uid != "" {
		config.UserID = uid
	}

	if v := os.Getenv("ZENITH_USE_SIMULATED_BROKER"); v != "" {
		config.Clients.UseSimulated = v == "true" || v == "1"
	}

	if key := os.Getenv("ZENITH_GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.Clients.Gemini.APIKey == "" {
		config.Clients.Gemini.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
