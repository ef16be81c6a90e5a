package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	DataGov     DataGovConfig    `toml:"datagov"`
	PlacesAPI   PlacesAPIConfig  `toml:"places_api"`
	Enrichment  EnrichmentConfig `toml:"enrichment"`
	Storage     StorageConfig    `toml:"storage"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// DataGovConfig contains data.gov.in dataset API configuration
type DataGovConfig struct {
	APIKey         string        `toml:"api_key"`         // data.gov.in API key; empty rejects all searches
	ResourceID     string        `toml:"resource_id"`     // UDYAM registration dataset resource id
	RateLimit      int           `toml:"rate_limit"`      // Requests per second
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
}

// PlacesAPIConfig contains Google Places API configuration
type PlacesAPIConfig struct {
	APIKey         string        `toml:"api_key"`         // Google Places API key; empty disables enrichment
	RateLimit      int           `toml:"rate_limit"`      // Requests per second
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
}

// EnrichmentConfig contains settings for the per-unit enrichment fan-out
type EnrichmentConfig struct {
	MaxConcurrency int `toml:"max_concurrency"` // Max concurrent place lookups; 0 = unbounded
	PageSize       int `toml:"page_size"`       // Dataset page size; hasMore compares against this
}

type StorageConfig struct {
	Path     string        `toml:"path"`      // Badger directory for the place-lookup cache; empty disables caching
	CacheTTL time.Duration `toml:"cache_ttl"` // How long a resolved place match stays valid
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in reperio.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		DataGov: DataGovConfig{
			APIKey:         "", // User must provide API key in config file
			ResourceID:     "8b68ae56-84cf-4728-a0a6-1be11028dea7",
			RateLimit:      5,
			RequestTimeout: 30 * time.Second,
		},
		PlacesAPI: PlacesAPIConfig{
			APIKey:         "", // User must provide API key in config file
			RateLimit:      10,
			RequestTimeout: 30 * time.Second,
		},
		Enrichment: EnrichmentConfig{
			MaxConcurrency: 8,    // Bounded fan-out; 0 restores an unbounded burst
			PageSize:       1000, // Fixed upstream page size
		},
		Storage: StorageConfig{
			Path:     "./data",
			CacheTTL: 24 * time.Hour,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files.
// Later files override earlier files. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REPERIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("REPERIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("REPERIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("REPERIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("REPERIO_LOG_OUTPUT"); output != "" {
		parts := strings.Split(output, ",")
		outputs := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Dataset API configuration
	if key := os.Getenv("REPERIO_DATAGOV_API_KEY"); key != "" {
		config.DataGov.APIKey = key
	}
	if resource := os.Getenv("REPERIO_DATAGOV_RESOURCE_ID"); resource != "" {
		config.DataGov.ResourceID = resource
	}

	// Places API configuration
	if key := os.Getenv("REPERIO_PLACES_API_KEY"); key != "" {
		config.PlacesAPI.APIKey = key
	}

	// Storage configuration
	if path := os.Getenv("REPERIO_BADGER_PATH"); path != "" {
		config.Storage.Path = path
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
