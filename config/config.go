package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Search    SearchConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig lists the catalog sources; at least one must be set
type CatalogConfig struct {
	File            string        `mapstructure:"file"`
	URL             string        `mapstructure:"url"`
	Token           string        `mapstructure:"token"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	URLTemplate     string        `mapstructure:"url_template"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 disables scheduled refresh
	Timeout         time.Duration `mapstructure:"timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second to the catalog URL
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per second
	Burst int `mapstructure:"burst"`
}

// SearchConfig holds query engine configuration
type SearchConfig struct {
	PageSize       int     `mapstructure:"page_size"`
	MaxPageSize    int     `mapstructure:"max_page_size"`
	FuzzyEnabled   bool    `mapstructure:"fuzzy_enabled"`
	FuzzyAlgorithm string  `mapstructure:"fuzzy_algorithm"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// HasSource reports whether any catalog source is configured
func (c CatalogConfig) HasSource() bool {
	return c.File != "" || c.URL != "" || c.SQLitePath != ""
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides loads configuration like Load, then applies overrides
// keyed by dotted path (e.g. "catalog.file"), which take precedence over
// every other source
func LoadWithOverrides(overrides map[string]interface{}) (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shoplens/")

	// SHOPLENS_CATALOG_FILE maps to catalog.file
	v.SetEnvPrefix("SHOPLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.token", "")
	v.SetDefault("catalog.sqlite_path", "")
	v.SetDefault("catalog.url_template", "")
	v.SetDefault("catalog.refresh_interval", "0s")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.rate_limit", 1.0)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "5m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10)
	v.SetDefault("ratelimit.burst", 20)

	// Search defaults
	v.SetDefault("search.page_size", 20)
	v.SetDefault("search.max_page_size", 100)
	v.SetDefault("search.fuzzy_enabled", true)
	v.SetDefault("search.fuzzy_algorithm", "jarowinkler")
	v.SetDefault("search.fuzzy_threshold", 0.4)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if !config.Catalog.HasSource() {
		return fmt.Errorf("a catalog source is required (set SHOPLENS_CATALOG_FILE, SHOPLENS_CATALOG_URL or SHOPLENS_CATALOG_SQLITE_PATH)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	switch config.Search.FuzzyAlgorithm {
	case "jarowinkler", "subsequence":
	default:
		return fmt.Errorf("fuzzy algorithm must be 'jarowinkler' or 'subsequence', got: %s", config.Search.FuzzyAlgorithm)
	}

	if config.Search.FuzzyThreshold < 0 || config.Search.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be between 0 and 1, got: %v", config.Search.FuzzyThreshold)
	}

	if config.Search.PageSize <= 0 || config.Search.MaxPageSize < config.Search.PageSize {
		return fmt.Errorf("page sizes must satisfy 0 < page_size <= max_page_size, got: %d and %d",
			config.Search.PageSize, config.Search.MaxPageSize)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
