package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configEnvVars = []string{
	"SHOPLENS_SERVER_PORT",
	"SHOPLENS_SERVER_ENVIRONMENT",
	"SHOPLENS_CATALOG_FILE",
	"SHOPLENS_CATALOG_URL",
	"SHOPLENS_CATALOG_SQLITE_PATH",
	"SHOPLENS_CATALOG_REFRESH_INTERVAL",
	"SHOPLENS_CACHE_TYPE",
	"SHOPLENS_CACHE_REDIS_URL",
	"SHOPLENS_CACHE_TTL",
	"SHOPLENS_RATELIMIT_PER_IP",
	"SHOPLENS_SEARCH_PAGE_SIZE",
	"SHOPLENS_SEARCH_FUZZY_ENABLED",
	"SHOPLENS_SEARCH_FUZZY_ALGORITHM",
	"SHOPLENS_SEARCH_FUZZY_THRESHOLD",
	"SHOPLENS_LOG_LEVEL",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, key := range configEnvVars {
			os.Unsetenv(key)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required catalog source
		os.Setenv("SHOPLENS_CATALOG_FILE", "products.json")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.File != "products.json" {
			t.Errorf("Catalog.File = %s, want products.json", cfg.Catalog.File)
		}
		if cfg.Catalog.Timeout != 30*time.Second {
			t.Errorf("Catalog.Timeout = %v, want 30s", cfg.Catalog.Timeout)
		}
		if cfg.Catalog.RefreshInterval != 0 {
			t.Errorf("Catalog.RefreshInterval = %v, want 0", cfg.Catalog.RefreshInterval)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 5*time.Minute {
			t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 10 {
			t.Errorf("RateLimit.PerIP = %d, want 10", cfg.RateLimit.PerIP)
		}
		if cfg.Search.PageSize != 20 || cfg.Search.MaxPageSize != 100 {
			t.Errorf("Search page sizes = %d/%d, want 20/100", cfg.Search.PageSize, cfg.Search.MaxPageSize)
		}
		if !cfg.Search.FuzzyEnabled {
			t.Error("Search.FuzzyEnabled = false, want true")
		}
		if cfg.Search.FuzzyAlgorithm != "jarowinkler" {
			t.Errorf("Search.FuzzyAlgorithm = %s, want jarowinkler", cfg.Search.FuzzyAlgorithm)
		}
		if cfg.Search.FuzzyThreshold != 0.4 {
			t.Errorf("Search.FuzzyThreshold = %v, want 0.4", cfg.Search.FuzzyThreshold)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v, want info/json", cfg.Log)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SHOPLENS_SERVER_PORT", "9090")
		os.Setenv("SHOPLENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("SHOPLENS_CATALOG_URL", "https://catalog.example.com/items")
		os.Setenv("SHOPLENS_CATALOG_REFRESH_INTERVAL", "15m")
		os.Setenv("SHOPLENS_CACHE_TYPE", "redis")
		os.Setenv("SHOPLENS_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("SHOPLENS_CACHE_TTL", "1h")
		os.Setenv("SHOPLENS_RATELIMIT_PER_IP", "200")
		os.Setenv("SHOPLENS_SEARCH_FUZZY_ENABLED", "false")
		os.Setenv("SHOPLENS_SEARCH_FUZZY_ALGORITHM", "subsequence")
		os.Setenv("SHOPLENS_SEARCH_FUZZY_THRESHOLD", "0.25")
		os.Setenv("SHOPLENS_LOG_LEVEL", "debug")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.URL != "https://catalog.example.com/items" {
			t.Errorf("Catalog.URL = %s, want https://catalog.example.com/items", cfg.Catalog.URL)
		}
		if cfg.Catalog.RefreshInterval != 15*time.Minute {
			t.Errorf("Catalog.RefreshInterval = %v, want 15m", cfg.Catalog.RefreshInterval)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Search.FuzzyEnabled {
			t.Error("Search.FuzzyEnabled = true, want false")
		}
		if cfg.Search.FuzzyAlgorithm != "subsequence" {
			t.Errorf("Search.FuzzyAlgorithm = %s, want subsequence", cfg.Search.FuzzyAlgorithm)
		}
		if cfg.Search.FuzzyThreshold != 0.25 {
			t.Errorf("Search.FuzzyThreshold = %v, want 0.25", cfg.Search.FuzzyThreshold)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("fails validation when no catalog source is set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing catalog source")
		}
		if !strings.HasPrefix(err.Error(), "invalid configuration: a catalog source is required") {
			t.Errorf("Load() error = %v, want 'a catalog source is required'", err)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SHOPLENS_CATALOG_FILE", "products.json")
		os.Setenv("SHOPLENS_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SHOPLENS_CATALOG_SQLITE_PATH", "catalog.db")
		os.Setenv("SHOPLENS_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestLoadWithOverrides(t *testing.T) {
	os.Setenv("SHOPLENS_CATALOG_FILE", "from-env.json")
	defer os.Unsetenv("SHOPLENS_CATALOG_FILE")

	cfg, err := LoadWithOverrides(map[string]interface{}{
		"catalog.file":     "from-flag.yaml",
		"search.page_size": 5,
	})
	if err != nil {
		t.Fatalf("LoadWithOverrides() error = %v, want nil", err)
	}

	if cfg.Catalog.File != "from-flag.yaml" {
		t.Errorf("Catalog.File = %s, want from-flag.yaml", cfg.Catalog.File)
	}
	if cfg.Search.PageSize != 5 {
		t.Errorf("Search.PageSize = %d, want 5", cfg.Search.PageSize)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		err := LoadEnvFile()
		if err != nil {
			t.Errorf("LoadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1

# TEST_COMMENTED=should_not_load
TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		}()

		if err := LoadEnvFile(); err != nil {
			t.Fatalf("LoadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := LoadEnvFile(); err != nil {
			t.Fatalf("LoadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func validConfig() *Config {
	return &Config{
		Catalog:   CatalogConfig{File: "products.json"},
		Cache:     CacheConfig{Type: "memory"},
		RateLimit: RateLimitConfig{PerIP: 10, Burst: 20},
		Search: SearchConfig{
			PageSize:       20,
			MaxPageSize:    100,
			FuzzyAlgorithm: "jarowinkler",
			FuzzyThreshold: 0.4,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"valid file source", func(cfg *Config) {}, false},
		{"valid url source", func(cfg *Config) { cfg.Catalog = CatalogConfig{URL: "https://example.com"} }, false},
		{"valid sqlite source", func(cfg *Config) { cfg.Catalog = CatalogConfig{SQLitePath: "catalog.db"} }, false},
		{"no catalog source", func(cfg *Config) { cfg.Catalog = CatalogConfig{} }, true},
		{"invalid cache type", func(cfg *Config) { cfg.Cache.Type = "invalid-type" }, true},
		{"redis with URL", func(cfg *Config) { cfg.Cache = CacheConfig{Type: "redis", RedisURL: "redis://localhost:6379"} }, false},
		{"redis without URL", func(cfg *Config) { cfg.Cache = CacheConfig{Type: "redis"} }, true},
		{"subsequence algorithm", func(cfg *Config) { cfg.Search.FuzzyAlgorithm = "subsequence" }, false},
		{"unknown algorithm", func(cfg *Config) { cfg.Search.FuzzyAlgorithm = "levenshtein" }, true},
		{"threshold above one", func(cfg *Config) { cfg.Search.FuzzyThreshold = 1.5 }, true},
		{"negative threshold", func(cfg *Config) { cfg.Search.FuzzyThreshold = -0.1 }, true},
		{"zero page size", func(cfg *Config) { cfg.Search.PageSize = 0 }, true},
		{"max page size below page size", func(cfg *Config) { cfg.Search.MaxPageSize = 10 }, true},
		{"zero per-IP rate", func(cfg *Config) { cfg.RateLimit.PerIP = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
