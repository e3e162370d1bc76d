package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/propertyease/propertyease/internal/domain/services"
)

// Analytics data sources
const (
	DataSourceGORM     = "gorm"
	DataSourceSupabase = "supabase"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Supabase    SupabaseConfig
	Analytics   AnalyticsConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL     string
	TestURL string
}

type RedisConfig struct {
	URL string
}

type SupabaseConfig struct {
	URL        string
	APIKey     string
	ServiceKey string
}

type AnalyticsConfig struct {
	DataSource   string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	DefaultRange string
}

// Load configuration from environment variables
func Load() (*Config, error) {
	// Load .env file in non-production environments
	env := os.Getenv("ENVIRONMENT")
	if env != "production" {
		// .env file is optional
		_ = godotenv.Load()
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Database: DatabaseConfig{
			URL:     getEnv("DATABASE_URL", ""),
			TestURL: getEnv("DATABASE_URL_TEST", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			APIKey:     getEnv("SUPABASE_API_KEY", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		},
		Analytics: AnalyticsConfig{
			DataSource:   strings.ToLower(getEnv("ANALYTICS_DATA_SOURCE", DataSourceGORM)),
			CacheTTL:     parseDuration(getEnv("ANALYTICS_CACHE_TTL", services.CacheShortTerm.String())),
			FetchTimeout: parseDuration(getEnv("ANALYTICS_FETCH_TIMEOUT", "15s")),
			DefaultRange: getEnv("ANALYTICS_DEFAULT_RANGE", "30d"),
		},
	}

	// Validate required configuration
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetDatabaseURL returns the appropriate database URL based on environment
func (c *Config) GetDatabaseURL() string {
	if c.Environment == "test" && c.Database.TestURL != "" {
		return c.Database.TestURL
	}
	return c.Database.URL
}

// SupabaseDataKey returns the key used for PostgREST reads. The service key
// bypasses row level security, which system-wide reports need.
func (c *Config) SupabaseDataKey() string {
	if c.Supabase.ServiceKey != "" {
		return c.Supabase.ServiceKey
	}
	return c.Supabase.APIKey
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

func validate(config *Config) error {
	switch config.Analytics.DataSource {
	case DataSourceGORM:
		// Database URL is optional for development
		if config.IsProduction() && config.GetDatabaseURL() == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
	case DataSourceSupabase:
		if config.Supabase.URL == "" || config.SupabaseDataKey() == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_API_KEY are required for the supabase data source")
		}
	default:
		return fmt.Errorf("unknown ANALYTICS_DATA_SOURCE %q", config.Analytics.DataSource)
	}
	if config.IsProduction() && (config.Supabase.URL == "" || config.Supabase.APIKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_API_KEY are required in production")
	}
	if config.Analytics.CacheTTL < 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return 0
}
