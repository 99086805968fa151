package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Feed sources
const (
	FeedSynthetic = "synthetic"
	FeedCSV       = "csv"
	FeedPostgres  = "postgres"
	FeedHTTP      = "http"
)

// Config holds all process configuration
// ⭐ SSOT: environment variables are read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Engine parameters (YAML, empty → built-in defaults)
	EngineConfigPath string

	// Signal feed
	Feed FeedConfig

	// Database (read-only feed)
	Database DatabaseConfig

	// Redis (derived report cache)
	Redis RedisConfig

	// Scheduler
	Schedule ScheduleConfig

	// API
	API APIConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// FeedConfig selects and parameterizes the signal source
type FeedConfig struct {
	Source    string // synthetic, csv, postgres, http
	CSVPath   string
	URL       string // CSV export endpoint for the http feed
	Table     string
	Customers int
	Weeks     int
	Seed      uint64
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	TTL      time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ScheduleConfig holds cron expressions (with seconds)
type ScheduleConfig struct {
	WeeklyScoring string
	MaxRetries    int
	RetryDelay    time.Duration
}

// APIConfig holds HTTP adapter limits
type APIConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		EngineConfigPath: getEnv("ENGINE_CONFIG", ""),

		Feed: FeedConfig{
			Source:    getEnv("FEED_SOURCE", FeedSynthetic),
			CSVPath:   getEnv("FEED_CSV_PATH", ""),
			URL:       getEnv("FEED_URL", ""),
			Table:     getEnv("FEED_TABLE", "weekly_signals"),
			Customers: getEnvAsInt("FEED_CUSTOMERS", 200),
			Weeks:     getEnvAsInt("FEED_WEEKS", 12),
			Seed:      uint64(getEnvAsInt("FEED_SEED", 42)),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			TTL:      getEnvAsDuration("REDIS_TTL", "15m"),
		},

		Schedule: ScheduleConfig{
			WeeklyScoring: getEnv("SCHEDULE_WEEKLY_CRON", "0 0 6 * * MON"),
			MaxRetries:    getEnvAsInt("SCHEDULE_MAX_RETRIES", 3),
			RetryDelay:    getEnvAsDuration("SCHEDULE_RETRY_DELAY", "30s"),
		},

		API: APIConfig{
			RateLimitRPS:   getEnvAsFloat("API_RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvAsInt("API_RATE_LIMIT_BURST", 40),
			ReadTimeout:    getEnvAsDuration("API_READ_TIMEOUT", "15s"),
			WriteTimeout:   getEnvAsDuration("API_WRITE_TIMEOUT", "15s"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Feed.Source {
	case FeedSynthetic:
		if c.Feed.Customers <= 0 || c.Feed.Weeks <= 0 {
			return fmt.Errorf("FEED_CUSTOMERS and FEED_WEEKS must be > 0")
		}
	case FeedCSV:
		if c.Feed.CSVPath == "" {
			return fmt.Errorf("FEED_CSV_PATH is required when FEED_SOURCE=csv")
		}
	case FeedPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when FEED_SOURCE=postgres")
		}
	case FeedHTTP:
		if c.Feed.URL == "" {
			return fmt.Errorf("FEED_URL is required when FEED_SOURCE=http")
		}
	default:
		return fmt.Errorf("FEED_SOURCE must be one of: synthetic, csv, postgres, http")
	}

	if c.API.RateLimitRPS <= 0 || c.API.RateLimitBurst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT_RPS and API_RATE_LIMIT_BURST must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile loads the first .env found next to the working directory or executable
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
