package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverLocal    = "local"
)

type Config struct {
	Addr               string
	Environment        string
	ServiceName        string
	StoreDriver        string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	SessionTTL         time.Duration
	SeedAdminEmail     string
	SeedAdminPassword  string
	SeedDemoData       bool
	RunMigrations      bool
	MigrationsDir      string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	MetricsEnabled     bool
	OTLPEndpoint       string
}

// Load reads the environment, after applying a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		ServiceName:        getEnv("SERVICE_NAME", "worklog"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreDriverLocal)),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		SessionTTL:         getEnvDuration("AUTH_SESSION_TTL", 8*time.Hour),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", "admin@firma.cz"),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		SeedDemoData:       getEnvBool("SEED_DEMO_DATA", false),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case StoreDriverLocal:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverLocal)
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == "dev-secret" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.SeedAdminPassword == "admin123" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed in production")
		}
		if c.StoreDriver == StoreDriverLocal && c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the local store in production")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("AUTH_SESSION_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
