package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Lock drivers.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	StorageDriver     string
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RedisAddr       string
	RedisPassword   string
	LockDriver      string
	LockTTL         time.Duration
	BalanceCacheTTL time.Duration

	KafkaBrokers        []string
	KafkaTopicPrefix    string
	PosthogAPIKey       string
	NotificationBuffer  int
	NotificationWorkers int

	CheckingOverdraftLimit   decimal.Decimal
	SavingsInterestRate      decimal.Decimal
	LargeWithdrawalThreshold decimal.Decimal

	LoginRateLimit     string
	APIRateLimit       string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "softblue-bank")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("LOCK_DRIVER", LockLocal)
	viper.SetDefault("LOCK_TTL", "10s")
	viper.SetDefault("BALANCE_CACHE_TTL", "5m")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC_PREFIX", "bank.")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("NOTIFICATION_BUFFER", 1024)
	viper.SetDefault("NOTIFICATION_WORKERS", 4)
	viper.SetDefault("CHECKING_OVERDRAFT_LIMIT", "100")
	viper.SetDefault("SAVINGS_INTEREST_RATE", "0.01")
	viper.SetDefault("LARGE_WITHDRAWAL_THRESHOLD", "1000000")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("API_RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	// Values from the process environment win over defaults and .env.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		StorageDriver:    strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath:   viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		JWTIssuer:        viper.GetString("JWT_ISSUER"),
		RedisAddr:        viper.GetString("REDIS_ADDR"),
		RedisPassword:    viper.GetString("REDIS_PASSWORD"),
		LockDriver:       strings.ToLower(viper.GetString("LOCK_DRIVER")),
		KafkaBrokers:     splitList(viper.GetString("KAFKA_BROKERS")),
		KafkaTopicPrefix: viper.GetString("KAFKA_TOPIC_PREFIX"),
		PosthogAPIKey:    viper.GetString("POSTHOG_API_KEY"),
		LoginRateLimit:   viper.GetString("LOGIN_RATE_LIMIT"),
		APIRateLimit:     viper.GetString("API_RATE_LIMIT"),

		NotificationBuffer:  viper.GetInt("NOTIFICATION_BUFFER"),
		NotificationWorkers: viper.GetInt("NOTIFICATION_WORKERS"),
		CORSAllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, data will not survive a restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.LockDriver {
	case LockLocal:
	case LockRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when LOCK_DRIVER is %q", LockRedis)
		}
	default:
		return nil, fmt.Errorf("unknown LOCK_DRIVER %q", cfg.LockDriver)
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	var err error
	if cfg.JWTExpiryDuration, err = parseDuration("JWT_EXPIRY_DURATION", 8*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = parseDuration("LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BalanceCacheTTL, err = parseDuration("BALANCE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if cfg.CheckingOverdraftLimit, err = parseDecimal("CHECKING_OVERDRAFT_LIMIT"); err != nil {
		return nil, err
	}
	if cfg.SavingsInterestRate, err = parseDecimal("SAVINGS_INTEREST_RATE"); err != nil {
		return nil, err
	}
	if cfg.LargeWithdrawalThreshold, err = parseDecimal("LARGE_WITHDRAWAL_THRESHOLD"); err != nil {
		return nil, err
	}
	if cfg.CheckingOverdraftLimit.IsNegative() {
		return nil, fmt.Errorf("CHECKING_OVERDRAFT_LIMIT must not be negative, got %s", cfg.CheckingOverdraftLimit)
	}

	if cfg.NotificationBuffer <= 0 {
		cfg.NotificationBuffer = 1024
	}
	if cfg.NotificationWorkers <= 0 {
		cfg.NotificationWorkers = 1
	}

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}

func parseDecimal(key string) (decimal.Decimal, error) {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
