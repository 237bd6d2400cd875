package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Booking policy
	Timezone              string        // IANA name used for date-granularity checks
	MonthlyQuota          int           // max active reservations per resident per calendar month
	QuotaExemptPrivileged bool          // managers/sysadmins bypass the monthly quota
	PendingTTL            time.Duration // how long a pending reservation holds its slot
	ExpirerInterval       time.Duration // how often the expiry sweep runs

	// Collaborators
	PaymentGatewayURL    string
	PaymentCallbackToken string // shared secret the gateway presents on settlement callbacks
	StoragePath          string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Timezone used when truncating instants to calendar dates (default: UTC)
	cfg.Timezone = getEnv("BOOKING_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE: %w", err)
	}

	// Monthly reservation quota for residents (default: 3)
	cfg.MonthlyQuota, err = getEnvAsInt("MONTHLY_QUOTA", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid MONTHLY_QUOTA: %w", err)
	}

	// Whether privileged roles bypass the monthly quota (default: true).
	// Kept as configuration so uniform enforcement is a flag flip, not a code change.
	cfg.QuotaExemptPrivileged, err = getEnvAsBool("QUOTA_EXEMPT_PRIVILEGED", true)
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTA_EXEMPT_PRIVILEGED: %w", err)
	}

	// Payment hold window: pending reservations older than this are released (default: 30m)
	cfg.PendingTTL, err = getEnvAsDuration("PENDING_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	// Interval of the background sweep that releases stale holds (default: 1m)
	cfg.ExpirerInterval, err = getEnvAsDuration("EXPIRER_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	// Payment gateway base URL is required: admitted reservations need an intent
	cfg.PaymentGatewayURL = os.Getenv("PAYMENT_GATEWAY_URL")
	if cfg.PaymentGatewayURL == "" {
		return nil, fmt.Errorf("PAYMENT_GATEWAY_URL is required")
	}

	// Callback token is required: settlement callbacks confirm and cancel
	// reservations, so unauthenticated callers must not reach them
	cfg.PaymentCallbackToken = os.Getenv("PAYMENT_CALLBACK_TOKEN")
	if cfg.PaymentCallbackToken == "" {
		return nil, fmt.Errorf("PAYMENT_CALLBACK_TOKEN is required")
	}

	// Local storage path for amenity photos (default: ./data)
	cfg.StoragePath = getEnv("STORAGE_PATH", "./data")

	return cfg, nil
}

// Location resolves the configured timezone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsBool retrieves an environment variable as a boolean.
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
