package app

import (
	"os"
	"strconv"
	"time"

	"github.com/hanriver/zipview/pkg/jwtx"
)

type Config struct {
	Issuer  string // Issuer claim for tokens
	KeyFile string // Optional: path to a PKCS8 Ed25519 PEM; ephemeral key if unset

	AccessTokenTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 336h / 14 days)
	ClockSkewLeeway time.Duration // Leeway for exp/nbf checks (default: 5s)

	DatabaseFile string // Path to SQLite database file (default: ./zipview.db)

	TradeAPIBaseURL   string // Apartment sale-price provider base URL
	TradeAPIKey       string // Provider service key
	GeocodeAPIBaseURL string // Geocoding provider base URL
	GeocodeAPIKey     string // Geocoding API key

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session purge interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:  getEnvOrDefault("AUTH_ISSUER", "zipview-api"),
		KeyFile: os.Getenv("AUTH_KEY_FILE"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		ClockSkewLeeway: getEnvDurationOrDefault("AUTH_CLOCK_SKEW_LEEWAY", jwtx.DefaultLeeway),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "zipview.db"),

		TradeAPIBaseURL:   os.Getenv("TRADE_API_BASE_URL"),
		TradeAPIKey:       os.Getenv("TRADE_API_KEY"),
		GeocodeAPIBaseURL: os.Getenv("GEOCODE_API_BASE_URL"),
		GeocodeAPIKey:     os.Getenv("GEOCODE_API_KEY"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
