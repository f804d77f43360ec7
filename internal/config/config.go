package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AppEnv         string
	LogLevel       string
	RequestTimeout time.Duration

	DatabaseDSN string

	// Session storage: "redis" or "postgres"
	SessionStore  string
	RedisAddr     string
	SessionCookie string
	SessionTTL    time.Duration

	// Empty disables event publishing.
	RabbitURL string

	// OTLP gRPC collector; empty keeps spans in-process for log correlation only.
	OTelEndpoint string

	// Redirect targets
	LandingPath      string
	LoginPath        string
	ConfirmationPath string

	ShopName       string
	CurrencySymbol string
}

var ErrMissingDSN = errors.New("CHECKOUT_DB_DSN not set")

// Load reads the configuration from the environment. A .env file in the working
// directory, when present, fills in variables that are not already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "8084"),
		AppEnv:         getenv("APP_ENV", "dev"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		RequestTimeout: parseDuration(getenv("REQUEST_TIMEOUT", "5s"), 5*time.Second),

		DatabaseDSN: getenv("CHECKOUT_DB_DSN", ""),

		SessionStore:  strings.ToLower(getenv("SESSION_STORE", "redis")),
		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		SessionCookie: getenv("SESSION_COOKIE", "checkout_session"),
		SessionTTL:    parseDuration(getenv("SESSION_TTL", "24h"), 24*time.Hour),

		RabbitURL: getenv("RABBITMQ_URL", ""),

		OTelEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		LandingPath:      getenv("LANDING_PATH", "/"),
		LoginPath:        getenv("LOGIN_PATH", "/login"),
		ConfirmationPath: getenv("CONFIRMATION_PATH", "/order-confirmation"),

		ShopName:       getenv("SHOP_NAME", "FOODZIE"),
		CurrencySymbol: getenv("CURRENCY_SYMBOL", "₱"),
	}

	if cfg.DatabaseDSN == "" {
		return cfg, ErrMissingDSN
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
