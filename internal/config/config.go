package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv             string
	LogLevel           slog.Level
	ApiServicePort     string
	PostgreSQLHost     string
	PostgreSQLPort     int64
	PostgreSQLUser     string
	PostgreSQLPassword string
	PostgreSQLDatabase string
	JWTSecret          string
	TokenExpiration    int64 // Bearer token lifetime in seconds
	RecentInvoiceLimit int64
	RedisHost          string
	RedisPort          int64
	RedisPassword      string
	RedisDatabase      int64
	LoginMaxAttempts   int64
	LoginWindow        int64 // Login attempt window in seconds
	MailerHost         string
	MailerID           string
	MailerPass         string
}

func LoadConfig() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),                  // Default development
		LogLevel:           getLogLevel(),                                     // Default INFO
		ApiServicePort:     getEnv("API_SERVICE_PORT", "3000"),                // Default 3000
		PostgreSQLHost:     getEnv("POSTGRESQL_HOST", "db"),                   // Default db
		PostgreSQLPort:     getEnvAsInt64("POSTGRESQL_PORT", 5432),            // Default 5432
		PostgreSQLUser:     getEnv("POSTGRESQL_USER", "invoicemaker_user"),    // Default user
		PostgreSQLPassword: getEnv("POSTGRESQL_PASSWORD", "invoicemaker_pwd"), // Default password
		PostgreSQLDatabase: getEnv("POSTGRESQL_DATABASE", "invoicemaker"),     // Default database name
		JWTSecret:          getEnv("CRYPTO_KEY", "invoicemaker_secret"),       // Default signing key
		TokenExpiration:    getEnvAsInt64("TOKEN_EXPIRATION", 3600),           // Default 1 hour
		RecentInvoiceLimit: getEnvAsInt64("RECENT_INVOICE_LIMIT", 5),          // Default 5 items
		RedisHost:          getEnv("REDIS_HOST", "redis"),                     // Default redis
		RedisPort:          getEnvAsInt64("REDIS_PORT", 6379),                 // Default 6379
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),                      // Default empty
		RedisDatabase:      getEnvAsInt64("REDIS_DATABASE", 0),                // Default 0
		LoginMaxAttempts:   getEnvAsInt64("LOGIN_MAX_ATTEMPTS", 10),           // Default 10 attempts
		LoginWindow:        getEnvAsInt64("LOGIN_WINDOW", 900),                // Default 15 minutes
		MailerHost:         getEnv("MAILER_HOST", ""),                         // Reset-code mail relay
		MailerID:           getEnv("MAILER_ID", ""),                           // Mail account
		MailerPass:         getEnv("MAILER_PASS", ""),                         // Mail password
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
