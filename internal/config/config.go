package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string // sqlite, postgres or mysql
	DatabasePath    string // for sqlite
	DatabaseURL     string // for postgres/mysql
	MigrationsPath  string
	SessionDuration time.Duration
	BcryptCost      int
	JWTSecret       string
	JWTDuration     time.Duration
	AppBaseURL      string

	// Amazon SES (invitation emails); leave SESFromEmail empty to disable
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Google OAuth sign-in; leave client ID empty to disable
	GoogleClientID     string
	GoogleClientSecret string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./medistock.db"),
		DatabaseURL:     getEnv("DB_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration: getEnvDuration("SESSION_DURATION", 7*24*time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTDuration:     getEnvDuration("JWT_DURATION", 24*time.Hour),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "MediStock"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable (e.g. "24h") or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
