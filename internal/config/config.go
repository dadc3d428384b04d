package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DBDriver    string
	DatabaseURL string
	AutoMigrate bool

	RedisURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	ReportURLTTL   time.Duration

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	Domain       string

	FirebaseCredentialsFile string

	LocalesPath   string
	DefaultLocale string

	DeadlineSweepSpec   string
	SessionPurgeSpec    string
	DefaultDeadlineDays int
	StageLockTTL        time.Duration
	UnreadCacheTTL      time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AutoMigrate: getBoolEnv("AUTO_MIGRATE", true),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "moey-reports"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),
		ReportURLTTL:   getDurationEnv("REPORT_URL_TTL", 24*time.Hour),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
		Domain:       getEnv("DOMAIN", "localhost:5173"),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		LocalesPath:   getEnv("LOCALES_PATH", "./locales"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "id"),

		DeadlineSweepSpec:   getEnv("DEADLINE_SWEEP_SPEC", "@every 1h"),
		SessionPurgeSpec:    getEnv("SESSION_PURGE_SPEC", "@daily"),
		DefaultDeadlineDays: getIntEnv("DEFAULT_DEADLINE_DAYS", 3),
		StageLockTTL:        getDurationEnv("STAGE_LOCK_TTL", 10*time.Second),
		UnreadCacheTTL:      getDurationEnv("UNREAD_CACHE_TTL", time.Minute),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
