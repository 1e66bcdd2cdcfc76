package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backend constants
const (
	StoreBackendFile   = "file"
	StoreBackendMemory = "memory"
)

// Cache backend constants
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	// Server settings
	ServerAddr string
	BaseURL    string

	// Admin API authentication
	JWTSecret         string
	JWTExpiration     time.Duration
	AdminUsername     string
	AdminPasswordHash string // bcrypt hash; empty disables the admin API

	// Ledger store
	StoreBackend string // "file" or "memory"
	StoreRoot    string // root directory for the file backend

	// Audit trail
	AuditDSN       string // sqlite path; empty disables auditing
	AuditBuffer    int
	AuditRetention time.Duration

	// Leaderboard cache
	CacheBackend string // "memory" or "redis"
	CacheTTL     time.Duration
	RedisAddr    string

	// Rate limiting
	RateLimitEnabled bool
	RateLimit        string // ulule/limiter format, e.g. "30-M"
	RateLimitRedis   string // redis URL; empty keeps limiter state in memory

	// Announcements
	AnnouncementURL     string
	AnnouncementTimeout time.Duration
	AnnouncementRetries int

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // Bearer token for /metrics; empty leaves it open
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),

		JWTSecret:         getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		JWTExpiration:     getEnvDuration("JWT_EXPIRATION", time.Hour),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		StoreBackend: getEnv("STORE_BACKEND", StoreBackendFile),
		StoreRoot:    getEnv("STORE_ROOT", "data"),

		AuditDSN:       getEnv("AUDIT_DSN", "audit.db"),
		AuditBuffer:    getEnvInt("AUDIT_BUFFER", 1000),
		AuditRetention: getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour),

		CacheBackend: getEnv("CACHE_BACKEND", CacheBackendMemory),
		CacheTTL:     getEnvDuration("CACHE_TTL", 30*time.Second),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimit:        getEnv("RATE_LIMIT", "60-M"),
		RateLimitRedis:   getEnv("RATE_LIMIT_REDIS", ""),

		AnnouncementURL:     getEnv("ANNOUNCEMENT_URL", ""),
		AnnouncementTimeout: getEnvDuration("ANNOUNCEMENT_TIMEOUT", 10*time.Second),
		AnnouncementRetries: getEnvInt("ANNOUNCEMENT_RETRIES", 3),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
