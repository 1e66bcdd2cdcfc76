package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, StoreBackendFile, cfg.StoreBackend)
	assert.Equal(t, "data", cfg.StoreRoot)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "audit.db", cfg.AuditDSN)
	assert.Equal(t, 1000, cfg.AuditBuffer)
	assert.Equal(t, 90*24*time.Hour, cfg.AuditRetention)
	assert.False(t, cfg.RateLimitEnabled)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("STORE_BACKEND", StoreBackendMemory)
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("ANNOUNCEMENT_RETRIES", "5")
	t.Setenv("METRICS_ENABLED", "0")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 5, cfg.AnnouncementRetries)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("ANNOUNCEMENT_RETRIES", "many")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.AnnouncementRetries)
}
