package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-mkbot/mkcore/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerAddr:    ":0",
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
		StoreBackend:  config.StoreBackendMemory,
		CacheBackend:  config.CacheBackendMemory,
		CacheTTL:      time.Second,
		AuditBuffer:   16,
	}
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &Application{Config: testConfig()}
	require.NoError(t, app.initializeInfrastructure())
	app.initializeBusinessLayer()
	require.NoError(t, app.initializeHTTPLayer())
	return app
}

func TestApplicationWiring(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Store)
	assert.Nil(t, app.AuditStore)
	assert.Nil(t, app.AuditService)
	assert.Nil(t, app.Announcements)
	assert.NotNil(t, app.AuthorizationService)
	assert.NotNil(t, app.LicenseService)
	assert.NotNil(t, app.CurrencyService)
	assert.NotNil(t, app.CheckinService)
	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
}

func TestHealthRoute(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/keys", nil)
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnnouncementRouteDisabled(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/announcement", nil)
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsRouteToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.MetricsEnabled = true
	cfg.MetricsToken = "scrape-token"

	app := &Application{Config: cfg}
	require.NoError(t, app.initializeInfrastructure())
	app.initializeBusinessLayer()
	require.NoError(t, app.initializeHTTPLayer())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer scrape-token")
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitializeStoreRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = "cassandra"

	_, err := initializeStore(cfg)
	assert.Error(t, err)
}

func TestInitializeCacheRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.CacheBackend = "tarantool"

	_, err := initializeLeaderboardCache(cfg)
	assert.Error(t, err)
}
