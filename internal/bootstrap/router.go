package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-mkbot/mkcore/internal/config"
	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	h handlerSet,
	rec metrics.Recorder,
) (*gin.Engine, error) {
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(rec))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.IPMiddleware())

	if cfg.RateLimitEnabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitRedis)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		r.Use(limiter)
		log.Printf("Rate limiting enabled (%s)", cfg.RateLimit)
	}

	r.GET("/health", h.health.Health)
	setupMetricsEndpoint(r, cfg)

	api := r.Group("/api")
	{
		api.POST("/checkin", h.checkin.Checkin)
		api.GET("/checkin/:user_id", h.checkin.Status)

		api.POST("/currency/deposit", h.currency.Deposit)
		api.POST("/currency/withdraw", h.currency.Withdraw)
		api.GET("/currency/balance/:user_id", h.currency.Balance)
		api.GET("/currency/leaderboard", h.currency.Leaderboard)

		api.POST("/license/redeem", h.license.Redeem)
		api.GET("/authz/:scope_id", h.authz.Status)

		api.POST("/dispatch", h.dispatch.Dispatch)
		api.GET("/announcement", h.announce.Get)
	}

	// Login sits outside the guarded group, everything else under
	// /admin requires a Bearer token from it.
	r.POST("/admin/login", h.admin.Login)

	admin := r.Group("/admin", middleware.RequireAdmin(cfg.JWTSecret))
	{
		admin.POST("/keys", h.license.Issue)
		admin.GET("/keys", h.license.List)
		admin.DELETE("/keys/:key", h.license.Revoke)
		admin.DELETE("/keys", h.license.Clear)

		admin.POST("/authz/:scope_id/grant", h.authz.Grant)
		admin.DELETE("/authz/:scope_id", h.authz.Revoke)

		admin.GET("/audit", h.audit.List)
	}

	if cfg.AdminPasswordHash == "" {
		log.Println("Admin API disabled (no ADMIN_PASSWORD_HASH configured)")
	}

	log.Printf("Server listening on %s", cfg.ServerAddr)
	return r, nil
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
