package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-mkbot/mkcore/internal/announce"
	"github.com/go-mkbot/mkcore/internal/audit"
	"github.com/go-mkbot/mkcore/internal/cache"
	"github.com/go-mkbot/mkcore/internal/clock"
	"github.com/go-mkbot/mkcore/internal/config"
	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/services"
	"github.com/go-mkbot/mkcore/internal/store"

	"github.com/gin-gonic/gin"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	Clock            clock.Clock
	Store            store.Store
	AuditStore       *audit.Store
	MetricsRecorder  metrics.Recorder
	LeaderboardCache cache.Cache[[]services.LeaderboardEntry]
	Announcements    *announce.Fetcher

	// Services
	AuditService         *services.AuditService
	AuthorizationService *services.AuthorizationService
	LicenseService       *services.LicenseService
	CurrencyService      *services.CurrencyService
	CheckinService       *services.CheckinService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{
		Config: cfg,
		Clock:  clock.NewSystem(),
	}

	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	app.initializeBusinessLayer()

	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	app.startWithGracefulShutdown()
	return nil
}

// initializeInfrastructure sets up the ledger store, audit store,
// metrics and the leaderboard cache
func (app *Application) initializeInfrastructure() error {
	var err error

	app.Store, err = initializeStore(app.Config)
	if err != nil {
		return err
	}

	if app.Config.AuditDSN != "" {
		app.AuditStore, err = audit.Open(app.Config.AuditDSN)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		log.Printf("Audit trail enabled (dsn=%s, retention=%s)",
			app.Config.AuditDSN, app.Config.AuditRetention)
	} else {
		log.Println("Audit trail disabled")
	}

	app.MetricsRecorder = metrics.Init(app.Config.MetricsEnabled)
	if app.Config.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}

	app.LeaderboardCache, err = initializeLeaderboardCache(app.Config)
	if err != nil {
		return err
	}

	app.Announcements, err = initializeAnnouncements(app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	// Audit service first, the ledger services record through it. A nil
	// service is valid and makes every Record a no-op.
	if app.AuditStore != nil {
		app.AuditService = services.NewAuditService(
			app.AuditStore,
			app.Config.AuditBuffer,
			app.MetricsRecorder,
		)
	}

	app.AuthorizationService = services.NewAuthorizationService(app.Store, app.Clock, app.AuditService)
	app.LicenseService = services.NewLicenseService(
		app.AuthorizationService,
		app.Store,
		app.Clock,
		app.AuditService,
	)
	app.CurrencyService = services.NewCurrencyService(app.Store, app.Clock)
	app.CheckinService = services.NewCheckinService(app.Store, app.Clock, app.CurrencyService)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(app)

	var err error
	app.Router, err = setupRouter(app.Config, app.HandlerSet, app.MetricsRecorder)
	if err != nil {
		return err
	}

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

func initializeStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		log.Println("Ledger store: memory (state is lost on restart)")
		return store.NewMemoryStore(), nil
	case config.StoreBackendFile:
		s, err := store.NewFileStore(cfg.StoreRoot)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		log.Printf("Ledger store: file (root=%s)", cfg.StoreRoot)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func initializeLeaderboardCache(cfg *config.Config) (cache.Cache[[]services.LeaderboardEntry], error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := cache.NewRedis[[]services.LeaderboardEntry](ctx, cfg.RedisAddr, "leaderboard:")
		if err != nil {
			return nil, fmt.Errorf("connect leaderboard cache: %w", err)
		}
		log.Printf("Leaderboard cache: redis (addr=%s, ttl=%s)", cfg.RedisAddr, cfg.CacheTTL)
		return c, nil
	case config.CacheBackendMemory:
		log.Printf("Leaderboard cache: memory (ttl=%s)", cfg.CacheTTL)
		return cache.NewMemory[[]services.LeaderboardEntry](), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func initializeAnnouncements(cfg *config.Config) (*announce.Fetcher, error) {
	if cfg.AnnouncementURL == "" {
		log.Println("Announcements disabled")
		return nil, nil
	}

	f, err := announce.NewFetcher(
		cfg.AnnouncementURL,
		cfg.AnnouncementTimeout,
		cfg.AnnouncementRetries,
		cache.NewMemory[string](),
	)
	if err != nil {
		return nil, fmt.Errorf("announcement fetcher: %w", err)
	}
	log.Printf("Announcements enabled (url=%s)", cfg.AnnouncementURL)
	return f, nil
}
