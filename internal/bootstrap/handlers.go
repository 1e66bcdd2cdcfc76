package bootstrap

import (
	"github.com/go-mkbot/mkcore/internal/handlers"
	"github.com/go-mkbot/mkcore/internal/version"
)

// handlerSet groups all HTTP handlers
type handlerSet struct {
	health   *handlers.HealthHandler
	checkin  *handlers.CheckinHandler
	currency *handlers.CurrencyHandler
	license  *handlers.LicenseHandler
	authz    *handlers.AuthzHandler
	dispatch *handlers.DispatchHandler
	admin    *handlers.AdminHandler
	audit    *handlers.AuditHandler
	announce *handlers.AnnouncementHandler
}

func initializeHandlers(app *Application) handlerSet {
	return handlerSet{
		health: handlers.NewHealthHandler(app.AuditStore, version.Version),
		checkin: handlers.NewCheckinHandler(
			app.CheckinService,
			app.MetricsRecorder,
		),
		currency: handlers.NewCurrencyHandler(
			app.CurrencyService,
			app.LeaderboardCache,
			app.Config.CacheTTL,
			app.MetricsRecorder,
		),
		license: handlers.NewLicenseHandler(app.LicenseService, app.MetricsRecorder),
		authz:   handlers.NewAuthzHandler(app.AuthorizationService, app.MetricsRecorder),
		dispatch: handlers.NewDispatchHandler(
			app.AuthorizationService,
			app.LicenseService,
			app.CheckinService,
			app.CurrencyService,
			app.MetricsRecorder,
		),
		admin:    handlers.NewAdminHandler(app.Config),
		audit:    handlers.NewAuditHandler(app.AuditService),
		announce: handlers.NewAnnouncementHandler(app.Announcements),
	}
}
