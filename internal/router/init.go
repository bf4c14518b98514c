package router

import (
	"github.com/prasetyoadi/admin-directory/internal/application"
	"github.com/prasetyoadi/admin-directory/internal/container"
	pginfra "github.com/prasetyoadi/admin-directory/internal/infrastructure/postgres"
	handlers "github.com/prasetyoadi/admin-directory/internal/interface/http"
	"github.com/prasetyoadi/admin-directory/internal/router/modules"
)

// InitModules builds the application services from container singletons and
// registers every feature module with the registry. Call once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	notifRepo := pginfra.NewNotificationRepository(container.GetPGPool())

	searchSvc := application.NewSearchService(userRepo, container.GetSearchCache(), logger, cfg.SearchCacheTTL)

	var publisher application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		publisher = pub
	}
	userSvc := application.NewUserService(userRepo, notifRepo, searchSvc, container.GetSearchCache(), publisher, logger, cfg.DashboardNotificationLimit)
	notifSvc := application.NewNotificationService(notifRepo, logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, searchSvc, logger)))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(notifSvc, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
