// Package di provides dependency injection configuration for the VitalBoard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/vitalboard/vitalboard-server/internal/auth"
	"github.com/vitalboard/vitalboard-server/internal/config"
	"github.com/vitalboard/vitalboard-server/internal/di/providers"
	"github.com/vitalboard/vitalboard-server/internal/logger"
	"github.com/vitalboard/vitalboard-server/internal/service"
	"github.com/vitalboard/vitalboard-server/internal/validation"
	"github.com/vitalboard/vitalboard-server/internal/viewstate"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Dashboard state
	do.Provide(injector, providers.ProvideViewStateRegistry)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideRosterService)
	do.Provide(injector, providers.ProvideDashboardService)
	do.Provide(injector, providers.ProvideRankingService)
	do.Provide(injector, providers.ProvideMetricService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// running. Invocation order establishes shutdown order: the container
// shuts providers down in reverse.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)
	_ = do.MustInvoke[*viewstate.Registry](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.RosterService](injector)
	_ = do.MustInvoke[*service.DashboardService](injector)
	_ = do.MustInvoke[*service.RankingService](injector)
	_ = do.MustInvoke[*service.MetricService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJobHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
