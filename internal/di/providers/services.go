package providers

import (
	"github.com/samber/do/v2"

	"github.com/vitalboard/vitalboard-server/internal/auth"
	"github.com/vitalboard/vitalboard-server/internal/config"
	"github.com/vitalboard/vitalboard-server/internal/logger"
	"github.com/vitalboard/vitalboard-server/internal/service"
	"github.com/vitalboard/vitalboard-server/internal/validation"
	"github.com/vitalboard/vitalboard-server/internal/viewstate"
)

// ProvideViewStateRegistry provides the per-user view-state registry.
func ProvideViewStateRegistry(i do.Injector) (*viewstate.Registry, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return viewstate.NewRegistry(cfg.Dashboard.DefaultLookbackDays), nil
}

// ProvideSessionService provides the session lifecycle service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	limiterHandle := do.MustInvoke[*LoginLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		storeHandle.Store,
		tokenService,
		sessionService,
		validator,
		limiterHandle.KeyedRateLimiter,
		log.Logger,
	), nil
}

// ProvideRosterService provides the group/participant roster service.
func ProvideRosterService(i do.Injector) (*service.RosterService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRosterService(storeHandle.Store, log.Logger), nil
}

// ProvideDashboardService provides the dashboard view-state service.
func ProvideDashboardService(i do.Injector) (*service.DashboardService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	rosterService := do.MustInvoke[*service.RosterService](i)
	registry := do.MustInvoke[*viewstate.Registry](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDashboardService(storeHandle.Store, rosterService, registry, log.Logger), nil
}

// ProvideRankingService provides the ranking service.
func ProvideRankingService(i do.Injector) (*service.RankingService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRankingService(storeHandle.Store, cfg.Dashboard.RankingAnomalyThreshold, log.Logger), nil
}

// ProvideMetricService provides the metric import service.
func ProvideMetricService(i do.Injector) (*service.MetricService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetricService(storeHandle.Store, validator, log.Logger), nil
}
