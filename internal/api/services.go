package api

import (
	"github.com/vitalboard/vitalboard-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Session   *service.SessionService
	Roster    *service.RosterService
	Dashboard *service.DashboardService
	Ranking   *service.RankingService
	Metric    *service.MetricService
}
