package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/vitalboard/vitalboard-server/internal/logger"
	"github.com/vitalboard/vitalboard-server/internal/service"
)

// SessionCleanupJobHandle wraps the cleanup job with Shutdownable.
type SessionCleanupJobHandle struct {
	*service.SessionCleanupJob
}

// Shutdown implements do.Shutdownable.
func (h *SessionCleanupJobHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideSessionCleanupJob starts the periodic expired-session sweep.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJobHandle, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	job := service.NewSessionCleanupJob(sessionService, time.Hour, log.Logger)
	job.Start()

	return &SessionCleanupJobHandle{SessionCleanupJob: job}, nil
}
