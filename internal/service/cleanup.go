package service

import (
	"context"
	"log/slog"
	"time"
)

// SessionCleanupJob periodically removes expired sessions.
type SessionCleanupJob struct {
	sessions *SessionService
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSessionCleanupJob creates a cleanup job. An interval of zero falls
// back to hourly.
func NewSessionCleanupJob(sessions *SessionService, interval time.Duration, logger *slog.Logger) *SessionCleanupJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionCleanupJob{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the cleanup loop. One sweep runs immediately so expired
// sessions don't linger across restarts.
func (j *SessionCleanupJob) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.done = make(chan struct{})

	go j.run(ctx)
}

// Stop halts the loop and waits for the in-flight sweep to finish.
func (j *SessionCleanupJob) Stop() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	<-j.done
}

func (j *SessionCleanupJob) run(ctx context.Context) {
	defer close(j.done)

	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionCleanupJob) sweep(ctx context.Context) {
	if _, err := j.sessions.DeleteExpiredSessions(ctx); err != nil && j.logger != nil {
		j.logger.Error("Session cleanup failed", "error", err)
	}
}
