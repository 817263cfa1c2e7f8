package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/repositories"
)

// defaultSweepInterval paces the expired-session sweep. Sessions live for a
// day, so half-hourly is more than enough.
const defaultSweepInterval = 30 * time.Minute

// SessionJanitor removes expired hide sessions in the background so the
// store does not accumulate stale hide-time context.
type SessionJanitor struct {
	sessions repositories.SessionRepository
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewSessionJanitor creates a janitor for the given repository
func NewSessionJanitor(sessions repositories.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SessionJanitor{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background sweep loop
func (j *SessionJanitor) Start() {
	go j.sweepLoop()
	j.logger.Info("Session janitor started", zap.Duration("interval", j.interval))
}

// Stop gracefully stops the sweep loop
func (j *SessionJanitor) Stop() {
	close(j.stopChan)
	j.logger.Info("Session janitor stopped")
}

func (j *SessionJanitor) sweepLoop() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// First sweep shortly after startup to clear anything left over from
	// the previous run
	initialTimer := time.NewTimer(time.Minute)
	defer initialTimer.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-initialTimer.C:
			j.runSweep()
		case <-ticker.C:
			j.runSweep()
		}
	}
}

func (j *SessionJanitor) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("Failed to delete expired sessions", zap.Error(err))
		return
	}
	if deleted > 0 {
		j.logger.Info("Deleted expired sessions", zap.Int64("count", deleted))
	}
}
