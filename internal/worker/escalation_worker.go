package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/sla"
)

// RunEscalationLoop drives the periodic breach scan until ctx is cancelled.
// Intended to run in its own goroutine; each pass is independent and a
// failing pass only logs.
func RunEscalationLoop(ctx context.Context, cfg config.EscalationConfig, escalations *service.EscalationService, clock sla.Clock, logger *zap.Logger) {
	if !cfg.Enabled {
		logger.Info("escalation worker disabled")
		return
	}

	interval := cfg.Interval()
	logger.Info("escalation worker started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("escalation worker stopped")
			return
		case <-ticker.C:
			if _, err := escalations.RunEscalationPass(ctx, clock.Now()); err != nil {
				logger.Error("escalation pass failed", zap.Error(err))
			}
		}
	}
}
