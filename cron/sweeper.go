// File: cron/sweeper.go
package cron

import (
	"context"
	"time"

	"bookwala/config"
	"bookwala/services/slot"
	"bookwala/utils"

	"go.uber.org/zap"
)

// StartSweeper releases expired locks on a timer until ctx is cancelled.
// Safe to run on multiple replicas: each release is a conditional write that
// no-ops when another actor got there first.
func StartSweeper(ctx context.Context, slots slot.Service) {
	interval := time.Duration(config.AppConfig.SweepIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	batch := config.AppConfig.SweepBatchSize
	if batch <= 0 {
		batch = 500
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				utils.GetLogger().Info("sweeper stopped")
				return
			case <-ticker.C:
				n, err := slots.SweepExpired(ctx, batch)
				if err != nil {
					utils.GetLogger().Error("sweep pass failed", zap.Error(err))
					continue
				}
				if n > 0 {
					utils.GetLogger().Info("released expired locks", zap.Int("count", n))
				}
			}
		}
	}()
}
