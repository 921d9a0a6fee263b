package router

import (
	"context"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/guide"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// fallbackInterval is used when no cron schedule could be parsed.
const fallbackInterval = 6 * time.Hour

// Schedule runs the periodic cache refresh. With a parsed cron schedule each
// wait is computed from the expression; otherwise a fixed interval applies.
func Schedule(ctx context.Context, refresher *guide.Refresher, schedule cron.Schedule) {
	go func() {
		for {
			wait := fallbackInterval
			if schedule != nil {
				wait = time.Until(schedule.Next(time.Now()))
			}
			if wait < time.Second {
				wait = time.Second
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Info("The scheduling task has been stopped.")
				return
			case <-timer.C:
				logger.Info("Start executing the scheduling task.")

				if _, err := refresher.Refresh(ctx); err != nil {
					logger.Error("Scheduled refresh failed.", zap.Error(err))
				}

				logger.Info("The scheduling task has been completed.")
			}
		}
	}()
}
