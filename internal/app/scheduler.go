package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/player-rating/internal/platform/logging"
	"github.com/riskibarqy/player-rating/internal/usecase"
)

const squadSyncJobTimeout = 10 * time.Minute

type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron "+msg, append(keysAndValues, "error", err)...)
}

// StartSquadSync runs SyncAll on SQUAD_SYNC_SCHEDULE. It returns nil when no
// schedule is configured. Overlapping runs are skipped.
func (c *Container) StartSquadSync() (*cron.Cron, error) {
	spec := strings.TrimSpace(c.Config.SquadSyncSchedule)
	if spec == "" {
		c.Logger.Info("squad sync schedule disabled", "reason", "SQUAD_SYNC_SCHEDULE empty")
		return nil, nil
	}

	logger := c.Logger.Named("squad-sync")
	scheduler := cron.New(
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.Recover(cronLogger{logger: logger}), cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)

	squads := c.Squads
	if _, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), squadSyncJobTimeout)
		defer cancel()

		started := time.Now()
		result := squads.SyncAll(ctx, usecase.SyncAllInput{})
		logger.InfoContext(ctx, "scheduled squad sync finished",
			"teams", result.Teams,
			"players", result.Players,
			"by_provenance", result.ByProvenance,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	}); err != nil {
		return nil, fmt.Errorf("parse SQUAD_SYNC_SCHEDULE %q: %w", spec, err)
	}

	scheduler.Start()
	logger.Info("squad sync scheduled", "schedule", spec)
	return scheduler, nil
}
