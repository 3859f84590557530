package calsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the syncer on a cron schedule such as "*/15 * * * *" or
// "@every 30m".
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(schedule string, syncer *Syncer, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		_, err := syncer.Run(context.Background())
		if errors.Is(err, ErrSyncInProgress) {
			logger.Info("scheduled calendar sync skipped, another sync is running")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("calendar sync scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
