// Package scheduler runs the aggregation pipeline on a cron schedule.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/846serj/headline-engine/internal/logger"
)

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
	}
}

// Schedule registers fn under a standard 5-field cron spec.
func (s *Scheduler) Schedule(spec string, fn func(ctx context.Context)) error {
	log := logger.With("scheduler")

	_, err := s.cron.AddFunc(spec, func() {
		log.Info("scheduled run starting", "spec", spec)
		fn(context.Background())
	})
	return err
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
