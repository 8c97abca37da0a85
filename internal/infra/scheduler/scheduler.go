package scheduler

import (
	"context"
	"fmt"
	"time"

	"homework_status_bot/internal/app" // For Poller interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type PollScheduler struct {
	cronEngine *cron.Cron
	job        cron.Job
	poller     app.Poller
	logger     *logrus.Entry
	interval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewPollScheduler(
	poller app.Poller,
	logger *logrus.Logger,
	interval time.Duration, // e.g. 10 * time.Minute
) *PollScheduler {
	cronLogger := cron.PrintfLogger(logger.WithField("component", "cron"))
	s := &PollScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use server's local time for cron
			cron.WithLogger(cronLogger),
		),
		poller:   poller,
		logger:   logger.WithField("component", "scheduler"),
		interval: interval,
	}
	// At most one poll in flight; a panic never kills the loop.
	s.job = cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)).
		Then(cron.FuncJob(s.executePoll))
	return s
}

// Start runs the first poll right away, then schedules the rest every interval.
func (s *PollScheduler) Start(parentCtx context.Context) error {
	s.logger.Info("Starting poll scheduler...")
	s.ctx, s.cancel = context.WithCancel(parentCtx)

	// Runs before the engine starts, so it cannot overlap with a scheduled poll.
	s.job.Run()

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cronEngine.AddJob(spec, s.job); err != nil {
		s.cancel()
		return fmt.Errorf("could not add poll cron job %q: %w", spec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("interval", s.interval.String()).Info("Poll scheduler started.")
	return nil
}

func (s *PollScheduler) executePoll() {
	start := time.Now()
	outcome := s.poller.Poll(s.ctx)
	s.logger.WithFields(logrus.Fields{
		"outcome":  outcome,
		"duration": time.Since(start).String(),
	}).Debug("Poll iteration finished")
}

func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	if s.cancel != nil {
		s.cancel() // Aborts in-flight network calls
	}
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Poll scheduler gracefully stopped.")
}
