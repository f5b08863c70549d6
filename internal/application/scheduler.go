package application

import (
	"context"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"go.uber.org/zap"
)

const DefaultPollInterval = time.Minute

type RunOncer interface {
	RunOnce(ctx context.Context) domain.RunResult
}

// Scheduler runs one pass immediately, then one pass per day at the configured time.
type Scheduler struct {
	rt           *Runtime
	runner       RunOncer
	at           domain.TimeOfDay
	pollInterval time.Duration
}

func NewScheduler(rt *Runtime, runner RunOncer, at domain.TimeOfDay) *Scheduler {
	rt.applyDefaults()

	return &Scheduler{
		rt:           rt,
		runner:       runner,
		at:           at,
		pollInterval: DefaultPollInterval,
	}
}

// Run blocks until ctx is done. A stop request is a clean exit.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := s.rt.Logger

	logger.Info("Program started, running an immediate check-in...")
	s.runner.RunOnce(ctx)

	logger.Info("Scheduled daily check-in at " + s.at.String())
	logger.Info("Press Ctrl+C to stop the program")

	next := NextRun(s.rt.Clock.Now(), s.at)
	for {
		if err := s.rt.Sleeper.Sleep(ctx, s.pollInterval); err != nil {
			logger.Info("Program stopped")
			return nil
		}

		now := s.rt.Clock.Now()
		if now.Before(next) {
			continue
		}

		logger.Debug("Scheduled run due", zap.Time("due", next))
		s.runner.RunOnce(ctx)
		// Runs missed while the process was busy or asleep are not replayed.
		next = NextRun(s.rt.Clock.Now(), s.at)
	}
}

// NextRun is the first instant strictly after now at the given local time of day.
func NextRun(now time.Time, at domain.TimeOfDay) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}
