package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ExpiryScheduler periodically sweeps matches past their play or confirmation
// deadline. Sweeps are idempotent so overlapping or repeated runs are safe.
type ExpiryScheduler struct {
	matchService MatchService
	interval     time.Duration
	scheduler    gocron.Scheduler
	logger       *slog.Logger
}

func NewExpiryScheduler(matchService MatchService, interval time.Duration, logger *slog.Logger) (*ExpiryScheduler, error) {
	if interval <= 0 {
		interval = time.Minute
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &ExpiryScheduler{
		matchService: matchService,
		interval:     interval,
		scheduler:    sched,
		logger:       logger,
	}, nil
}

func (s *ExpiryScheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			expired, err := s.matchService.ExpireOverdueMatches(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "expiry sweep failed", slog.Any("error", err))
				return
			}
			if expired > 0 {
				s.logger.InfoContext(ctx, "expiry sweep finished", slog.Int("matches", expired))
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to register expiry job: %w", err)
	}
	s.scheduler.Start()
	return nil
}

func (s *ExpiryScheduler) Stop() error {
	return s.scheduler.Shutdown()
}
