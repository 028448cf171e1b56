package service

import (
	"context"
	"fmt"
	"time"

	"investor-radar/internal/radar/repository"
	"investor-radar/pkg/logger"

	"github.com/robfig/cron/v3"
)

// WarmupService keeps the stats and trending cache fresh on a cron schedule.
type WarmupService interface {
	Start(ctx context.Context)
	Warm(ctx context.Context) error
}

type warmupService struct {
	repo     repository.CachedRadarRepository
	logger   *logger.Logger
	schedule cron.Schedule
	now      func() time.Time
}

// NewWarmupService parses spec (standard five-field cron or a descriptor
// such as "@every 30s") and returns a service refreshing repo on it.
func NewWarmupService(repo repository.CachedRadarRepository, logger *logger.Logger, spec string) (WarmupService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid warmup schedule %q: %w", spec, err)
	}
	return &warmupService{
		repo:     repo,
		logger:   logger,
		schedule: schedule,
		now:      time.Now,
	}, nil
}

// Start warms the cache once, then again at every scheduled time until ctx
// is cancelled.
func (s *warmupService) Start(ctx context.Context) {
	_ = s.Warm(ctx)

	for {
		now := s.now()
		timer := time.NewTimer(s.schedule.Next(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Warmup service stopping")
			return
		case <-timer.C:
			_ = s.Warm(ctx)
		}
	}
}

// Warm refreshes the cache once. Failures are logged; the next tick retries.
func (s *warmupService) Warm(ctx context.Context) error {
	start := s.now()
	if err := s.repo.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to warm radar cache", logger.ErrorField(err))
		return err
	}
	s.logger.DebugContext(ctx, "Radar cache warmed", logger.Field("elapsed", s.now().Sub(start).String()))
	return nil
}
