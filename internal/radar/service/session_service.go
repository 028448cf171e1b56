package service

import (
	"context"
	"time"

	"investor-radar/internal/radar/repository"
	"investor-radar/pkg/logger"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// SessionService keeps one Dashboard per viewer session.
type SessionService interface {
	// Get returns the dashboard of an existing session and extends its lifetime.
	Get(id string) (*Dashboard, bool)
	// Open creates a session and loads its stats and trending companies.
	Open(ctx context.Context) (string, *Dashboard)
	// GetOrOpen returns the session for id, opening a new one when it is unknown or expired.
	GetOrOpen(ctx context.Context, id string) (string, *Dashboard)
	Count() int
}

type sessionService struct {
	repo          repository.RadarAPIRepository
	logger        *logger.Logger
	sessions      *cache.Cache
	ttl           time.Duration
	trendingLimit int
}

// NewSessionService creates a session store whose sessions expire after ttl
// without activity.
func NewSessionService(repo repository.RadarAPIRepository, logger *logger.Logger, ttl time.Duration, trendingLimit int) SessionService {
	return &sessionService{
		repo:          repo,
		logger:        logger,
		sessions:      cache.New(ttl, ttl),
		ttl:           ttl,
		trendingLimit: trendingLimit,
	}
}

func (s *sessionService) Get(id string) (*Dashboard, bool) {
	if id == "" {
		return nil, false
	}
	raw, found := s.sessions.Get(id)
	if !found {
		return nil, false
	}
	dashboard, ok := raw.(*Dashboard)
	if !ok {
		return nil, false
	}
	s.sessions.Set(id, dashboard, s.ttl)
	return dashboard, true
}

func (s *sessionService) Open(ctx context.Context) (string, *Dashboard) {
	id := uuid.NewString()
	dashboard := NewDashboard(s.repo, s.logger, s.trendingLimit)

	// Both reads are soft-fail; the dashboard has already logged any error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_ = dashboard.FetchStats(gctx)
		return nil
	})
	g.Go(func() error {
		_ = dashboard.FetchTrending(gctx)
		return nil
	})
	_ = g.Wait()

	s.sessions.Set(id, dashboard, s.ttl)
	s.logger.DebugContext(ctx, "Session opened", logger.StringField("session_id", id))
	return id, dashboard
}

func (s *sessionService) GetOrOpen(ctx context.Context, id string) (string, *Dashboard) {
	if dashboard, ok := s.Get(id); ok {
		return id, dashboard
	}
	return s.Open(ctx)
}

func (s *sessionService) Count() int {
	return s.sessions.ItemCount()
}
