package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"investor-radar/internal/radar/dto"
	"investor-radar/pkg/common"
	"investor-radar/pkg/logger"
)

// CachedRadarRepository serves stats and trending from a ResponseCache and
// passes searches straight through.
type CachedRadarRepository interface {
	RadarAPIRepository
	// Refresh fetches stats and trending from upstream and overwrites the cache.
	Refresh(ctx context.Context) error
}

type cachedRadarRepository struct {
	next   RadarAPIRepository
	cache  ResponseCache
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

// NewCachedRadarRepository wraps next with a response cache.
func NewCachedRadarRepository(next RadarAPIRepository, responseCache ResponseCache, ttl time.Duration, prefix string, log *logger.Logger) CachedRadarRepository {
	return &cachedRadarRepository{
		next:   next,
		cache:  responseCache,
		ttl:    ttl,
		prefix: prefix,
		log:    log,
	}
}

func (r *cachedRadarRepository) key(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

// GetStats returns the cached stats, fetching them on a miss.
func (r *cachedRadarRepository) GetStats(ctx context.Context) (*dto.PlatformStats, error) {
	var stats dto.PlatformStats
	if r.lookup(ctx, common.CacheKeyStats, &stats) {
		return &stats, nil
	}
	fresh, err := r.next.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, common.CacheKeyStats, fresh)
	return fresh, nil
}

// GetTrending returns the cached trending list, fetching it on a miss.
func (r *cachedRadarRepository) GetTrending(ctx context.Context) ([]dto.TrendingEntry, error) {
	var entries []dto.TrendingEntry
	if r.lookup(ctx, common.CacheKeyTrending, &entries) {
		return entries, nil
	}
	fresh, err := r.next.GetTrending(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, common.CacheKeyTrending, fresh)
	return fresh, nil
}

// Search is never cached.
func (r *cachedRadarRepository) Search(ctx context.Context, query string) ([]dto.Company, error) {
	return r.next.Search(ctx, query)
}

// Refresh fetches both decorative reads and stores whichever succeeded.
func (r *cachedRadarRepository) Refresh(ctx context.Context) error {
	var errs []error

	stats, err := r.next.GetStats(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("stats: %w", err))
	} else {
		r.store(ctx, common.CacheKeyStats, stats)
	}

	entries, err := r.next.GetTrending(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("trending: %w", err))
	} else {
		r.store(ctx, common.CacheKeyTrending, entries)
	}

	return errors.Join(errs...)
}

func (r *cachedRadarRepository) lookup(ctx context.Context, name string, dst interface{}) bool {
	found, err := r.cache.Get(ctx, r.key(name), dst)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to read response cache", logger.StringField("key", r.key(name)), logger.ErrorField(err))
		return false
	}
	return found
}

func (r *cachedRadarRepository) store(ctx context.Context, name string, value interface{}) {
	if err := r.cache.Set(ctx, r.key(name), value, r.ttl); err != nil {
		r.log.WarnContext(ctx, "Failed to write response cache", logger.StringField("key", r.key(name)), logger.ErrorField(err))
	}
}
