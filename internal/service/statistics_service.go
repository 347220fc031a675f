package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"complaintdesk/internal/model"
	"complaintdesk/internal/repository"
)

const (
	statisticsCachePrefix   = "stats:complaints:"
	statisticsGenerationKey = "stats:gen"
	recentWindow            = 7 * 24 * time.Hour
)

// SnapshotCache is the subset of the Redis client the services use.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// statisticsCacheKey names the snapshot for one write generation. Every
// complaint write bumps the generation, so a snapshot computed from reads
// that raced a write is stored under a key no later reader looks up.
func statisticsCacheKey(generation int64) string {
	return statisticsCachePrefix + strconv.FormatInt(generation, 10)
}

// statisticsGeneration reads the current write generation. A missing or
// unreadable counter is generation zero.
func statisticsGeneration(ctx context.Context, cache SnapshotCache) int64 {
	raw, _ := cache.Get(ctx, statisticsGenerationKey)
	if raw == nil {
		return 0
	}
	generation, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return generation
}

// StatisticsService computes the admin dashboard aggregates.
type StatisticsService interface {
	Compute(ctx context.Context) (*model.Statistics, error)
}

type statisticsService struct {
	complaints repository.ComplaintRepository
	cache      SnapshotCache
	ttl        time.Duration
	now        func() time.Time
}

// NewStatisticsService creates a statistics service. A nil cache or a
// non-positive ttl computes every figure on each call.
func NewStatisticsService(complaints repository.ComplaintRepository, cache SnapshotCache, ttl time.Duration) StatisticsService {
	return &statisticsService{complaints: complaints, cache: cache, ttl: ttl, now: time.Now}
}

func (s *statisticsService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// Compute returns the total, the by-status, by-type and by-branch breakdowns
// and the number of complaints filed in the trailing seven days.
func (s *statisticsService) Compute(ctx context.Context) (*model.Statistics, error) {
	var key string
	if s.cacheEnabled() {
		// The generation is read before any count so a concurrent write
		// always lands in a later generation than this snapshot.
		key = statisticsCacheKey(statisticsGeneration(ctx, s.cache))
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var cached model.Statistics
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats := &model.Statistics{}
	var err error
	if stats.Total, err = s.complaints.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}
	if stats.ByStatus, err = s.complaints.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	if stats.ByType, err = s.complaints.CountByType(ctx); err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	if stats.ByBranch, err = s.complaints.CountByBranch(ctx); err != nil {
		return nil, fmt.Errorf("count by branch: %w", err)
	}
	if stats.Recent, err = s.complaints.CountCreatedSince(ctx, s.now().Add(-recentWindow)); err != nil {
		return nil, fmt.Errorf("count recent: %w", err)
	}

	if s.cacheEnabled() {
		if payload, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, key, payload, s.ttl)
		}
	}
	return stats, nil
}
