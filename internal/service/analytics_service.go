package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/resolvedesk/itsm-service/internal/events"
	"github.com/resolvedesk/itsm-service/internal/repository"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

const performanceCacheKey = "analytics:technician_performance"

// AnalyticsService serves aggregate reports. Results are cached in Redis so
// dashboard polling does not hammer the aggregate query; a cache miss or a
// Redis outage falls through to Postgres.
type AnalyticsService struct {
	tickets  repository.TicketRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService builds the service. cache may be nil.
func NewAnalyticsService(tickets repository.TicketRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		tickets:  tickets,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// TechnicianPerformance returns the per-technician performance report.
func (s *AnalyticsService) TechnicianPerformance(ctx context.Context) ([]repository.TechnicianPerformance, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, performanceCacheKey).Bytes()
		if err == nil {
			var report []repository.TechnicianPerformance
			if jsonErr := json.Unmarshal(cached, &report); jsonErr == nil {
				return report, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("analytics cache read failed", zap.Error(err))
		}
	}

	report, err := s.tickets.AggregatePerformance(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if payload, jsonErr := json.Marshal(report); jsonErr == nil {
			if err := s.cache.Set(ctx, performanceCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("analytics cache write failed", zap.Error(err))
			}
		}
	}
	return report, nil
}

// RegisterInvalidationHooks subscribes cache invalidation to the events
// whose writes move the aggregates: assignments, status changes, feedback.
func (s *AnalyticsService) RegisterInvalidationHooks(dispatcher events.Dispatcher) {
	invalidate := func(ctx context.Context, _ events.Event) error {
		s.InvalidatePerformanceCache(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketAssigned, invalidate)
	dispatcher.Subscribe(events.EventTicketStatusChanged, invalidate)
	dispatcher.Subscribe(events.EventTicketFeedbackReceived, invalidate)
}

// InvalidatePerformanceCache drops the cached report.
func (s *AnalyticsService) InvalidatePerformanceCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, performanceCacheKey).Err(); err != nil && err != redis.Nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
