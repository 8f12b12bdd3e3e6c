package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolvedesk/itsm-service/internal/events"
	"github.com/resolvedesk/itsm-service/internal/repository"
)

func TestTechnicianPerformanceWithoutCache(t *testing.T) {
	var aggregateCalls int
	tickets := &mockTicketRepository{
		AggregateFunc: func(ctx context.Context) ([]repository.TechnicianPerformance, error) {
			aggregateCalls++
			return []repository.TechnicianPerformance{
				{TechnicianID: 3, Name: "Riley Okafor", TotalAssigned: 12, ResolvedTickets: 9, Workload: 25},
			}, nil
		},
	}
	svc := NewAnalyticsService(tickets, nil, time.Minute, zap.NewNop())

	report, err := svc.TechnicianPerformance(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, int64(3), report[0].TechnicianID)
	assert.Equal(t, 9, report[0].ResolvedTickets)

	// Without a cache every call hits the aggregate query.
	_, err = svc.TechnicianPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, aggregateCalls)
}

func TestInvalidatePerformanceCacheWithoutCacheIsNoOp(t *testing.T) {
	svc := NewAnalyticsService(&mockTicketRepository{}, nil, time.Minute, zap.NewNop())
	svc.InvalidatePerformanceCache(context.Background())
}

func TestRegisterInvalidationHooks(t *testing.T) {
	svc := NewAnalyticsService(&mockTicketRepository{}, nil, time.Minute, zap.NewNop())
	dispatcher := &captureDispatcher{}

	svc.RegisterInvalidationHooks(dispatcher)

	for _, eventType := range []events.EventType{
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
		events.EventTicketFeedbackReceived,
	} {
		handlers := dispatcher.Handlers[eventType]
		require.Len(t, handlers, 1, "missing hook for %s", eventType)
		assert.NoError(t, handlers[0](context.Background(), events.Event{Type: eventType}))
	}
}
