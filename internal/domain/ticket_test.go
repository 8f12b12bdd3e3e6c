package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{TicketStatusNew, TicketStatusAssigned, true},
		{TicketStatusNew, TicketStatusCancelled, true},
		{TicketStatusNew, TicketStatusInProgress, false},
		{TicketStatusNew, TicketStatusClosed, false},
		{TicketStatusAssigned, TicketStatusInProgress, true},
		{TicketStatusAssigned, TicketStatusResolved, false},
		{TicketStatusInProgress, TicketStatusOnHold, true},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusOnHold, TicketStatusInProgress, true},
		{TicketStatusOnHold, TicketStatusResolved, true},
		{TicketStatusOnHold, TicketStatusClosed, false},
		{TicketStatusResolved, TicketStatusClosed, true},
		{TicketStatusResolved, TicketStatusAssigned, true},
		{TicketStatusResolved, TicketStatusInProgress, true},
		{TicketStatusResolved, TicketStatusCancelled, true},
		{TicketStatusClosed, TicketStatusAssigned, true},
		{TicketStatusClosed, TicketStatusInProgress, true},
		{TicketStatusClosed, TicketStatusCancelled, false},
		{TicketStatusCancelled, TicketStatusAssigned, false},
		{TicketStatusCancelled, TicketStatusNew, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTicketStatusTerminalAndSettled(t *testing.T) {
	assert.True(t, TicketStatusClosed.Terminal())
	assert.True(t, TicketStatusCancelled.Terminal())
	assert.False(t, TicketStatusResolved.Terminal())
	assert.False(t, TicketStatusNew.Terminal())

	assert.True(t, TicketStatusResolved.Settled())
	assert.True(t, TicketStatusClosed.Settled())
	assert.True(t, TicketStatusCancelled.Settled())
	assert.False(t, TicketStatusOnHold.Settled())
}

func TestIsReopen(t *testing.T) {
	assert.True(t, IsReopen(TicketStatusResolved, TicketStatusAssigned))
	assert.True(t, IsReopen(TicketStatusResolved, TicketStatusInProgress))
	assert.True(t, IsReopen(TicketStatusClosed, TicketStatusAssigned))
	assert.True(t, IsReopen(TicketStatusClosed, TicketStatusInProgress))

	assert.False(t, IsReopen(TicketStatusResolved, TicketStatusClosed))
	assert.False(t, IsReopen(TicketStatusOnHold, TicketStatusInProgress))
	assert.False(t, IsReopen(TicketStatusCancelled, TicketStatusAssigned))
}

func TestSLAViolatedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("overdue and active", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusInProgress, ResolutionDue: &past}
		assert.True(t, ticket.SLAViolatedAt(now))
	})

	t.Run("not yet due", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusInProgress, ResolutionDue: &future}
		assert.False(t, ticket.SLAViolatedAt(now))
	})

	t.Run("no due date", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusNew}
		assert.False(t, ticket.SLAViolatedAt(now))
	})

	t.Run("settled tickets never violate regardless of due date", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusResolved, TicketStatusClosed, TicketStatusCancelled} {
			ticket := &Ticket{Status: status, ResolutionDue: &past}
			assert.False(t, ticket.SLAViolatedAt(now), string(status))
		}
	})
}

func TestSLAHours(t *testing.T) {
	assert.Equal(t, 4, TicketPriorityCritical.SLAHours())
	assert.Equal(t, 8, TicketPriorityHigh.SLAHours())
	assert.Equal(t, 24, TicketPriorityNormal.SLAHours())
	assert.Equal(t, 72, TicketPriorityLow.SLAHours())
}

func TestMinutesSince(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket := &Ticket{CreatedAt: created}

	assert.Equal(t, 90, ticket.MinutesSince(created.Add(90*time.Minute)))
	assert.Equal(t, 0, ticket.MinutesSince(created.Add(-time.Minute)))
}
