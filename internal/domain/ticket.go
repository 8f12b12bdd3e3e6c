package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusOnHold, TicketStatusResolved, TicketStatusClosed,
		TicketStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further work happens in this state.
// Resolved is not terminal: it can still be closed or reopened.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusClosed || s == TicketStatusCancelled
}

// Settled reports whether the state stops the SLA clock.
func (s TicketStatus) Settled() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed || s == TicketStatusCancelled
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusNew:        {TicketStatusAssigned, TicketStatusCancelled},
	TicketStatusAssigned:   {TicketStatusInProgress, TicketStatusCancelled},
	TicketStatusInProgress: {TicketStatusOnHold, TicketStatusResolved, TicketStatusCancelled},
	TicketStatusOnHold:     {TicketStatusInProgress, TicketStatusResolved, TicketStatusCancelled},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusAssigned, TicketStatusInProgress, TicketStatusCancelled},
	TicketStatusClosed:     {TicketStatusAssigned, TicketStatusInProgress},
	TicketStatusCancelled:  {},
}

// CanTransitionTo reports whether the state machine allows current→next.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, candidate := range ticketTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsReopen reports whether current→next leaves a settled state for an
// active one. Every reopen must increment ReopenedCount by exactly 1.
func IsReopen(current, next TicketStatus) bool {
	if current != TicketStatusResolved && current != TicketStatusClosed {
		return false
	}
	return next == TicketStatusAssigned || next == TicketStatusInProgress
}

// TicketPriority enumerates SLA urgency as chosen by triage.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityNormal   TicketPriority = "normal"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// SLAHours returns the default resolution window for the priority.
func (p TicketPriority) SLAHours() int {
	switch p {
	case TicketPriorityCritical:
		return 4
	case TicketPriorityHigh:
		return 8
	case TicketPriorityLow:
		return 72
	default:
		return 24
	}
}

// TicketImpact enumerates business impact.
type TicketImpact string

const (
	ImpactLow      TicketImpact = "low"
	ImpactMedium   TicketImpact = "medium"
	ImpactHigh     TicketImpact = "high"
	ImpactCritical TicketImpact = "critical"
)

// Valid reports whether the impact is a known value.
func (i TicketImpact) Valid() bool {
	switch i {
	case ImpactLow, ImpactMedium, ImpactHigh, ImpactCritical:
		return true
	}
	return false
}

// TicketUrgency enumerates requester-perceived urgency.
type TicketUrgency string

const (
	UrgencyLow      TicketUrgency = "low"
	UrgencyNormal   TicketUrgency = "normal"
	UrgencyHigh     TicketUrgency = "high"
	UrgencyCritical TicketUrgency = "critical"
)

// Valid reports whether the urgency is a known value.
func (u TicketUrgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// TaskStatus enumerates states for embedded subtasks.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Task is an embedded subtask on a ticket.
type Task struct {
	Name        string     `json:"name"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description,omitempty"`
}

// Ticket is the aggregate for one reported unit of work.
type Ticket struct {
	ID                   int64
	ExternalKey          string
	Subject              string
	Description          string
	Status               TicketStatus
	Tags                 []string
	Priority             TicketPriority
	Impact               TicketImpact
	Urgency              TicketUrgency
	SLAViolated          bool
	ResolutionDue        *time.Time
	ResolutionDate       *time.Time
	FirstResponseTime    *int
	ResponseTime         *int
	ResolutionTime       *int
	EscalationCount      int
	RequesterID          int64
	AssignedTechnicianID *int64
	RequiredSkills       []int64
	Tasks                []Task
	FirstResponseAt      *time.Time
	ResolvedAt           *time.Time
	ClosedAt             *time.Time
	ReopenedCount        int
	SatisfactionRating   *int
	Score                *float64
	Justification        *string
	Feedback             *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SLAViolatedAt reports whether the ticket breaches its SLA at the given
// instant. Derived on read: true once now passes ResolutionDue while the
// ticket is not in a settled state.
func (t *Ticket) SLAViolatedAt(now time.Time) bool {
	if t.ResolutionDue == nil || t.Status.Settled() {
		return false
	}
	return now.After(*t.ResolutionDue)
}

// MinutesSince returns whole minutes elapsed from the ticket creation.
func (t *Ticket) MinutesSince(now time.Time) int {
	d := now.Sub(t.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
