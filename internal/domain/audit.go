package domain

import "time"

// ActorType identifies who performed a recorded action.
type ActorType string

const (
	ActorUser       ActorType = "user"
	ActorTechnician ActorType = "technician"
	ActorAdmin      ActorType = "admin"
	ActorSystem     ActorType = "system"
)

// AuditChangeType captures what changed in an audit entry.
type AuditChangeType string

const (
	ChangeTypeCreated    AuditChangeType = "created"
	ChangeTypeStatus     AuditChangeType = "status_change"
	ChangeTypeAssignment AuditChangeType = "assignment"
	ChangeTypeFields     AuditChangeType = "fields_update"
	ChangeTypeEscalation AuditChangeType = "escalation"
	ChangeTypeFeedback   AuditChangeType = "feedback"
)

// AuditEntry is one immutable record in a ticket's audit trail. Entries are
// append-only; nothing in the repository layer updates or deletes them.
type AuditEntry struct {
	ID         int64
	TicketID   int64
	ActorType  ActorType
	ActorID    *int64
	ChangeType AuditChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
