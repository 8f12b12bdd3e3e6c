package events

import (
	"time"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated                EventType = "ticket_created"
	EventTicketAssigned               EventType = "ticket_assigned"
	EventTicketStatusChanged          EventType = "ticket_status_changed"
	EventTicketWorkLogged             EventType = "ticket_work_logged"
	EventTicketFeedbackReceived       EventType = "ticket_feedback_received"
	EventTechnicianAvailabilityChange EventType = "technician_availability_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.ActorType `json:"type"`
	ID   *int64           `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ExternalKey string                `json:"external_key"`
	Subject     string                `json:"subject"`
	Priority    domain.TicketPriority `json:"priority"`
	Impact      domain.TicketImpact   `json:"impact"`
	Urgency     domain.TicketUrgency  `json:"urgency"`
	RequesterID int64                 `json:"requester_id"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID int64 `json:"technician_id"`
	Workload     int   `json:"workload"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Reopened  bool                `json:"reopened,omitempty"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketWorkLoggedPayload payload.
type TicketWorkLoggedPayload struct {
	WorkLogID   int64  `json:"work_log_id"`
	NotePreview string `json:"note_preview"`
}

// TicketFeedbackPayload payload.
type TicketFeedbackPayload struct {
	SatisfactionRating *int     `json:"satisfaction_rating,omitempty"`
	Score              *float64 `json:"score,omitempty"`
}

// TechnicianAvailabilityPayload payload.
type TechnicianAvailabilityPayload struct {
	TechnicianID int64                     `json:"technician_id"`
	OldStatus    domain.AvailabilityStatus `json:"old_status"`
	NewStatus    domain.AvailabilityStatus `json:"new_status"`
}
