package dto

import (
	"time"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// TaskPayload is an embedded subtask.
type TaskPayload struct {
	Name        string `json:"name" validate:"required"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// TicketCreateRequest payload.
type TicketCreateRequest struct {
	Subject        string        `json:"subject" validate:"required,min=5,max=500"`
	Description    string        `json:"description" validate:"required"`
	Priority       string        `json:"priority,omitempty"`
	Impact         string        `json:"impact,omitempty"`
	Urgency        string        `json:"urgency,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	RequiredSkills []int64       `json:"required_skills,omitempty"`
	Tasks          []TaskPayload `json:"tasks,omitempty" validate:"dive"`
	Justification  *string       `json:"justification,omitempty"`
	ResolutionDue  *time.Time    `json:"resolution_due,omitempty"`
}

// TicketUpdateRequest payload. Absent fields are kept.
type TicketUpdateRequest struct {
	Subject        *string       `json:"subject,omitempty" validate:"omitempty,min=5,max=500"`
	Description    *string       `json:"description,omitempty"`
	Priority       *string       `json:"priority,omitempty"`
	Impact         *string       `json:"impact,omitempty"`
	Urgency        *string       `json:"urgency,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	RequiredSkills []int64       `json:"required_skills,omitempty"`
	Tasks          []TaskPayload `json:"tasks,omitempty" validate:"dive"`
	Justification  *string       `json:"justification,omitempty"`
	ResolutionDue  *time.Time    `json:"resolution_due,omitempty"`
}

// TicketAssignRequest payload.
type TicketAssignRequest struct {
	TechnicianID int64 `json:"technician_id" validate:"required"`
}

// TicketStatusRequest payload.
type TicketStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

// WorkLogRequest payload.
type WorkLogRequest struct {
	Note string `json:"note" validate:"required"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	SatisfactionRating *int     `json:"satisfaction_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Score              *float64 `json:"score,omitempty" validate:"omitempty,min=0,max=10"`
	Feedback           *string  `json:"feedback,omitempty"`
}

// TicketSummary is the list item shape.
type TicketSummary struct {
	ID                   int64                 `json:"id"`
	ExternalKey          string                `json:"external_key"`
	Subject              string                `json:"subject"`
	Status               domain.TicketStatus   `json:"status"`
	Priority             domain.TicketPriority `json:"priority"`
	Impact               domain.TicketImpact   `json:"impact"`
	Urgency              domain.TicketUrgency  `json:"urgency"`
	Tags                 []string              `json:"tags"`
	SLAViolated          bool                  `json:"sla_violated"`
	ResolutionDue        *time.Time            `json:"resolution_due,omitempty"`
	RequesterID          int64                 `json:"requester_id"`
	AssignedTechnicianID *int64                `json:"assigned_technician_id,omitempty"`
	ReopenedCount        int                   `json:"reopened_count"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// TicketDetail is the full ticket shape.
type TicketDetail struct {
	TicketSummary
	Description        string        `json:"description"`
	ResolutionDate     *time.Time    `json:"resolution_date,omitempty"`
	FirstResponseTime  *int          `json:"first_response_time,omitempty"`
	ResponseTime       *int          `json:"response_time,omitempty"`
	ResolutionTime     *int          `json:"resolution_time,omitempty"`
	EscalationCount    int           `json:"escalation_count"`
	RequiredSkills     []int64       `json:"required_skills"`
	Tasks              []domain.Task `json:"tasks"`
	FirstResponseAt    *time.Time    `json:"first_response_at,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	ClosedAt           *time.Time    `json:"closed_at,omitempty"`
	SatisfactionRating *int          `json:"satisfaction_rating,omitempty"`
	Score              *float64      `json:"score,omitempty"`
	Justification      *string       `json:"justification,omitempty"`
	Feedback           *string       `json:"feedback,omitempty"`
}

// WorkLogResponse is one work log entry.
type WorkLogResponse struct {
	ID        int64            `json:"id"`
	TicketID  int64            `json:"ticket_id"`
	ActorType domain.ActorType `json:"actor_type"`
	ActorID   *int64           `json:"actor_id,omitempty"`
	Note      string           `json:"note"`
	CreatedAt time.Time        `json:"created_at"`
}

// AuditEntryResponse is one audit trail record.
type AuditEntryResponse struct {
	ID         int64                  `json:"id"`
	TicketID   int64                  `json:"ticket_id"`
	ActorType  domain.ActorType       `json:"actor_type"`
	ActorID    *int64                 `json:"actor_id,omitempty"`
	ChangeType domain.AuditChangeType `json:"change_type"`
	OldValue   map[string]any         `json:"old_value,omitempty"`
	NewValue   map[string]any         `json:"new_value,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewTicketSummary maps the domain model.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketSummary{
		ID:                   ticket.ID,
		ExternalKey:          ticket.ExternalKey,
		Subject:              ticket.Subject,
		Status:               ticket.Status,
		Priority:             ticket.Priority,
		Impact:               ticket.Impact,
		Urgency:              ticket.Urgency,
		Tags:                 tags,
		SLAViolated:          ticket.SLAViolated,
		ResolutionDue:        ticket.ResolutionDue,
		RequesterID:          ticket.RequesterID,
		AssignedTechnicianID: ticket.AssignedTechnicianID,
		ReopenedCount:        ticket.ReopenedCount,
		CreatedAt:            ticket.CreatedAt,
		UpdatedAt:            ticket.UpdatedAt,
	}
}

// NewTicketDetail maps the domain model.
func NewTicketDetail(ticket *domain.Ticket) TicketDetail {
	skills := ticket.RequiredSkills
	if skills == nil {
		skills = []int64{}
	}
	tasks := ticket.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return TicketDetail{
		TicketSummary:      NewTicketSummary(ticket),
		Description:        ticket.Description,
		ResolutionDate:     ticket.ResolutionDate,
		FirstResponseTime:  ticket.FirstResponseTime,
		ResponseTime:       ticket.ResponseTime,
		ResolutionTime:     ticket.ResolutionTime,
		EscalationCount:    ticket.EscalationCount,
		RequiredSkills:     skills,
		Tasks:              tasks,
		FirstResponseAt:    ticket.FirstResponseAt,
		ResolvedAt:         ticket.ResolvedAt,
		ClosedAt:           ticket.ClosedAt,
		SatisfactionRating: ticket.SatisfactionRating,
		Score:              ticket.Score,
		Justification:      ticket.Justification,
		Feedback:           ticket.Feedback,
	}
}

// NewWorkLogResponse maps the domain model.
func NewWorkLogResponse(entry *domain.WorkLog) WorkLogResponse {
	return WorkLogResponse{
		ID:        entry.ID,
		TicketID:  entry.TicketID,
		ActorType: entry.ActorType,
		ActorID:   entry.ActorID,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
}

// NewAuditEntryResponse maps the domain model.
func NewAuditEntryResponse(entry *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		TicketID:   entry.TicketID,
		ActorType:  entry.ActorType,
		ActorID:    entry.ActorID,
		ChangeType: entry.ChangeType,
		OldValue:   entry.OldValue,
		NewValue:   entry.NewValue,
		CreatedAt:  entry.CreatedAt,
	}
}

// ToTasks converts payload tasks to domain values, defaulting status.
func ToTasks(payload []TaskPayload) []domain.Task {
	if payload == nil {
		return nil
	}
	tasks := make([]domain.Task, 0, len(payload))
	for _, p := range payload {
		status := domain.TaskStatus(p.Status)
		if status == "" {
			status = domain.TaskPending
		}
		tasks = append(tasks, domain.Task{Name: p.Name, Status: status, Description: p.Description})
	}
	return tasks
}
