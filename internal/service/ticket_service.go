package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/events"
	"github.com/resolvedesk/itsm-service/internal/repository"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

// TicketService owns the ticket lifecycle: creation, assignment, status
// transitions, SLA bookkeeping, work logs, audit and feedback.
type TicketService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	users       repository.UserRepository
	skills      repository.SkillRepository
	workLogs    repository.WorkLogRepository
	audit       repository.AuditRepository
	uow         repository.UnitOfWork
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// TicketDependencies bundles constructor inputs.
type TicketDependencies struct {
	Tickets     repository.TicketRepository
	Technicians repository.TechnicianRepository
	Users       repository.UserRepository
	Skills      repository.SkillRepository
	WorkLogs    repository.WorkLogRepository
	Audit       repository.AuditRepository
	UnitOfWork  repository.UnitOfWork
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// NewTicketService builds the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &TicketService{
		tickets:     deps.Tickets,
		technicians: deps.Technicians,
		users:       deps.Users,
		skills:      deps.Skills,
		workLogs:    deps.WorkLogs,
		audit:       deps.Audit,
		uow:         deps.UnitOfWork,
		dispatcher:  deps.Dispatcher,
		now:         now,
	}
}

// TicketCreateInput carries fields for opening a ticket.
type TicketCreateInput struct {
	Subject        string
	Description    string
	Priority       domain.TicketPriority
	Impact         domain.TicketImpact
	Urgency        domain.TicketUrgency
	Tags           []string
	RequiredSkills []int64
	Tasks          []domain.Task
	Justification  *string
	ResolutionDue  *time.Time
	RequesterID    int64
}

// TicketUpdateInput carries editable fields. Nil means keep.
type TicketUpdateInput struct {
	Subject        *string
	Description    *string
	Priority       *domain.TicketPriority
	Impact         *domain.TicketImpact
	Urgency        *domain.TicketUrgency
	Tags           []string
	RequiredSkills []int64
	Tasks          []domain.Task
	Justification  *string
	ResolutionDue  *time.Time
}

// FeedbackInput carries requester feedback for a settled ticket.
type FeedbackInput struct {
	SatisfactionRating *int
	Score              *float64
	Feedback           *string
}

// Create opens a new ticket in status new. When no resolution due date is
// supplied it is derived from the priority's SLA window.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput, actor events.Actor) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if len(subject) < 5 || len(subject) > 500 {
		return nil, apperrors.NewValidationError("subject must be between 5 and 500 characters", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}

	requester, err := s.users.GetByID(ctx, input.RequesterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": input.RequesterID})
		}
		return nil, apperrors.MapError(err)
	}
	if !requester.Status {
		return nil, apperrors.NewConflict("requester account is deactivated", map[string]any{"user_id": requester.ID})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}
	impact := input.Impact
	if impact == "" {
		impact = domain.ImpactMedium
	}
	if !impact.Valid() {
		return nil, apperrors.NewValidationError("invalid impact", map[string]any{"impact": impact})
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.UrgencyNormal
	}
	if !urgency.Valid() {
		return nil, apperrors.NewValidationError("invalid urgency", map[string]any{"urgency": urgency})
	}
	if err := s.validateRequiredSkills(ctx, input.RequiredSkills); err != nil {
		return nil, err
	}
	for _, task := range input.Tasks {
		if strings.TrimSpace(task.Name) == "" {
			return nil, apperrors.NewValidationError("task name is required", nil)
		}
	}

	now := s.now()
	due := input.ResolutionDue
	if due == nil {
		derived := now.Add(time.Duration(priority.SLAHours()) * time.Hour)
		due = &derived
	} else if due.Before(now) {
		return nil, apperrors.NewValidationError("resolution due date is in the past", nil)
	}

	ticket := &domain.Ticket{
		ExternalKey:    newExternalKey(),
		Subject:        subject,
		Description:    input.Description,
		Status:         domain.TicketStatusNew,
		Tags:           input.Tags,
		Priority:       priority,
		Impact:         impact,
		Urgency:        urgency,
		ResolutionDue:  due,
		RequesterID:    requester.ID,
		RequiredSkills: input.RequiredSkills,
		Tasks:          input.Tasks,
		Justification:  input.Justification,
	}

	err = s.uow.Do(ctx, func(repos repository.TxRepos) error {
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, &domain.AuditEntry{
			TicketID:   ticket.ID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			ChangeType: domain.ChangeTypeCreated,
			NewValue: map[string]any{
				"external_key": ticket.ExternalKey,
				"subject":      ticket.Subject,
				"status":       ticket.Status,
				"priority":     ticket.Priority,
			},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket.ID, actor, events.TicketCreatedPayload{
		ExternalKey: ticket.ExternalKey,
		Subject:     ticket.Subject,
		Priority:    ticket.Priority,
		Impact:      ticket.Impact,
		Urgency:     ticket.Urgency,
		RequesterID: ticket.RequesterID,
	})
	return ticket, nil
}

// Get loads one ticket.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// GetByExternalKey loads one ticket by its public key.
func (s *TicketService) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByExternalKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"external_key": key})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// List returns tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Assign routes the ticket to a technician, either claiming an unassigned
// ticket or handing an open one over to someone else. Exactly one caller
// wins a concurrent race; repeating an assignment that is already in effect
// is a no-op returning current state.
func (s *TicketService) Assign(ctx context.Context, ticketID, technicianID int64, actor events.Actor) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AssignedTechnicianID != nil && *ticket.AssignedTechnicianID == technicianID {
		return ticket, nil
	}
	if ticket.Status.Terminal() {
		return nil, apperrors.NewConflict("ticket is in a terminal state", map[string]any{
			"ticket_id": ticketID,
			"status":    ticket.Status,
		})
	}

	tech, err := s.technicians.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
		}
		return nil, apperrors.MapError(err)
	}
	if !tech.IsActive {
		return nil, apperrors.NewConflict("technician is deactivated", map[string]any{"technician_id": technicianID})
	}

	// The outgoing technician loses an open ticket, so their workload
	// needs recomputing alongside the new assignee's.
	previousID := ticket.AssignedTechnicianID
	var previous *domain.Technician
	if previousID != nil {
		previous, err = s.technicians.GetByID(ctx, *previousID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}

	var (
		assigned *domain.Ticket
		workload int
	)
	err = s.uow.Do(ctx, func(repos repository.TxRepos) error {
		claimed, err := repos.Tickets.ClaimForAssignment(ctx, ticketID, technicianID, previousID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewConflict("ticket assignment changed concurrently", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		assigned = claimed

		if _, err := repos.Technicians.RecordAssignment(ctx, technicianID, ticketID); err != nil {
			return err
		}
		load, err := repos.Technicians.RecomputeWorkload(ctx, technicianID, tech.SkillLevel.TicketCapacity())
		if err != nil {
			return err
		}
		workload = load
		if previous != nil {
			if _, err := repos.Technicians.RecomputeWorkload(ctx, previous.ID, previous.SkillLevel.TicketCapacity()); err != nil {
				return err
			}
		}

		oldValue := map[string]any{"status": ticket.Status}
		if previousID != nil {
			oldValue["assigned_technician_id"] = *previousID
		} else {
			oldValue["assigned_technician_id"] = nil
		}
		return repos.Audit.Create(ctx, &domain.AuditEntry{
			TicketID:   ticketID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			ChangeType: domain.ChangeTypeAssignment,
			OldValue:   oldValue,
			NewValue:   map[string]any{"status": assigned.Status, "assigned_technician_id": technicianID},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketAssigned, ticketID, actor, events.TicketAssignedPayload{
		TechnicianID: technicianID,
		Workload:     workload,
	})
	return assigned, nil
}

// ChangeStatus moves the ticket through its state machine, maintaining SLA
// timestamps and the reopen counter.
func (s *TicketService) ChangeStatus(ctx context.Context, ticketID int64, next domain.TicketStatus, comment string, actor events.Actor) (*domain.Ticket, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": next})
	}
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	current := ticket.Status
	if current == next {
		return ticket, nil
	}
	if !current.CanTransitionTo(next) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("cannot transition ticket from %s to %s", current, next),
			map[string]any{"from": current, "to": next},
		)
	}
	if (next == domain.TicketStatusAssigned || next == domain.TicketStatusInProgress) && ticket.AssignedTechnicianID == nil {
		return nil, apperrors.NewValidationError("ticket has no assigned technician", map[string]any{"ticket_id": ticketID})
	}

	now := s.now()
	// Violation is judged against the state the ticket is leaving, so a
	// late resolve still records the breach.
	if ticket.SLAViolatedAt(now) {
		ticket.SLAViolated = true
	}

	reopened := domain.IsReopen(current, next)
	if reopened {
		ticket.ReopenedCount++
	}
	ticket.Status = next

	switch next {
	case domain.TicketStatusResolved:
		ticket.ResolvedAt = &now
		if ticket.ResolutionDate == nil {
			ticket.ResolutionDate = &now
		}
		minutes := ticket.MinutesSince(now)
		ticket.ResolutionTime = &minutes
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
	}

	// Settling drops the assignee's open-ticket count, reopening raises it;
	// both change workload and recompute inside the same transaction.
	var techToRecompute *domain.Technician
	if (next.Settled() || reopened) && ticket.AssignedTechnicianID != nil {
		tech, err := s.technicians.GetByID(ctx, *ticket.AssignedTechnicianID)
		switch {
		case err == nil:
			techToRecompute = tech
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.MapError(err)
		}
	}

	err = s.uow.Do(ctx, func(repos repository.TxRepos) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		if techToRecompute != nil {
			if _, err := repos.Technicians.RecomputeWorkload(ctx, techToRecompute.ID, techToRecompute.SkillLevel.TicketCapacity()); err != nil {
				return err
			}
		}
		newValue := map[string]any{"status": next}
		if reopened {
			newValue["reopened_count"] = ticket.ReopenedCount
		}
		if comment != "" {
			newValue["comment"] = comment
		}
		return repos.Audit.Create(ctx, &domain.AuditEntry{
			TicketID:   ticketID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			ChangeType: domain.ChangeTypeStatus,
			OldValue:   map[string]any{"status": current},
			NewValue:   newValue,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketStatusChanged, ticketID, actor, events.TicketStatusChangedPayload{
		OldStatus: current,
		NewStatus: next,
		Reopened:  reopened,
		Comment:   comment,
	})
	return ticket, nil
}

// CheckSLAViolation reports whether the ticket currently breaches its SLA.
// A breach observed on an unsettled ticket is persisted so the flag stays
// sticky across later transitions.
func (s *TicketService) CheckSLAViolation(ctx context.Context, ticketID int64) (bool, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return false, err
	}
	violated := ticket.SLAViolatedAt(s.now())
	if violated && !ticket.SLAViolated {
		// Best effort: the read answer is authoritative either way.
		_ = s.tickets.MarkSLAViolated(ctx, ticketID)
	}
	return violated || ticket.SLAViolated, nil
}

// AddWorkLog appends a work note to an open ticket.
func (s *TicketService) AddWorkLog(ctx context.Context, ticketID int64, note string, actor events.Actor) (*domain.WorkLog, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperrors.NewValidationError("note is required", nil)
	}
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.Terminal() {
		return nil, apperrors.NewConflict("ticket is in a terminal state", map[string]any{
			"ticket_id": ticketID,
			"status":    ticket.Status,
		})
	}

	entry := &domain.WorkLog{
		TicketID:  ticketID,
		ActorType: actor.Type,
		ActorID:   actor.ID,
		Note:      note,
	}
	if err := s.workLogs.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketWorkLogged, ticketID, actor, events.TicketWorkLoggedPayload{
		WorkLogID:   entry.ID,
		NotePreview: notePreview(note),
	})
	return entry, nil
}

// Update edits descriptive fields of a non-terminal ticket.
func (s *TicketService) Update(ctx context.Context, ticketID int64, input TicketUpdateInput, actor events.Actor) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.Terminal() {
		return nil, apperrors.NewConflict("ticket is in a terminal state", map[string]any{
			"ticket_id": ticketID,
			"status":    ticket.Status,
		})
	}

	oldValue := map[string]any{}
	newValue := map[string]any{}

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if len(subject) < 5 || len(subject) > 500 {
			return nil, apperrors.NewValidationError("subject must be between 5 and 500 characters", nil)
		}
		oldValue["subject"] = ticket.Subject
		newValue["subject"] = subject
		ticket.Subject = subject
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, apperrors.NewValidationError("description is required", nil)
		}
		ticket.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		oldValue["priority"] = ticket.Priority
		newValue["priority"] = *input.Priority
		ticket.Priority = *input.Priority
	}
	if input.Impact != nil {
		if !input.Impact.Valid() {
			return nil, apperrors.NewValidationError("invalid impact", map[string]any{"impact": *input.Impact})
		}
		ticket.Impact = *input.Impact
	}
	if input.Urgency != nil {
		if !input.Urgency.Valid() {
			return nil, apperrors.NewValidationError("invalid urgency", map[string]any{"urgency": *input.Urgency})
		}
		ticket.Urgency = *input.Urgency
	}
	if input.Tags != nil {
		ticket.Tags = input.Tags
	}
	if input.RequiredSkills != nil {
		if err := s.validateRequiredSkills(ctx, input.RequiredSkills); err != nil {
			return nil, err
		}
		ticket.RequiredSkills = input.RequiredSkills
	}
	if input.Tasks != nil {
		for _, task := range input.Tasks {
			if strings.TrimSpace(task.Name) == "" {
				return nil, apperrors.NewValidationError("task name is required", nil)
			}
		}
		ticket.Tasks = input.Tasks
	}
	if input.Justification != nil {
		ticket.Justification = input.Justification
	}
	if input.ResolutionDue != nil {
		oldValue["resolution_due"] = ticket.ResolutionDue
		newValue["resolution_due"] = *input.ResolutionDue
		ticket.ResolutionDue = input.ResolutionDue
	}

	if ticket.SLAViolatedAt(s.now()) {
		ticket.SLAViolated = true
	}

	err = s.uow.Do(ctx, func(repos repository.TxRepos) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, &domain.AuditEntry{
			TicketID:   ticketID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			ChangeType: domain.ChangeTypeFields,
			OldValue:   oldValue,
			NewValue:   newValue,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Escalate bumps the escalation counter and, when possible, the priority.
func (s *TicketService) Escalate(ctx context.Context, ticketID int64, actor events.Actor) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.Settled() {
		return nil, apperrors.NewConflict("ticket is already settled", map[string]any{
			"ticket_id": ticketID,
			"status":    ticket.Status,
		})
	}

	oldPriority := ticket.Priority
	ticket.EscalationCount++
	ticket.Priority = escalatedPriority(ticket.Priority)

	err = s.uow.Do(ctx, func(repos repository.TxRepos) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, &domain.AuditEntry{
			TicketID:   ticketID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			ChangeType: domain.ChangeTypeEscalation,
			OldValue:   map[string]any{"priority": oldPriority, "escalation_count": ticket.EscalationCount - 1},
			NewValue:   map[string]any{"priority": ticket.Priority, "escalation_count": ticket.EscalationCount},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// SubmitFeedback records requester feedback on a settled ticket.
func (s *TicketService) SubmitFeedback(ctx context.Context, ticketID int64, input FeedbackInput, actor events.Actor) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.Settled() {
		return nil, apperrors.NewConflict("feedback is accepted only on settled tickets", map[string]any{
			"ticket_id": ticketID,
			"status":    ticket.Status,
		})
	}
	if input.SatisfactionRating != nil && (*input.SatisfactionRating < 1 || *input.SatisfactionRating > 5) {
		return nil, apperrors.NewValidationError("satisfaction rating must be between 1 and 5", nil)
	}
	if input.Score != nil && (*input.Score < 0 || *input.Score > 10) {
		return nil, apperrors.NewValidationError("score must be between 0 and 10", nil)
	}
	if input.SatisfactionRating == nil && input.Score == nil && input.Feedback == nil {
		return nil, apperrors.NewValidationError("feedback payload is empty", nil)
	}

	if input.SatisfactionRating != nil {
		ticket.SatisfactionRating = input.SatisfactionRating
	}
	if input.Score != nil {
		ticket.Score = input.Score
	}
	if input.Feedback != nil {
		ticket.Feedback = input.Feedback
	}

	err = s.uow.Do(ctx, func(repos repository.TxRepos) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return repos.Audit.Create(ctx, &domain.AuditEntry{
			TicketID:   ticketID,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
			ChangeType: domain.ChangeTypeFeedback,
			NewValue: map[string]any{
				"satisfaction_rating": ticket.SatisfactionRating,
				"score":               ticket.Score,
			},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketFeedbackReceived, ticketID, actor, events.TicketFeedbackPayload{
		SatisfactionRating: ticket.SatisfactionRating,
		Score:              ticket.Score,
	})
	return ticket, nil
}

// ListWorkLogs returns the full work log trail, oldest first.
func (s *TicketService) ListWorkLogs(ctx context.Context, ticketID int64) ([]domain.WorkLog, error) {
	if _, err := s.Get(ctx, ticketID); err != nil {
		return nil, err
	}
	logs, err := s.workLogs.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return logs, nil
}

// ListAudit returns the audit trail, oldest first.
func (s *TicketService) ListAudit(ctx context.Context, ticketID int64, limit, offset int) ([]domain.AuditEntry, error) {
	if _, err := s.Get(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TicketService) validateRequiredSkills(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate required skill %d", id), nil)
		}
		seen[id] = true
	}
	existing, err := s.skills.ExistingIDs(ctx, ids)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, id := range ids {
		if !existing[id] {
			return apperrors.NewValidationError(fmt.Sprintf("unknown or inactive skill %d", id), nil)
		}
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID int64, actor events.Actor, payload any) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func escalatedPriority(p domain.TicketPriority) domain.TicketPriority {
	switch p {
	case domain.TicketPriorityLow:
		return domain.TicketPriorityNormal
	case domain.TicketPriorityNormal:
		return domain.TicketPriorityHigh
	case domain.TicketPriorityHigh:
		return domain.TicketPriorityCritical
	default:
		return p
	}
}

// notePreview truncates on a rune boundary so multibyte notes never emit
// invalid UTF-8 into event payloads.
func notePreview(note string) string {
	const max = 120
	if len(note) <= max {
		return note
	}
	runes := []rune(note)
	if len(runes) <= max {
		return note
	}
	return string(runes[:max])
}

func newExternalKey() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
