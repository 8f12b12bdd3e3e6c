package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvedesk/itsm-service/internal/api/dto"
	"github.com/resolvedesk/itsm-service/internal/auth"
	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/repository"
	"github.com/resolvedesk/itsm-service/internal/service"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /tickets. The requester is the authenticated caller.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.TicketCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.UserContext(), service.TicketCreateInput{
		Subject:        req.Subject,
		Description:    req.Description,
		Priority:       domain.TicketPriority(req.Priority),
		Impact:         domain.TicketImpact(req.Impact),
		Urgency:        domain.TicketUrgency(req.Urgency),
		Tags:           req.Tags,
		RequiredSkills: req.RequiredSkills,
		Tasks:          dto.ToTasks(req.Tasks),
		Justification:  req.Justification,
		ResolutionDue:  req.ResolutionDue,
		RequesterID:    principal.User.ID,
	}, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, dto.NewTicketDetail(ticket))
}

// List handles GET /tickets. Regular users only ever see their own tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	if principal.User.Role == domain.RoleUser {
		id := principal.User.ID
		filter.RequesterID = &id
	}

	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, ticketSummaries(tickets))
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := canReadTicket(principal, ticket); err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTicketDetail(ticket))
}

// Update handles PUT /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TicketUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	input := service.TicketUpdateInput{
		Subject:        req.Subject,
		Description:    req.Description,
		Tags:           req.Tags,
		RequiredSkills: req.RequiredSkills,
		Tasks:          dto.ToTasks(req.Tasks),
		Justification:  req.Justification,
		ResolutionDue:  req.ResolutionDue,
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Impact != nil {
		impact := domain.TicketImpact(*req.Impact)
		input.Impact = &impact
	}
	if req.Urgency != nil {
		urgency := domain.TicketUrgency(*req.Urgency)
		input.Urgency = &urgency
	}

	ticket, err := h.tickets.Update(c.UserContext(), id, input, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTicketDetail(ticket))
}

// Assign handles POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TicketAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.Assign(c.UserContext(), id, req.TechnicianID, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTicketDetail(ticket))
}

// ChangeStatus handles POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.ChangeStatus(c.UserContext(), id, domain.TicketStatus(req.Status), req.Comment, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTicketDetail(ticket))
}

// CheckSLA handles GET /tickets/:id/sla.
func (h *TicketsHandler) CheckSLA(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	violated, err := h.tickets.CheckSLAViolation(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"ticket_id": id, "sla_violated": violated})
}

// AddWorkLog handles POST /tickets/:id/worklogs.
func (h *TicketsHandler) AddWorkLog(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.WorkLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	entry, err := h.tickets.AddWorkLog(c.UserContext(), id, req.Note, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, dto.NewWorkLogResponse(entry))
}

// ListWorkLogs handles GET /tickets/:id/worklogs.
func (h *TicketsHandler) ListWorkLogs(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	logs, err := h.tickets.ListWorkLogs(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.WorkLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, dto.NewWorkLogResponse(&logs[i]))
	}
	return success(c, http.StatusOK, items)
}

// ListAudit handles GET /tickets/:id/audit.
func (h *TicketsHandler) ListAudit(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	entries, err := h.tickets.ListAudit(c.UserContext(), id, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewAuditEntryResponse(&entries[i]))
	}
	return success(c, http.StatusOK, items)
}

// Escalate handles POST /tickets/:id/escalate.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Escalate(c.UserContext(), id, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTicketDetail(ticket))
}

// SubmitFeedback handles POST /tickets/:id/feedback. Only the requester
// may rate their own ticket.
func (h *TicketsHandler) SubmitFeedback(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	existing, err := h.tickets.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if principal.User.Role != domain.RoleAdmin && existing.RequesterID != principal.User.ID {
		return apperrors.NewForbidden("only the requester can submit feedback")
	}

	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.SubmitFeedback(c.UserContext(), id, service.FeedbackInput{
		SatisfactionRating: req.SatisfactionRating,
		Score:              req.Score,
		Feedback:           req.Feedback,
	}, actorFor(principal))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTicketDetail(ticket))
}

// ListByUser handles GET /tickets/user/:userID.
func (h *TicketsHandler) ListByUser(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	userID, err := idParam(c, "userID")
	if err != nil {
		return err
	}
	if principal.User.Role == domain.RoleUser && principal.User.ID != userID {
		return apperrors.NewForbidden("cannot read another user's tickets")
	}

	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	filter.RequesterID = &userID

	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, ticketSummaries(tickets))
}

// ListByTechnician handles GET /tickets/technician/:technicianID.
func (h *TicketsHandler) ListByTechnician(c *fiber.Ctx) error {
	technicianID, err := idParam(c, "technicianID")
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	filter.TechnicianID = &technicianID

	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, ticketSummaries(tickets))
}

func canReadTicket(principal *auth.Principal, ticket *domain.Ticket) error {
	if principal.User.Role != domain.RoleUser {
		return nil
	}
	if ticket.RequesterID != principal.User.ID {
		return apperrors.NewForbidden("cannot read another user's ticket")
	}
	return nil
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return items
}

func parseTicketFilter(c *fiber.Ctx) (repository.TicketFilter, error) {
	limit, offset := pagination(c)
	filter := repository.TicketFilter{
		RequesterID:  queryInt64(c, "requester_id"),
		TechnicianID: queryInt64(c, "technician_id"),
		SLAViolated:  queryBool(c, "sla_violated"),
		SearchTerm:   queryString(c, "search"),
		Limit:        limit,
		Offset:       offset,
	}

	for _, raw := range csvValues(c, "status") {
		status := domain.TicketStatus(raw)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, raw := range csvValues(c, "priority") {
		priority := domain.TicketPriority(raw)
		if !priority.Valid() {
			return filter, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": raw})
		}
		filter.Priorities = append(filter.Priorities, priority)
	}
	for _, raw := range csvValues(c, "impact") {
		impact := domain.TicketImpact(raw)
		if !impact.Valid() {
			return filter, apperrors.NewValidationError("invalid impact filter", map[string]any{"impact": raw})
		}
		filter.Impacts = append(filter.Impacts, impact)
	}
	for _, raw := range csvValues(c, "urgency") {
		urgency := domain.TicketUrgency(raw)
		if !urgency.Valid() {
			return filter, apperrors.NewValidationError("invalid urgency filter", map[string]any{"urgency": raw})
		}
		filter.Urgencies = append(filter.Urgencies, urgency)
	}

	ranges := []struct {
		name   string
		target **time.Time
	}{
		{"created_from", &filter.CreatedFrom},
		{"created_to", &filter.CreatedTo},
		{"updated_from", &filter.UpdatedFrom},
		{"updated_to", &filter.UpdatedTo},
		{"resolution_due_from", &filter.ResolutionDueFrom},
		{"resolution_due_to", &filter.ResolutionDueTo},
	}
	for _, r := range ranges {
		raw := c.Query(r.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid "+r.name, map[string]any{r.name: raw})
		}
		*r.target = &parsed
	}

	if skillID := queryInt64(c, "required_skill"); skillID != nil {
		filter.RequiredSkills = []int64{*skillID}
	}
	return filter, nil
}
