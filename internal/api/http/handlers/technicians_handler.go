package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvedesk/itsm-service/internal/api/dto"
	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/repository"
	"github.com/resolvedesk/itsm-service/internal/service"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

// TechniciansHandler exposes the technician directory.
type TechniciansHandler struct {
	technicians *service.TechnicianService
	analytics   *service.AnalyticsService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicianService *service.TechnicianService, analyticsService *service.AnalyticsService) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicianService, analytics: analyticsService}
}

// Create handles POST /technicians.
func (h *TechniciansHandler) Create(c *fiber.Ctx) error {
	var req dto.TechnicianCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	tech, err := h.technicians.Create(c.UserContext(), service.TechnicianCreateInput{
		UserID:         req.UserID,
		SkillLevel:     domain.SkillLevel(req.SkillLevel),
		Specialization: req.Specialization,
		Skills:         dto.ToSkillRatings(req.Skills),
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, dto.NewTechnicianResponse(tech))
}

// List handles GET /technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.TechnicianFilter{
		IsActive:    queryBool(c, "is_active"),
		WorkloadMin: queryInt(c, "workload_min"),
		WorkloadMax: queryInt(c, "workload_max"),
		Limit:       limit,
		Offset:      offset,
	}
	if status := queryString(c, "availability_status"); status != nil {
		parsed := domain.AvailabilityStatus(*status)
		if !parsed.Valid() {
			return apperrors.NewValidationError("invalid availability status filter", map[string]any{"availability_status": *status})
		}
		filter.AvailabilityStatus = &parsed
	}
	if level := queryString(c, "skill_level"); level != nil {
		parsed := domain.SkillLevel(*level)
		if !parsed.Valid() {
			return apperrors.NewValidationError("invalid skill level filter", map[string]any{"skill_level": *level})
		}
		filter.SkillLevel = &parsed
	}
	if skillID := queryInt64(c, "skill_id"); skillID != nil {
		filter.SkillIDs = []int64{*skillID}
	}

	techs, err := h.technicians.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(techs))
	for i := range techs {
		items = append(items, dto.NewTechnicianResponse(&techs[i]))
	}
	return success(c, http.StatusOK, items)
}

// Get handles GET /technicians/:id.
func (h *TechniciansHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	tech, err := h.technicians.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTechnicianResponse(tech))
}

// Update handles PUT /technicians/:id.
func (h *TechniciansHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TechnicianUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TechnicianUpdateInput{Specialization: req.Specialization}
	if req.SkillLevel != nil {
		level := domain.SkillLevel(*req.SkillLevel)
		input.SkillLevel = &level
	}

	tech, err := h.technicians.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTechnicianResponse(tech))
}

// UpdateSkills handles PUT /technicians/:id/skills.
func (h *TechniciansHandler) UpdateSkills(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TechnicianSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	tech, err := h.technicians.UpdateSkills(c.UserContext(), id, dto.ToSkillRatings(req.Skills))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTechnicianResponse(tech))
}

// SetAvailability handles PUT /technicians/:id/availability. Technicians
// may only change their own presence; admins may change anyone's.
func (h *TechniciansHandler) SetAvailability(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if principal.User.Role != domain.RoleAdmin {
		if principal.Technician == nil || principal.Technician.ID != id {
			return apperrors.NewForbidden("cannot change another technician's availability")
		}
	}

	var req dto.TechnicianAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	tech, err := h.technicians.SetAvailability(c.UserContext(), id, domain.AvailabilityStatus(req.AvailabilityStatus))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewTechnicianResponse(tech))
}

// Deactivate handles DELETE /technicians/:id.
func (h *TechniciansHandler) Deactivate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.technicians.Deactivate(c.UserContext(), id); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "technician deactivated")
}

// Reactivate handles PATCH /technicians/:id/reactivate.
func (h *TechniciansHandler) Reactivate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.technicians.Reactivate(c.UserContext(), id); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "technician reactivated")
}

// Performance handles GET /technicians/performance.
func (h *TechniciansHandler) Performance(c *fiber.Ctx) error {
	report, err := h.analytics.TechnicianPerformance(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, report)
}
