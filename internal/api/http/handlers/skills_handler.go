package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvedesk/itsm-service/internal/api/dto"
	"github.com/resolvedesk/itsm-service/internal/repository"
	"github.com/resolvedesk/itsm-service/internal/service"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

// SkillsHandler exposes the skill catalog.
type SkillsHandler struct {
	skills *service.SkillService
}

// NewSkillsHandler constructs handler.
func NewSkillsHandler(skillService *service.SkillService) *SkillsHandler {
	return &SkillsHandler{skills: skillService}
}

// Create handles POST /skills.
func (h *SkillsHandler) Create(c *fiber.Ctx) error {
	var req dto.SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}
	skill, err := h.skills.Create(c.UserContext(), service.SkillInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, dto.NewSkillResponse(skill))
}

// List handles GET /skills.
func (h *SkillsHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	skills, err := h.skills.List(c.UserContext(), repository.SkillFilter{
		IsActive: queryBool(c, "is_active"),
		Search:   queryString(c, "search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	items := make([]dto.SkillResponse, 0, len(skills))
	for i := range skills {
		items = append(items, dto.NewSkillResponse(&skills[i]))
	}
	return success(c, http.StatusOK, items)
}

// Get handles GET /skills/:id.
func (h *SkillsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	skill, err := h.skills.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewSkillResponse(skill))
}

// Update handles PUT /skills/:id.
func (h *SkillsHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}
	skill, err := h.skills.Update(c.UserContext(), id, service.SkillInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewSkillResponse(skill))
}

// Deactivate handles DELETE /skills/:id.
func (h *SkillsHandler) Deactivate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.skills.Deactivate(c.UserContext(), id); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "skill deactivated")
}

// Reactivate handles PATCH /skills/:id/reactivate.
func (h *SkillsHandler) Reactivate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.skills.Reactivate(c.UserContext(), id); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "skill reactivated")
}
