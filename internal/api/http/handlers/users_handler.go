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

// UsersHandler exposes the admin-gated user directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.UserFilter{
		Department: queryString(c, "department"),
		Search:     queryString(c, "search"),
		Status:     queryBool(c, "status"),
		Limit:      limit,
		Offset:     offset,
	}
	if role := queryString(c, "role"); role != nil {
		parsed := domain.UserRole(*role)
		if !parsed.Valid() {
			return apperrors.NewValidationError("invalid role filter", map[string]any{"role": *role})
		}
		filter.Role = &parsed
	}

	users, err := h.users.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return success(c, http.StatusOK, items)
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewUserResponse(user))
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	input := service.UserUpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		ContactNo:  req.ContactNo,
		Department: req.Department,
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.users.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewUserResponse(user))
}

// Deactivate handles DELETE /users/:id.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Deactivate(c.UserContext(), id); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "user deactivated")
}

// Reactivate handles PATCH /users/:id/reactivate.
func (h *UsersHandler) Reactivate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Reactivate(c.UserContext(), id); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "user reactivated")
}
