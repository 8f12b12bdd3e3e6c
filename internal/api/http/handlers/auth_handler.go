package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvedesk/itsm-service/internal/api/dto"
	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/service"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

// AuthHandler exposes registration, login and credential management.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		ContactNo:  req.ContactNo,
		Role:       domain.UserRole(req.Role),
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Profile handles GET /auth/profile/:id.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if principal.User.ID != id && principal.User.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("cannot read another user's profile")
	}

	user, err := h.auth.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, dto.NewUserResponse(user))
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "password changed")
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	// The response never reveals whether the address exists.
	if _, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil && !apperrors.IsCode(err, "NOT_FOUND") {
		return err
	}
	return successMessage(c, http.StatusOK, "reset token issued if the account exists")
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return successMessage(c, http.StatusOK, "password reset")
}
