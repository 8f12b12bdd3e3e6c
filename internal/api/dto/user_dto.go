package dto

import (
	"time"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=255"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6,max=255"`
	ContactNo  *string `json:"contact_no,omitempty" validate:"omitempty,min=10,max=20"`
	Role       string  `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=255"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm payload.
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=255"`
}

// UserUpdateRequest payload. Absent fields are kept.
type UserUpdateRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	ContactNo  *string `json:"contact_no,omitempty" validate:"omitempty,min=10,max=20"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public account shape. The password hash never leaves
// the service layer.
type UserResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	ContactNo  *string         `json:"contact_no,omitempty"`
	Status     bool            `json:"status"`
	Role       domain.UserRole `json:"role"`
	Department *string         `json:"department,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewUserResponse maps the domain model.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		ContactNo:  user.ContactNo,
		Status:     user.Status,
		Role:       user.Role,
		Department: user.Department,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
