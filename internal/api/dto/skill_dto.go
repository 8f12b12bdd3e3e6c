package dto

import (
	"time"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// SkillRequest payload for create and update.
type SkillRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description *string `json:"description,omitempty"`
}

// SkillResponse is the catalog entry shape.
type SkillResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSkillResponse maps the domain model.
func NewSkillResponse(skill *domain.Skill) SkillResponse {
	return SkillResponse{
		ID:          skill.ID,
		Name:        skill.Name,
		Description: skill.Description,
		IsActive:    skill.IsActive,
		CreatedAt:   skill.CreatedAt,
		UpdatedAt:   skill.UpdatedAt,
	}
}
