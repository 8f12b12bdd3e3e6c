package dto

import (
	"time"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// SkillRatingPayload is one skill/proficiency pair.
type SkillRatingPayload struct {
	SkillID    int64 `json:"skill_id" validate:"required"`
	Percentage int   `json:"percentage" validate:"min=0,max=100"`
}

// TechnicianCreateRequest payload.
type TechnicianCreateRequest struct {
	UserID         int64                `json:"user_id" validate:"required"`
	SkillLevel     string               `json:"skill_level,omitempty"`
	Specialization *string              `json:"specialization,omitempty"`
	Skills         []SkillRatingPayload `json:"skills,omitempty" validate:"dive"`
}

// TechnicianUpdateRequest payload. Absent fields are kept.
type TechnicianUpdateRequest struct {
	SkillLevel     *string `json:"skill_level,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// TechnicianSkillsRequest replaces the skill rating set.
type TechnicianSkillsRequest struct {
	Skills []SkillRatingPayload `json:"skills" validate:"required,dive"`
}

// TechnicianAvailabilityRequest payload.
type TechnicianAvailabilityRequest struct {
	AvailabilityStatus string `json:"availability_status" validate:"required"`
}

// TechnicianResponse is the public technician shape.
type TechnicianResponse struct {
	ID                   int64                     `json:"id"`
	UserID               int64                     `json:"user_id"`
	Name                 string                    `json:"name"`
	AssignedTicketsTotal int                       `json:"assigned_tickets_total"`
	AssignedTickets      []int64                   `json:"assigned_tickets"`
	Skills               []domain.SkillRating      `json:"skills"`
	Workload             int                       `json:"workload"`
	AvailabilityStatus   domain.AvailabilityStatus `json:"availability_status"`
	SkillLevel           domain.SkillLevel         `json:"skill_level"`
	Specialization       *string                   `json:"specialization,omitempty"`
	IsActive             bool                      `json:"is_active"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}

// NewTechnicianResponse maps the domain model.
func NewTechnicianResponse(tech *domain.Technician) TechnicianResponse {
	skills := tech.Skills
	if skills == nil {
		skills = []domain.SkillRating{}
	}
	assigned := tech.AssignedTickets
	if assigned == nil {
		assigned = []int64{}
	}
	return TechnicianResponse{
		ID:                   tech.ID,
		UserID:               tech.UserID,
		Name:                 tech.Name,
		AssignedTicketsTotal: tech.AssignedTicketsTotal,
		AssignedTickets:      assigned,
		Skills:               skills,
		Workload:             tech.Workload,
		AvailabilityStatus:   tech.AvailabilityStatus,
		SkillLevel:           tech.SkillLevel,
		Specialization:       tech.Specialization,
		IsActive:             tech.IsActive,
		CreatedAt:            tech.CreatedAt,
		UpdatedAt:            tech.UpdatedAt,
	}
}

// ToSkillRatings converts payload pairs to domain values.
func ToSkillRatings(payload []SkillRatingPayload) []domain.SkillRating {
	ratings := make([]domain.SkillRating, 0, len(payload))
	for _, p := range payload {
		ratings = append(ratings, domain.SkillRating{SkillID: p.SkillID, Percentage: p.Percentage})
	}
	return ratings
}
