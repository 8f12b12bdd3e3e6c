package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/repository"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

// SkillService maintains the skill catalog referenced by technician
// profiles and ticket required_skills.
type SkillService struct {
	skills repository.SkillRepository
}

// NewSkillService builds the service.
func NewSkillService(skills repository.SkillRepository) *SkillService {
	return &SkillService{skills: skills}
}

// SkillInput carries catalog entry fields.
type SkillInput struct {
	Name        string
	Description *string
}

// Create adds a catalog entry. Names are unique.
func (s *SkillService) Create(ctx context.Context, input SkillInput) (*domain.Skill, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > 255 {
		return nil, apperrors.NewValidationError("name must be between 2 and 255 characters", nil)
	}
	if _, err := s.skills.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("skill already exists", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	skill := &domain.Skill{Name: name, Description: input.Description, IsActive: true}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, apperrors.MapError(err)
	}
	return skill, nil
}

// Get loads one catalog entry.
func (s *SkillService) Get(ctx context.Context, id int64) (*domain.Skill, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("skill", map[string]any{"skill_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return skill, nil
}

// List returns catalog entries matching the filter.
func (s *SkillService) List(ctx context.Context, filter repository.SkillFilter) ([]domain.Skill, error) {
	skills, err := s.skills.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return skills, nil
}

// Update renames or re-describes a catalog entry.
func (s *SkillService) Update(ctx context.Context, id int64, input SkillInput) (*domain.Skill, error) {
	skill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > 255 {
		return nil, apperrors.NewValidationError("name must be between 2 and 255 characters", nil)
	}
	if name != skill.Name {
		if existing, err := s.skills.GetByName(ctx, name); err == nil && existing.ID != id {
			return nil, apperrors.NewConflict("skill already exists", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}
	skill.Name = name
	skill.Description = input.Description
	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, apperrors.MapError(err)
	}
	return skill, nil
}

// Deactivate soft-deletes a catalog entry. Existing references keep their
// ids; the skill just stops being assignable.
func (s *SkillService) Deactivate(ctx context.Context, id int64) error {
	if err := s.skills.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("skill", map[string]any{"skill_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Reactivate restores a soft-deleted entry.
func (s *SkillService) Reactivate(ctx context.Context, id int64) error {
	if err := s.skills.SetActive(ctx, id, true); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("skill", map[string]any{"skill_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
