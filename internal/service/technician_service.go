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

// TechnicianService manages technician capability records. A technician
// record always belongs to exactly one user with the technician role.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	users       repository.UserRepository
	skills      repository.SkillRepository
	dispatcher  events.Dispatcher
}

// TechnicianDependencies bundles constructor inputs.
type TechnicianDependencies struct {
	Technicians repository.TechnicianRepository
	Users       repository.UserRepository
	Skills      repository.SkillRepository
	Dispatcher  events.Dispatcher
}

// NewTechnicianService builds the service.
func NewTechnicianService(deps TechnicianDependencies) *TechnicianService {
	return &TechnicianService{
		technicians: deps.Technicians,
		users:       deps.Users,
		skills:      deps.Skills,
		dispatcher:  deps.Dispatcher,
	}
}

// TechnicianCreateInput carries fields for enrolling a technician.
type TechnicianCreateInput struct {
	UserID         int64
	SkillLevel     domain.SkillLevel
	Specialization *string
	Skills         []domain.SkillRating
}

// TechnicianUpdateInput carries mutable profile fields. Nil means keep.
type TechnicianUpdateInput struct {
	SkillLevel     *domain.SkillLevel
	Specialization *string
}

// Create enrolls a user as a technician. The user must exist, be active
// and carry the technician role; a user can be enrolled only once.
func (s *TechnicianService) Create(ctx context.Context, input TechnicianCreateInput) (*domain.Technician, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": input.UserID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role != domain.RoleTechnician {
		return nil, apperrors.NewValidationError("user does not have the technician role", map[string]any{
			"user_id": user.ID,
			"role":    user.Role,
		})
	}
	if !user.Status {
		return nil, apperrors.NewConflict("user account is deactivated", map[string]any{"user_id": user.ID})
	}

	if _, err := s.technicians.GetByUserID(ctx, input.UserID); err == nil {
		return nil, apperrors.NewConflict("user is already enrolled as a technician", map[string]any{"user_id": input.UserID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	level := input.SkillLevel
	if level == "" {
		level = domain.SkillLevelJunior
	}
	if !level.Valid() {
		return nil, apperrors.NewValidationError("invalid skill level", map[string]any{"skill_level": level})
	}
	if err := s.validateSkillRatings(ctx, input.Skills); err != nil {
		return nil, err
	}

	tech := &domain.Technician{
		UserID:             user.ID,
		Name:               user.Name,
		AssignedTickets:    []int64{},
		Skills:             input.Skills,
		Workload:           0,
		AvailabilityStatus: domain.AvailabilityAvailable,
		SkillLevel:         level,
		Specialization:     input.Specialization,
		IsActive:           true,
	}
	if err := s.technicians.Create(ctx, tech); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tech, nil
}

// Get loads one technician.
func (s *TechnicianService) Get(ctx context.Context, id int64) (*domain.Technician, error) {
	tech, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return tech, nil
}

// GetByUserID loads the technician record owned by a user.
func (s *TechnicianService) GetByUserID(ctx context.Context, userID int64) (*domain.Technician, error) {
	tech, err := s.technicians.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return tech, nil
}

// List returns technicians matching the filter, least loaded first.
func (s *TechnicianService) List(ctx context.Context, filter repository.TechnicianFilter) ([]domain.Technician, error) {
	techs, err := s.technicians.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return techs, nil
}

// Update edits seniority and specialization.
func (s *TechnicianService) Update(ctx context.Context, id int64, input TechnicianUpdateInput) (*domain.Technician, error) {
	tech, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.SkillLevel != nil {
		if !input.SkillLevel.Valid() {
			return nil, apperrors.NewValidationError("invalid skill level", map[string]any{"skill_level": *input.SkillLevel})
		}
		tech.SkillLevel = *input.SkillLevel
	}
	if input.Specialization != nil {
		tech.Specialization = input.Specialization
	}
	if err := s.technicians.Update(ctx, tech); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tech, nil
}

// UpdateSkills replaces the full skill rating set.
func (s *TechnicianService) UpdateSkills(ctx context.Context, id int64, skills []domain.SkillRating) (*domain.Technician, error) {
	tech, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateSkillRatings(ctx, skills); err != nil {
		return nil, err
	}
	if err := s.technicians.UpdateSkills(ctx, id, skills); err != nil {
		return nil, apperrors.MapError(err)
	}
	tech.Skills = skills
	return tech, nil
}

// SetAvailability updates presence state and notifies subscribers.
func (s *TechnicianService) SetAvailability(ctx context.Context, id int64, status domain.AvailabilityStatus) (*domain.Technician, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid availability status", map[string]any{"availability_status": status})
	}
	tech, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := tech.AvailabilityStatus
	if old == status {
		return tech, nil
	}
	if err := s.technicians.SetAvailability(ctx, id, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	tech.AvailabilityStatus = status

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTechnicianAvailabilityChange,
		Actor:     events.Actor{Type: domain.ActorTechnician, ID: &tech.UserID},
		Timestamp: time.Now().UTC(),
		Payload: events.TechnicianAvailabilityPayload{
			TechnicianID: tech.ID,
			OldStatus:    old,
			NewStatus:    status,
		},
	})
	return tech, nil
}

// Deactivate removes a technician from assignment eligibility without
// deleting history.
func (s *TechnicianService) Deactivate(ctx context.Context, id int64) error {
	if err := s.technicians.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Reactivate restores assignment eligibility.
func (s *TechnicianService) Reactivate(ctx context.Context, id int64) error {
	if err := s.technicians.SetActive(ctx, id, true); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TechnicianService) validateSkillRatings(ctx context.Context, skills []domain.SkillRating) error {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(skills))
	ids := make([]int64, 0, len(skills))
	for _, rating := range skills {
		if rating.Percentage < 0 || rating.Percentage > 100 {
			return apperrors.NewValidationError("skill percentage must be between 0 and 100", map[string]any{
				"skill_id":   rating.SkillID,
				"percentage": rating.Percentage,
			})
		}
		if seen[rating.SkillID] {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate skill %d in rating set", rating.SkillID), nil)
		}
		seen[rating.SkillID] = true
		ids = append(ids, rating.SkillID)
	}

	existing, err := s.skills.ExistingIDs(ctx, ids)
	if err != nil {
		return apperrors.MapError(err)
	}
	var missing []string
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, fmt.Sprintf("%d", id))
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("unknown or inactive skills: "+strings.Join(missing, ", "), nil)
	}
	return nil
}
