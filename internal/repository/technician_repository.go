package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// TechnicianFilter defines listing parameters for the technician directory.
type TechnicianFilter struct {
	AvailabilityStatus *domain.AvailabilityStatus
	SkillLevel         *domain.SkillLevel
	IsActive           *bool
	WorkloadMin        *int
	WorkloadMax        *int
	SkillIDs           []int64
	Limit              int
	Offset             int
}

// TechnicianRepository handles persistence for technician capability state.
type TechnicianRepository interface {
	Create(ctx context.Context, tech *domain.Technician) error
	Update(ctx context.Context, tech *domain.Technician) error
	UpdateSkills(ctx context.Context, id int64, skills []domain.SkillRating) error
	SetAvailability(ctx context.Context, id int64, status domain.AvailabilityStatus) error
	SetActive(ctx context.Context, id int64, active bool) error
	GetByID(ctx context.Context, id int64) (*domain.Technician, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Technician, error)
	List(ctx context.Context, filter TechnicianFilter) ([]domain.Technician, error)
	// RecordAssignment appends ticketID to the denormalized assignment list
	// and bumps the monotonic total, both in one atomic statement. It
	// reports false when the ticket was already recorded, keeping the
	// operation idempotent against retries.
	RecordAssignment(ctx context.Context, id, ticketID int64) (bool, error)
	// RecomputeWorkload derives workload from the count of open tickets
	// currently assigned, as a percentage of capacity, clamped to [0,100].
	RecomputeWorkload(ctx context.Context, id int64, capacity int) (int, error)
}

type technicianRepository struct {
	db Querier
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(db Querier) TechnicianRepository {
	return &technicianRepository{db: db}
}

const technicianColumns = `id, user_id, name, assigned_tickets_total, assigned_tickets, skills,
               workload, availability_status, skill_level, specialization, is_active, created_at, updated_at`

func (r *technicianRepository) Create(ctx context.Context, tech *domain.Technician) error {
	const query = `
        INSERT INTO technicians (user_id, name, assigned_tickets, skills, workload, availability_status, skill_level, specialization, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	if tech.AssignedTickets == nil {
		tech.AssignedTickets = []int64{}
	}
	if tech.Skills == nil {
		tech.Skills = []domain.SkillRating{}
	}
	return r.db.QueryRow(ctx, query,
		tech.UserID,
		tech.Name,
		tech.AssignedTickets,
		tech.Skills,
		tech.Workload,
		tech.AvailabilityStatus,
		tech.SkillLevel,
		tech.Specialization,
		tech.IsActive,
	).Scan(&tech.ID, &tech.CreatedAt, &tech.UpdatedAt)
}

func (r *technicianRepository) Update(ctx context.Context, tech *domain.Technician) error {
	const query = `
        UPDATE technicians
        SET name=$1, skills=$2, workload=$3, availability_status=$4, skill_level=$5,
            specialization=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.db.Exec(ctx, query,
		tech.Name,
		tech.Skills,
		tech.Workload,
		tech.AvailabilityStatus,
		tech.SkillLevel,
		tech.Specialization,
		tech.IsActive,
		tech.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *technicianRepository) UpdateSkills(ctx context.Context, id int64, skills []domain.SkillRating) error {
	if skills == nil {
		skills = []domain.SkillRating{}
	}
	cmd, err := r.db.Exec(ctx,
		`UPDATE technicians SET skills=$1, updated_at=NOW() WHERE id=$2`, skills, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *technicianRepository) SetAvailability(ctx context.Context, id int64, status domain.AvailabilityStatus) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE technicians SET availability_status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *technicianRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE technicians SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *technicianRepository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	return r.fetchSingle(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id=$1`, id)
}

func (r *technicianRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Technician, error) {
	return r.fetchSingle(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE user_id=$1`, userID)
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var tech domain.Technician
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&tech.ID,
		&tech.UserID,
		&tech.Name,
		&tech.AssignedTicketsTotal,
		&tech.AssignedTickets,
		&tech.Skills,
		&tech.Workload,
		&tech.AvailabilityStatus,
		&tech.SkillLevel,
		&tech.Specialization,
		&tech.IsActive,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *technicianRepository) List(ctx context.Context, filter TechnicianFilter) ([]domain.Technician, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AvailabilityStatus != nil {
		args = append(args, *filter.AvailabilityStatus)
		clauses = append(clauses, fmt.Sprintf("availability_status=$%d", len(args)))
	}
	if filter.SkillLevel != nil {
		args = append(args, *filter.SkillLevel)
		clauses = append(clauses, fmt.Sprintf("skill_level=$%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.WorkloadMin != nil {
		args = append(args, *filter.WorkloadMin)
		clauses = append(clauses, fmt.Sprintf("workload >= $%d", len(args)))
	}
	if filter.WorkloadMax != nil {
		args = append(args, *filter.WorkloadMax)
		clauses = append(clauses, fmt.Sprintf("workload <= $%d", len(args)))
	}
	for _, skillID := range filter.SkillIDs {
		args = append(args, fmt.Sprintf(`[{"skill_id": %d}]`, skillID))
		clauses = append(clauses, fmt.Sprintf("skills @> $%d::jsonb", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM technicians WHERE %s ORDER BY workload ASC, name ASC LIMIT %d OFFSET %d`,
		technicianColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.UserID,
			&tech.Name,
			&tech.AssignedTicketsTotal,
			&tech.AssignedTickets,
			&tech.Skills,
			&tech.Workload,
			&tech.AvailabilityStatus,
			&tech.SkillLevel,
			&tech.Specialization,
			&tech.IsActive,
			&tech.CreatedAt,
			&tech.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}

func (r *technicianRepository) RecordAssignment(ctx context.Context, id, ticketID int64) (bool, error) {
	// The WHERE guard makes the append idempotent; the counter only moves
	// when the list actually grows, so it stays monotonic and equals the
	// count of distinct assignment events.
	const query = `
        UPDATE technicians
        SET assigned_tickets = assigned_tickets || to_jsonb($2::bigint),
            assigned_tickets_total = assigned_tickets_total + 1,
            updated_at = NOW()
        WHERE id=$1 AND NOT (assigned_tickets @> to_jsonb($2::bigint))`

	cmd, err := r.db.Exec(ctx, query, id, ticketID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *technicianRepository) RecomputeWorkload(ctx context.Context, id int64, capacity int) (int, error) {
	if capacity <= 0 {
		capacity = 1
	}
	const query = `
        UPDATE technicians t
        SET workload = LEAST(100, (
                SELECT COUNT(*) FROM tickets k
                WHERE k.assigned_technician_id = t.id
                  AND k.status NOT IN ('resolved','closed','cancelled')
            ) * 100 / $2),
            updated_at = NOW()
        WHERE t.id = $1
        RETURNING workload`

	var workload int
	if err := r.db.QueryRow(ctx, query, id, capacity).Scan(&workload); err != nil {
		return 0, err
	}
	return workload, nil
}
