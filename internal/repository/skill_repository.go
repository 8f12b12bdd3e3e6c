package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// SkillFilter defines listing parameters for the skill catalog.
type SkillFilter struct {
	IsActive *bool
	Search   *string
	Limit    int
	Offset   int
}

// SkillRepository maintains the skill catalog.
type SkillRepository interface {
	Create(ctx context.Context, skill *domain.Skill) error
	Update(ctx context.Context, skill *domain.Skill) error
	SetActive(ctx context.Context, id int64, active bool) error
	GetByID(ctx context.Context, id int64) (*domain.Skill, error)
	GetByName(ctx context.Context, name string) (*domain.Skill, error)
	List(ctx context.Context, filter SkillFilter) ([]domain.Skill, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

type skillRepository struct {
	db Querier
}

// NewSkillRepository builds the repository.
func NewSkillRepository(db Querier) SkillRepository {
	return &skillRepository{db: db}
}

const skillColumns = `id, name, description, is_active, created_at, updated_at`

func (r *skillRepository) Create(ctx context.Context, skill *domain.Skill) error {
	const query = `
        INSERT INTO skills (name, description, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		skill.Name,
		skill.Description,
		skill.IsActive,
	).Scan(&skill.ID, &skill.CreatedAt, &skill.UpdatedAt)
}

func (r *skillRepository) Update(ctx context.Context, skill *domain.Skill) error {
	const query = `
        UPDATE skills SET name=$1, description=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.db.Exec(ctx, query, skill.Name, skill.Description, skill.IsActive, skill.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *skillRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE skills SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id int64) (*domain.Skill, error) {
	return r.fetchSingle(ctx, `SELECT `+skillColumns+` FROM skills WHERE id=$1`, id)
}

func (r *skillRepository) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	return r.fetchSingle(ctx, `SELECT `+skillColumns+` FROM skills WHERE name=$1`, name)
}

func (r *skillRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Skill, error) {
	var skill domain.Skill
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&skill.ID,
		&skill.Name,
		&skill.Description,
		&skill.IsActive,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) List(ctx context.Context, filter SkillFilter) ([]domain.Skill, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(COALESCE(description,'')) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM skills WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		skillColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Skill
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.Name,
			&skill.Description,
			&skill.IsActive,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, skill)
	}
	return result, rows.Err()
}

func (r *skillRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id FROM skills WHERE id = ANY($1) AND is_active`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}
