package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// TicketFilter captures ticket search parameters.
type TicketFilter struct {
	RequesterID       *int64
	TechnicianID      *int64
	Statuses          []domain.TicketStatus
	Priorities        []domain.TicketPriority
	Impacts           []domain.TicketImpact
	Urgencies         []domain.TicketUrgency
	SLAViolated       *bool
	SearchTerm        *string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	UpdatedFrom       *time.Time
	UpdatedTo         *time.Time
	ResolutionDueFrom *time.Time
	ResolutionDueTo   *time.Time
	RequiredSkills    []int64
	Limit             int
	Offset            int
}

// TechnicianPerformance is one row of the aggregate performance report.
type TechnicianPerformance struct {
	TechnicianID         int64    `json:"technician_id"`
	Name                 string   `json:"name"`
	TotalAssigned        int      `json:"total_assigned"`
	OpenTickets          int      `json:"open_tickets"`
	ResolvedTickets      int      `json:"resolved_tickets"`
	AvgScore             *float64 `json:"avg_score"`
	AvgSatisfaction      *float64 `json:"avg_satisfaction"`
	AvgResolutionMinutes *float64 `json:"avg_resolution_minutes"`
	SLAViolations        int      `json:"sla_violations"`
	Workload             int      `json:"workload"`
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ClaimForAssignment performs the atomic conditional update that gives
	// assignment its exactly-once semantics. The update only applies while
	// the ticket is non-terminal and the assignee still equals
	// fromTechnicianID (nil for an unassigned ticket), so concurrent
	// assigns race in the database: exactly one wins, the losers get
	// pgx.ErrNoRows. A non-nil fromTechnicianID hands the ticket from one
	// technician to another.
	ClaimForAssignment(ctx context.Context, ticketID, technicianID int64, fromTechnicianID *int64) (*domain.Ticket, error)
	// MarkSLAViolated persists the sticky violation flag.
	MarkSLAViolated(ctx context.Context, id int64) error
	AggregatePerformance(ctx context.Context) ([]TechnicianPerformance, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, external_key, subject, description, status, tags, priority, impact, urgency,
               sla_violated, resolution_due, resolution_date, first_response_time, response_time,
               resolution_time, escalation_count, requester_id, assigned_technician_id, required_skills,
               tasks, first_response_at, resolved_at, closed_at, reopened_count, satisfaction_rating,
               score, justification, feedback, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, subject, description, status, tags, priority, impact, urgency,
                             resolution_due, requester_id, required_skills, tasks, justification)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`

	if ticket.Tags == nil {
		ticket.Tags = []string{}
	}
	if ticket.RequiredSkills == nil {
		ticket.RequiredSkills = []int64{}
	}
	if ticket.Tasks == nil {
		ticket.Tasks = []domain.Task{}
	}
	return r.db.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Tags,
		ticket.Priority,
		ticket.Impact,
		ticket.Urgency,
		ticket.ResolutionDue,
		ticket.RequesterID,
		ticket.RequiredSkills,
		ticket.Tasks,
		ticket.Justification,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets
        SET subject=$1, description=$2, status=$3, tags=$4, priority=$5, impact=$6, urgency=$7,
            sla_violated=$8, resolution_due=$9, resolution_date=$10, first_response_time=$11,
            response_time=$12, resolution_time=$13, escalation_count=$14, assigned_technician_id=$15,
            required_skills=$16, tasks=$17, first_response_at=$18, resolved_at=$19, closed_at=$20,
            reopened_count=$21, satisfaction_rating=$22, score=$23, justification=$24, feedback=$25,
            updated_at=NOW()
        WHERE id=$26`

	cmd, err := r.db.Exec(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Tags,
		ticket.Priority,
		ticket.Impact,
		ticket.Urgency,
		ticket.SLAViolated,
		ticket.ResolutionDue,
		ticket.ResolutionDate,
		ticket.FirstResponseTime,
		ticket.ResponseTime,
		ticket.ResolutionTime,
		ticket.EscalationCount,
		ticket.AssignedTechnicianID,
		ticket.RequiredSkills,
		ticket.Tasks,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ReopenedCount,
		ticket.SatisfactionRating,
		ticket.Score,
		ticket.Justification,
		ticket.Feedback,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE external_key=$1`, key)
}

func (r *ticketRepository) ClaimForAssignment(ctx context.Context, ticketID, technicianID int64, fromTechnicianID *int64) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets
        SET assigned_technician_id=$2,
            status = CASE WHEN status='new' THEN 'assigned' ELSE status END,
            first_response_at = COALESCE(first_response_at, NOW()),
            first_response_time = COALESCE(first_response_time, (EXTRACT(EPOCH FROM (NOW() - created_at)) / 60)::int),
            response_time = COALESCE(response_time, (EXTRACT(EPOCH FROM (NOW() - created_at)) / 60)::int),
            updated_at = NOW()
        WHERE id=$1
          AND status NOT IN ('closed','cancelled')
          AND assigned_technician_id IS NOT DISTINCT FROM $3
        RETURNING ` + ticketColumns

	return r.scanRow(r.db.QueryRow(ctx, query, ticketID, technicianID, fromTechnicianID))
}

func (r *ticketRepository) MarkSLAViolated(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tickets SET sla_violated=TRUE, updated_at=NOW() WHERE id=$1 AND NOT sla_violated`, id)
	return err
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	return r.scanRow(r.db.QueryRow(ctx, query, arg))
}

func (r *ticketRepository) scanRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Tags,
		&ticket.Priority,
		&ticket.Impact,
		&ticket.Urgency,
		&ticket.SLAViolated,
		&ticket.ResolutionDue,
		&ticket.ResolutionDate,
		&ticket.FirstResponseTime,
		&ticket.ResponseTime,
		&ticket.ResolutionTime,
		&ticket.EscalationCount,
		&ticket.RequesterID,
		&ticket.AssignedTechnicianID,
		&ticket.RequiredSkills,
		&ticket.Tasks,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.ReopenedCount,
		&ticket.SatisfactionRating,
		&ticket.Score,
		&ticket.Justification,
		&ticket.Feedback,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("assigned_technician_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Impacts) > 0 {
		placeholders := make([]string, len(filter.Impacts))
		for i, impact := range filter.Impacts {
			args = append(args, impact)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("impact IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Urgencies) > 0 {
		placeholders := make([]string, len(filter.Urgencies))
		for i, urgency := range filter.Urgencies {
			args = append(args, urgency)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("urgency IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SLAViolated != nil {
		args = append(args, *filter.SLAViolated)
		clauses = append(clauses, fmt.Sprintf("sla_violated=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.UpdatedFrom != nil {
		args = append(args, *filter.UpdatedFrom)
		clauses = append(clauses, fmt.Sprintf("updated_at >= $%d", len(args)))
	}
	if filter.UpdatedTo != nil {
		args = append(args, *filter.UpdatedTo)
		clauses = append(clauses, fmt.Sprintf("updated_at <= $%d", len(args)))
	}
	if filter.ResolutionDueFrom != nil {
		args = append(args, *filter.ResolutionDueFrom)
		clauses = append(clauses, fmt.Sprintf("resolution_due >= $%d", len(args)))
	}
	if filter.ResolutionDueTo != nil {
		args = append(args, *filter.ResolutionDueTo)
		clauses = append(clauses, fmt.Sprintf("resolution_due <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(subject) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	for _, skillID := range filter.RequiredSkills {
		args = append(args, skillID)
		clauses = append(clauses, fmt.Sprintf("required_skills @> to_jsonb($%d::bigint)", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) AggregatePerformance(ctx context.Context) ([]TechnicianPerformance, error) {
	const query = `
        SELECT t.id, t.name, t.assigned_tickets_total, t.workload,
               COUNT(k.id) FILTER (WHERE k.status NOT IN ('resolved','closed','cancelled')),
               COUNT(k.id) FILTER (WHERE k.status IN ('resolved','closed')),
               AVG(k.score),
               AVG(k.satisfaction_rating),
               AVG(k.resolution_time),
               COUNT(k.id) FILTER (WHERE k.sla_violated)
        FROM technicians t
        LEFT JOIN tickets k ON k.assigned_technician_id = t.id
        WHERE t.is_active
        GROUP BY t.id, t.name, t.assigned_tickets_total, t.workload
        ORDER BY t.name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TechnicianPerformance
	for rows.Next() {
		var perf TechnicianPerformance
		if err := rows.Scan(
			&perf.TechnicianID,
			&perf.Name,
			&perf.TotalAssigned,
			&perf.Workload,
			&perf.OpenTickets,
			&perf.ResolvedTickets,
			&perf.AvgScore,
			&perf.AvgSatisfaction,
			&perf.AvgResolutionMinutes,
			&perf.SLAViolations,
		); err != nil {
			return nil, err
		}
		result = append(result, perf)
	}
	return result, rows.Err()
}
