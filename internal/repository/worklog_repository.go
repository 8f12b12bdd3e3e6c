package repository

import (
	"context"

	"github.com/resolvedesk/itsm-service/internal/domain"
)

// WorkLogRepository stores ticket work log notes. Insert-only, like the
// audit trail.
type WorkLogRepository interface {
	Create(ctx context.Context, entry *domain.WorkLog) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error)
}

type workLogRepository struct {
	db Querier
}

// NewWorkLogRepository builds repository.
func NewWorkLogRepository(db Querier) WorkLogRepository {
	return &workLogRepository{db: db}
}

func (r *workLogRepository) Create(ctx context.Context, entry *domain.WorkLog) error {
	const query = `
        INSERT INTO ticket_work_logs (ticket_id, actor_type, actor_id, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		entry.TicketID,
		entry.ActorType,
		entry.ActorID,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *workLogRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error) {
	const query = `
        SELECT id, ticket_id, actor_type, actor_id, note, created_at
        FROM ticket_work_logs WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkLog
	for rows.Next() {
		var entry domain.WorkLog
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.ActorType,
			&entry.ActorID,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
