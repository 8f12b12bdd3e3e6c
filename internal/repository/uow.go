package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepos bundles the repositories that participate in ticket assignment
// and lifecycle transactions.
type TxRepos struct {
	Tickets     TicketRepository
	Technicians TechnicianRepository
	Audit       AuditRepository
	WorkLogs    WorkLogRepository
}

// UnitOfWork runs a function with transaction-scoped repositories. If the
// function returns an error the whole transaction rolls back; no operation
// partially applies.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepos) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork builds a pgx-backed unit of work.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) Do(ctx context.Context, fn func(repos TxRepos) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	repos := TxRepos{
		Tickets:     NewTicketRepository(tx),
		Technicians: NewTechnicianRepository(tx),
		Audit:       NewAuditRepository(tx),
		WorkLogs:    NewWorkLogRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
