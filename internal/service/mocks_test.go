package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/events"
	"github.com/resolvedesk/itsm-service/internal/repository"
)

type mockUserRepository struct {
	CreateFunc     func(ctx context.Context, user *domain.User) error
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	SetStatusFunc  func(ctx context.Context, id int64, active bool) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	ListFunc       func(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, user)
}

func (m *mockUserRepository) SetStatus(ctx context.Context, id int64, active bool) error {
	if m.SetStatusFunc == nil {
		return nil
	}
	return m.SetStatusFunc(ctx, id, active)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, filter)
}

type mockTechnicianRepository struct {
	CreateFunc            func(ctx context.Context, tech *domain.Technician) error
	UpdateFunc            func(ctx context.Context, tech *domain.Technician) error
	UpdateSkillsFunc      func(ctx context.Context, id int64, skills []domain.SkillRating) error
	SetAvailabilityFunc   func(ctx context.Context, id int64, status domain.AvailabilityStatus) error
	SetActiveFunc         func(ctx context.Context, id int64, active bool) error
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Technician, error)
	GetByUserIDFunc       func(ctx context.Context, userID int64) (*domain.Technician, error)
	ListFunc              func(ctx context.Context, filter repository.TechnicianFilter) ([]domain.Technician, error)
	RecordAssignmentFunc  func(ctx context.Context, id, ticketID int64) (bool, error)
	RecomputeWorkloadFunc func(ctx context.Context, id int64, capacity int) (int, error)
}

func (m *mockTechnicianRepository) Create(ctx context.Context, tech *domain.Technician) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, tech)
}

func (m *mockTechnicianRepository) Update(ctx context.Context, tech *domain.Technician) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, tech)
}

func (m *mockTechnicianRepository) UpdateSkills(ctx context.Context, id int64, skills []domain.SkillRating) error {
	if m.UpdateSkillsFunc == nil {
		return nil
	}
	return m.UpdateSkillsFunc(ctx, id, skills)
}

func (m *mockTechnicianRepository) SetAvailability(ctx context.Context, id int64, status domain.AvailabilityStatus) error {
	if m.SetAvailabilityFunc == nil {
		return nil
	}
	return m.SetAvailabilityFunc(ctx, id, status)
}

func (m *mockTechnicianRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if m.SetActiveFunc == nil {
		return nil
	}
	return m.SetActiveFunc(ctx, id, active)
}

func (m *mockTechnicianRepository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTechnicianRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Technician, error) {
	if m.GetByUserIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByUserIDFunc(ctx, userID)
}

func (m *mockTechnicianRepository) List(ctx context.Context, filter repository.TechnicianFilter) ([]domain.Technician, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *mockTechnicianRepository) RecordAssignment(ctx context.Context, id, ticketID int64) (bool, error) {
	if m.RecordAssignmentFunc == nil {
		return true, nil
	}
	return m.RecordAssignmentFunc(ctx, id, ticketID)
}

func (m *mockTechnicianRepository) RecomputeWorkload(ctx context.Context, id int64, capacity int) (int, error) {
	if m.RecomputeWorkloadFunc == nil {
		return 0, nil
	}
	return m.RecomputeWorkloadFunc(ctx, id, capacity)
}

type mockTicketRepository struct {
	CreateFunc             func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc             func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFunc            func(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByExternalKeyFunc   func(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilterFunc     func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	ClaimForAssignmentFunc func(ctx context.Context, ticketID, technicianID int64, fromTechnicianID *int64) (*domain.Ticket, error)
	MarkSLAViolatedFunc    func(ctx context.Context, id int64) error
	AggregateFunc          func(ctx context.Context) ([]repository.TechnicianPerformance, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc == nil {
		ticket.ID = 1
		return nil
	}
	return m.CreateFunc(ctx, ticket)
}

func (m *mockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, ticket)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTicketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	if m.GetByExternalKeyFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByExternalKeyFunc(ctx, key)
}

func (m *mockTicketRepository) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.ListWithFilterFunc == nil {
		return nil, nil
	}
	return m.ListWithFilterFunc(ctx, filter)
}

func (m *mockTicketRepository) ClaimForAssignment(ctx context.Context, ticketID, technicianID int64, fromTechnicianID *int64) (*domain.Ticket, error) {
	if m.ClaimForAssignmentFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.ClaimForAssignmentFunc(ctx, ticketID, technicianID, fromTechnicianID)
}

func (m *mockTicketRepository) MarkSLAViolated(ctx context.Context, id int64) error {
	if m.MarkSLAViolatedFunc == nil {
		return nil
	}
	return m.MarkSLAViolatedFunc(ctx, id)
}

func (m *mockTicketRepository) AggregatePerformance(ctx context.Context) ([]repository.TechnicianPerformance, error) {
	if m.AggregateFunc == nil {
		return nil, nil
	}
	return m.AggregateFunc(ctx)
}

type mockSkillRepository struct {
	CreateFunc      func(ctx context.Context, skill *domain.Skill) error
	UpdateFunc      func(ctx context.Context, skill *domain.Skill) error
	SetActiveFunc   func(ctx context.Context, id int64, active bool) error
	GetByIDFunc     func(ctx context.Context, id int64) (*domain.Skill, error)
	GetByNameFunc   func(ctx context.Context, name string) (*domain.Skill, error)
	ListFunc        func(ctx context.Context, filter repository.SkillFilter) ([]domain.Skill, error)
	ExistingIDsFunc func(ctx context.Context, ids []int64) (map[int64]bool, error)
}

func (m *mockSkillRepository) Create(ctx context.Context, skill *domain.Skill) error {
	if m.CreateFunc == nil {
		skill.ID = 1
		return nil
	}
	return m.CreateFunc(ctx, skill)
}

func (m *mockSkillRepository) Update(ctx context.Context, skill *domain.Skill) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, skill)
}

func (m *mockSkillRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if m.SetActiveFunc == nil {
		return nil
	}
	return m.SetActiveFunc(ctx, id, active)
}

func (m *mockSkillRepository) GetByID(ctx context.Context, id int64) (*domain.Skill, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockSkillRepository) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	if m.GetByNameFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByNameFunc(ctx, name)
}

func (m *mockSkillRepository) List(ctx context.Context, filter repository.SkillFilter) ([]domain.Skill, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *mockSkillRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if m.ExistingIDsFunc == nil {
		all := make(map[int64]bool, len(ids))
		for _, id := range ids {
			all[id] = true
		}
		return all, nil
	}
	return m.ExistingIDsFunc(ctx, ids)
}

type mockWorkLogRepository struct {
	CreateFunc       func(ctx context.Context, entry *domain.WorkLog) error
	ListByTicketFunc func(ctx context.Context, ticketID int64) ([]domain.WorkLog, error)
}

func (m *mockWorkLogRepository) Create(ctx context.Context, entry *domain.WorkLog) error {
	if m.CreateFunc == nil {
		entry.ID = 1
		return nil
	}
	return m.CreateFunc(ctx, entry)
}

func (m *mockWorkLogRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.WorkLog, error) {
	if m.ListByTicketFunc == nil {
		return nil, nil
	}
	return m.ListByTicketFunc(ctx, ticketID)
}

type mockAuditRepository struct {
	mu      sync.Mutex
	Entries []domain.AuditEntry

	CreateFunc       func(ctx context.Context, entry *domain.AuditEntry) error
	ListByTicketFunc func(ctx context.Context, ticketID int64, limit, offset int) ([]domain.AuditEntry, error)
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.Entries) + 1)
	m.Entries = append(m.Entries, *entry)
	return nil
}

func (m *mockAuditRepository) ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.AuditEntry, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.AuditEntry
	for _, entry := range m.Entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type mockPasswordResetRepository struct {
	CreateFunc     func(ctx context.Context, token *repository.PasswordResetToken) error
	GetByTokenFunc func(ctx context.Context, token string) (*repository.PasswordResetToken, error)
	MarkUsedFunc   func(ctx context.Context, id int64) error
}

func (m *mockPasswordResetRepository) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	if m.CreateFunc == nil {
		token.ID = 1
		return nil
	}
	return m.CreateFunc(ctx, token)
}

func (m *mockPasswordResetRepository) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	if m.GetByTokenFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByTokenFunc(ctx, token)
}

func (m *mockPasswordResetRepository) MarkUsed(ctx context.Context, id int64) error {
	if m.MarkUsedFunc == nil {
		return nil
	}
	return m.MarkUsedFunc(ctx, id)
}

// mockUnitOfWork runs the callback against the supplied fakes without any
// transaction semantics.
type mockUnitOfWork struct {
	Repos repository.TxRepos
}

func (m *mockUnitOfWork) Do(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return fn(m.Repos)
}

// captureDispatcher records published events and subscriptions for assertions.
type captureDispatcher struct {
	mu       sync.Mutex
	Events   []events.Event
	Handlers map[events.EventType][]events.EventHandler
}

func (d *captureDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Events = append(d.Events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Handlers == nil {
		d.Handlers = make(map[events.EventType][]events.EventHandler)
	}
	d.Handlers[eventType] = append(d.Handlers[eventType], handler)
}

func (d *captureDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.Events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
