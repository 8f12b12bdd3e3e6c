package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/events"
	"github.com/resolvedesk/itsm-service/internal/repository"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type ticketFixture struct {
	tickets     *mockTicketRepository
	technicians *mockTechnicianRepository
	users       *mockUserRepository
	skills      *mockSkillRepository
	workLogs    *mockWorkLogRepository
	audit       *mockAuditRepository
	dispatcher  *captureDispatcher
	service     *TicketService
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:     &mockTicketRepository{},
		technicians: &mockTechnicianRepository{},
		users:       &mockUserRepository{},
		skills:      &mockSkillRepository{},
		workLogs:    &mockWorkLogRepository{},
		audit:       &mockAuditRepository{},
		dispatcher:  &captureDispatcher{},
	}
	uow := &mockUnitOfWork{Repos: repository.TxRepos{
		Tickets:     f.tickets,
		Technicians: f.technicians,
		Audit:       f.audit,
		WorkLogs:    f.workLogs,
	}}
	f.service = NewTicketService(TicketDependencies{
		Tickets:     f.tickets,
		Technicians: f.technicians,
		Users:       f.users,
		Skills:      f.skills,
		WorkLogs:    f.workLogs,
		Audit:       f.audit,
		UnitOfWork:  uow,
		Dispatcher:  f.dispatcher,
		Now:         func() time.Time { return testNow },
	})
	return f
}

func activeUser(id int64) *domain.User {
	return &domain.User{ID: id, Name: "Dana Reed", Email: "dana@example.com", Status: true, Role: domain.RoleUser}
}

func testActor() events.Actor {
	id := int64(42)
	return events.Actor{Type: domain.ActorAdmin, ID: &id}
}

func validCreateInput() TicketCreateInput {
	return TicketCreateInput{
		Subject:     "Printer offline on floor 3",
		Description: "The shared printer stopped responding this morning.",
		RequesterID: 10,
	}
}

func TestTicketCreateValidation(t *testing.T) {
	f := newTicketFixture()
	f.users.GetByIDFunc = func(ctx context.Context, id int64) (*domain.User, error) {
		return activeUser(id), nil
	}

	t.Run("subject below minimum", func(t *testing.T) {
		input := validCreateInput()
		input.Subject = "0123"
		_, err := f.service.Create(context.Background(), input, testActor())
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("subject at minimum succeeds", func(t *testing.T) {
		input := validCreateInput()
		input.Subject = "01234"
		_, err := f.service.Create(context.Background(), input, testActor())
		require.NoError(t, err)
	})

	t.Run("empty description", func(t *testing.T) {
		input := validCreateInput()
		input.Description = "   "
		_, err := f.service.Create(context.Background(), input, testActor())
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("due date in the past", func(t *testing.T) {
		input := validCreateInput()
		past := testNow.Add(-time.Hour)
		input.ResolutionDue = &past
		_, err := f.service.Create(context.Background(), input, testActor())
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("unknown priority", func(t *testing.T) {
		input := validCreateInput()
		input.Priority = "urgent"
		_, err := f.service.Create(context.Background(), input, testActor())
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("unknown requester", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service.Create(context.Background(), validCreateInput(), testActor())
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func TestTicketCreateDefaults(t *testing.T) {
	f := newTicketFixture()
	f.users.GetByIDFunc = func(ctx context.Context, id int64) (*domain.User, error) {
		return activeUser(id), nil
	}

	input := validCreateInput()
	input.Priority = domain.TicketPriorityCritical

	ticket, err := f.service.Create(context.Background(), input, testActor())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, domain.ImpactMedium, ticket.Impact)
	assert.Equal(t, domain.UrgencyNormal, ticket.Urgency)
	assert.True(t, strings.HasPrefix(ticket.ExternalKey, "TKT-"))

	require.NotNil(t, ticket.ResolutionDue)
	assert.Equal(t, testNow.Add(4*time.Hour), *ticket.ResolutionDue)

	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, domain.ChangeTypeCreated, f.audit.Entries[0].ChangeType)
	assert.Len(t, f.dispatcher.published(events.EventTicketCreated), 1)
}

func TestAssignHappyPath(t *testing.T) {
	f := newTicketFixture()
	ticket := &domain.Ticket{ID: 5, Status: domain.TicketStatusNew, RequesterID: 10}
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return ticket, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		return &domain.Technician{ID: id, UserID: 20, SkillLevel: domain.SkillLevelSenior, IsActive: true}, nil
	}
	f.tickets.ClaimForAssignmentFunc = func(ctx context.Context, ticketID, technicianID int64, fromTechnicianID *int64) (*domain.Ticket, error) {
		require.Nil(t, fromTechnicianID)
		claimed := *ticket
		claimed.Status = domain.TicketStatusAssigned
		claimed.AssignedTechnicianID = &technicianID
		return &claimed, nil
	}
	var capacityUsed int
	f.technicians.RecomputeWorkloadFunc = func(ctx context.Context, id int64, capacity int) (int, error) {
		capacityUsed = capacity
		return 25, nil
	}

	assigned, err := f.service.Assign(context.Background(), 5, 7, testActor())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedTechnicianID)
	assert.Equal(t, int64(7), *assigned.AssignedTechnicianID)
	assert.Equal(t, 8, capacityUsed)

	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, domain.ChangeTypeAssignment, f.audit.Entries[0].ChangeType)

	published := f.dispatcher.published(events.EventTicketAssigned)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.TicketAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, int64(7), payload.TechnicianID)
	assert.Equal(t, 25, payload.Workload)
}

func TestAssignConflictWhenAlreadyClaimed(t *testing.T) {
	f := newTicketFixture()
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusNew}, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		return &domain.Technician{ID: id, SkillLevel: domain.SkillLevelMid, IsActive: true}, nil
	}
	// default ClaimForAssignment yields pgx.ErrNoRows: another caller won

	_, err := f.service.Assign(context.Background(), 5, 7, testActor())
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	assert.Empty(t, f.dispatcher.Events)
}

func TestAssignIdempotentForSameTechnician(t *testing.T) {
	f := newTicketFixture()
	techID := int64(7)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusAssigned, AssignedTechnicianID: &techID}, nil
	}

	ticket, err := f.service.Assign(context.Background(), 5, techID, testActor())
	require.NoError(t, err)
	assert.Equal(t, techID, *ticket.AssignedTechnicianID)
	assert.Empty(t, f.dispatcher.Events)
	assert.Empty(t, f.audit.Entries)
}

func TestAssignRejectsTerminalAndInactive(t *testing.T) {
	t.Run("terminal ticket", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusCancelled}, nil
		}
		_, err := f.service.Assign(context.Background(), 5, 7, testActor())
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})

	t.Run("inactive technician", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusNew}, nil
		}
		f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
			return &domain.Technician{ID: id, SkillLevel: domain.SkillLevelMid, IsActive: false}, nil
		}
		_, err := f.service.Assign(context.Background(), 5, 7, testActor())
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})
}

func TestAssignHandsOverReopenedTicket(t *testing.T) {
	f := newTicketFixture()
	prevID := int64(1)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusAssigned, AssignedTechnicianID: &prevID}, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		level := domain.SkillLevelMid
		if id == prevID {
			level = domain.SkillLevelSenior
		}
		return &domain.Technician{ID: id, UserID: 20 + id, SkillLevel: level, IsActive: true}, nil
	}
	f.tickets.ClaimForAssignmentFunc = func(ctx context.Context, ticketID, technicianID int64, fromTechnicianID *int64) (*domain.Ticket, error) {
		require.NotNil(t, fromTechnicianID)
		assert.Equal(t, prevID, *fromTechnicianID)
		claimed := &domain.Ticket{ID: ticketID, Status: domain.TicketStatusAssigned, AssignedTechnicianID: &technicianID}
		return claimed, nil
	}
	recomputed := map[int64]int{}
	f.technicians.RecomputeWorkloadFunc = func(ctx context.Context, id int64, capacity int) (int, error) {
		recomputed[id] = capacity
		return 33, nil
	}

	assigned, err := f.service.Assign(context.Background(), 5, 2, testActor())
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTechnicianID)
	assert.Equal(t, int64(2), *assigned.AssignedTechnicianID)

	// Both sides of the handover get a fresh workload.
	assert.Equal(t, 6, recomputed[2])
	assert.Equal(t, 8, recomputed[prevID])

	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, prevID, f.audit.Entries[0].OldValue["assigned_technician_id"])
	assert.Equal(t, int64(2), f.audit.Entries[0].NewValue["assigned_technician_id"])
	assert.Len(t, f.dispatcher.published(events.EventTicketAssigned), 1)
}

func TestAssignConflictWhenAssigneeChangedConcurrently(t *testing.T) {
	f := newTicketFixture()
	prevID := int64(1)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress, AssignedTechnicianID: &prevID}, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		return &domain.Technician{ID: id, SkillLevel: domain.SkillLevelMid, IsActive: true}, nil
	}
	// default ClaimForAssignment yields pgx.ErrNoRows: the assignee moved on

	_, err := f.service.Assign(context.Background(), 5, 2, testActor())
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	assert.Empty(t, f.dispatcher.Events)
}

func TestChangeStatusInvalidTransition(t *testing.T) {
	f := newTicketFixture()
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusNew}, nil
	}

	_, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusClosed, "", testActor())
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestChangeStatusRequiresAssignee(t *testing.T) {
	f := newTicketFixture()
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusNew}, nil
	}

	_, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusAssigned, "", testActor())
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestChangeStatusResolveSetsTimestamps(t *testing.T) {
	f := newTicketFixture()
	techID := int64(7)
	due := testNow.Add(time.Hour)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{
			ID:                   id,
			Status:               domain.TicketStatusInProgress,
			AssignedTechnicianID: &techID,
			ResolutionDue:        &due,
			CreatedAt:            testNow.Add(-3 * time.Hour),
		}, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		return &domain.Technician{ID: id, SkillLevel: domain.SkillLevelMid, IsActive: true}, nil
	}

	ticket, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusResolved, "fixed", testActor())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, testNow, *ticket.ResolvedAt)
	require.NotNil(t, ticket.ResolutionDate)
	require.NotNil(t, ticket.ResolutionTime)
	assert.Equal(t, 180, *ticket.ResolutionTime)
	assert.False(t, ticket.SLAViolated)

	published := f.dispatcher.published(events.EventTicketStatusChanged)
	require.Len(t, published, 1)
	payload := published[0].Payload.(events.TicketStatusChangedPayload)
	assert.Equal(t, domain.TicketStatusInProgress, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusResolved, payload.NewStatus)
	assert.False(t, payload.Reopened)
}

func TestChangeStatusLateResolveKeepsViolationSticky(t *testing.T) {
	f := newTicketFixture()
	techID := int64(7)
	overdue := testNow.Add(-2 * time.Hour)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{
			ID:                   id,
			Status:               domain.TicketStatusInProgress,
			AssignedTechnicianID: &techID,
			ResolutionDue:        &overdue,
			CreatedAt:            testNow.Add(-6 * time.Hour),
		}, nil
	}

	ticket, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusResolved, "", testActor())
	require.NoError(t, err)
	assert.True(t, ticket.SLAViolated)
}

func TestChangeStatusReopenIncrementsCounter(t *testing.T) {
	f := newTicketFixture()
	techID := int64(7)
	resolvedAt := testNow.Add(-24 * time.Hour)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{
			ID:                   id,
			Status:               domain.TicketStatusResolved,
			AssignedTechnicianID: &techID,
			ResolvedAt:           &resolvedAt,
			ResolutionDate:       &resolvedAt,
			ReopenedCount:        1,
			CreatedAt:            testNow.Add(-48 * time.Hour),
		}, nil
	}

	ticket, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusInProgress, "not fixed", testActor())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Equal(t, 2, ticket.ReopenedCount)
	// Prior cycle timestamps survive until the next resolve.
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, resolvedAt, *ticket.ResolvedAt)
	assert.Equal(t, resolvedAt, *ticket.ResolutionDate)

	published := f.dispatcher.published(events.EventTicketStatusChanged)
	require.Len(t, published, 1)
	assert.True(t, published[0].Payload.(events.TicketStatusChangedPayload).Reopened)
}

func TestChangeStatusReopenRecomputesWorkload(t *testing.T) {
	f := newTicketFixture()
	techID := int64(7)
	resolvedAt := testNow.Add(-24 * time.Hour)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{
			ID:                   id,
			Status:               domain.TicketStatusResolved,
			AssignedTechnicianID: &techID,
			ResolvedAt:           &resolvedAt,
			CreatedAt:            testNow.Add(-48 * time.Hour),
		}, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		return &domain.Technician{ID: id, SkillLevel: domain.SkillLevelSenior, IsActive: true}, nil
	}
	var recomputedID int64
	f.technicians.RecomputeWorkloadFunc = func(ctx context.Context, id int64, capacity int) (int, error) {
		recomputedID = id
		assert.Equal(t, 8, capacity)
		return 50, nil
	}

	// Reopening gives the assignee an open ticket back, so workload moves.
	_, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusInProgress, "not fixed", testActor())
	require.NoError(t, err)
	assert.Equal(t, techID, recomputedID)
}

func TestChangeStatusTechnicianLookupFailureAborts(t *testing.T) {
	f := newTicketFixture()
	techID := int64(7)
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress, AssignedTechnicianID: &techID}, nil
	}
	f.technicians.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Technician, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusResolved, "", testActor())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INTERNAL_ERROR"))
	assert.Empty(t, f.audit.Entries)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	f := newTicketFixture()
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusOnHold}, nil
	}

	ticket, err := f.service.ChangeStatus(context.Background(), 5, domain.TicketStatusOnHold, "", testActor())
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOnHold, ticket.Status)
	assert.Empty(t, f.dispatcher.Events)
}

func TestCheckSLAViolation(t *testing.T) {
	t.Run("overdue active ticket is persisted sticky", func(t *testing.T) {
		f := newTicketFixture()
		overdue := testNow.Add(-time.Hour)
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress, ResolutionDue: &overdue}, nil
		}
		var marked bool
		f.tickets.MarkSLAViolatedFunc = func(ctx context.Context, id int64) error {
			marked = true
			return nil
		}

		violated, err := f.service.CheckSLAViolation(context.Background(), 5)
		require.NoError(t, err)
		assert.True(t, violated)
		assert.True(t, marked)
	})

	t.Run("resolved ticket does not violate even when overdue", func(t *testing.T) {
		f := newTicketFixture()
		overdue := testNow.Add(-time.Hour)
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusResolved, ResolutionDue: &overdue}, nil
		}

		violated, err := f.service.CheckSLAViolation(context.Background(), 5)
		require.NoError(t, err)
		assert.False(t, violated)
	})

	t.Run("previously recorded violation stays true", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusResolved, SLAViolated: true}, nil
		}

		violated, err := f.service.CheckSLAViolation(context.Background(), 5)
		require.NoError(t, err)
		assert.True(t, violated)
	})
}

func TestAddWorkLog(t *testing.T) {
	t.Run("empty note", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service.AddWorkLog(context.Background(), 5, "  ", testActor())
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("terminal ticket", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusClosed}, nil
		}
		_, err := f.service.AddWorkLog(context.Background(), 5, "checked the logs", testActor())
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})

	t.Run("success", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress}, nil
		}

		entry, err := f.service.AddWorkLog(context.Background(), 5, "replaced the toner cartridge", testActor())
		require.NoError(t, err)
		assert.Equal(t, int64(5), entry.TicketID)
		assert.Equal(t, domain.ActorAdmin, entry.ActorType)
		assert.Len(t, f.dispatcher.published(events.EventTicketWorkLogged), 1)
	})

	t.Run("preview truncates multibyte notes on rune boundaries", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress}, nil
		}

		note := strings.Repeat("ö", 130)
		_, err := f.service.AddWorkLog(context.Background(), 5, note, testActor())
		require.NoError(t, err)

		published := f.dispatcher.published(events.EventTicketWorkLogged)
		require.Len(t, published, 1)
		preview := published[0].Payload.(events.TicketWorkLoggedPayload).NotePreview
		assert.True(t, utf8.ValidString(preview))
		assert.Equal(t, 120, utf8.RuneCountInString(preview))
	})
}

func TestSubmitFeedback(t *testing.T) {
	rating := 4
	score := 8.5

	t.Run("rejected before settlement", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress}, nil
		}
		_, err := f.service.SubmitFeedback(context.Background(), 5, FeedbackInput{SatisfactionRating: &rating}, testActor())
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})

	t.Run("rating out of range", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusResolved}, nil
		}
		bad := 6
		_, err := f.service.SubmitFeedback(context.Background(), 5, FeedbackInput{SatisfactionRating: &bad}, testActor())
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("success on resolved ticket", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Status: domain.TicketStatusResolved}, nil
		}

		ticket, err := f.service.SubmitFeedback(context.Background(), 5, FeedbackInput{
			SatisfactionRating: &rating,
			Score:              &score,
		}, testActor())
		require.NoError(t, err)
		assert.Equal(t, rating, *ticket.SatisfactionRating)
		assert.Equal(t, score, *ticket.Score)
		assert.Len(t, f.dispatcher.published(events.EventTicketFeedbackReceived), 1)
	})
}

func TestEscalateBumpsPriorityAndCounter(t *testing.T) {
	f := newTicketFixture()
	f.tickets.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Ticket, error) {
		return &domain.Ticket{ID: id, Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityNormal}, nil
	}

	ticket, err := f.service.Escalate(context.Background(), 5, testActor())
	require.NoError(t, err)
	assert.Equal(t, 1, ticket.EscalationCount)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, domain.ChangeTypeEscalation, f.audit.Entries[0].ChangeType)
}
