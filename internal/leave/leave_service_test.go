package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-empms/internal/leave"
	leaveerrors "go-empms/internal/leave/errors"
	"go-empms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn              func(tx *sql.Tx) leave.Repository
	createFn              func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn            func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error)
	findAllFn             func(ctx context.Context) ([]leave.LeaveWithEmployee, error)
	findAllByUserFn       func(ctx context.Context, userID uuid.UUID) ([]leave.LeaveRequest, error)
	findByUserAndStatusFn func(ctx context.Context, userID uuid.UUID, status string) ([]leave.LeaveRequest, error)
	updateStatusFn        func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error)
	findEmployeeFn        func(ctx context.Context, empID string) (*leave.EmployeeRef, error)
	listEmployeesFn       func(ctx context.Context) ([]leave.EmployeeRef, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveWithEmployee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]leave.LeaveRequest, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]leave.LeaveRequest, error) {
	if f.findByUserAndStatusFn != nil {
		return f.findByUserAndStatusFn(ctx, userID, status)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, expectedStatus, newStatus, decidedBy)
	}
	return false, nil
}

func (f *fakeLeaveRepository) FindEmployeeByEmpID(ctx context.Context, empID string) (*leave.EmployeeRef, error) {
	if f.findEmployeeFn != nil {
		return f.findEmployeeFn(ctx, empID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) ListEmployees(ctx context.Context) ([]leave.EmployeeRef, error) {
	if f.listEmployeesFn != nil {
		return f.listEmployeesFn(ctx)
	}
	return nil, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListDue(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewService(db, repo, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success starts in pending_manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		resp, err := deps.service.Submit(ctx, userID, leave.SubmitLeaveRequest{
			StartDate: "2024-03-01",
			EndDate:   "2024-03-05",
			Reason:    "family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPendingManager, resp.Status)
		assert.Equal(t, 5, resp.TotalDays)
		assert.NotNil(t, created)
		assert.Equal(t, leave.StatusPendingManager, created.Status)
	})

	t.Run("negative start after end", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		createCalled := false
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			createCalled = true
			return nil
		}

		_, err := deps.service.Submit(ctx, userID, leave.SubmitLeaveRequest{
			StartDate: "2024-03-10",
			EndDate:   "2024-03-05",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
		assert.False(t, createCalled)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, userID, leave.SubmitLeaveRequest{
			StartDate: "03/01/2024",
			EndDate:   "2024-03-05",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, "not-a-uuid", leave.SubmitLeaveRequest{
			StartDate: "2024-03-01",
			EndDate:   "2024-03-05",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidUserID)
	})
}

func TestLeaveService_Advance(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	leaveID := uuid.New()

	t.Run("success pending_manager to pending_admin", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			assert.Equal(t, leaveID, id)
			assert.Equal(t, leave.StatusPendingManager, expectedStatus)
			assert.Equal(t, leave.StatusPendingAdmin, newStatus)
			assert.Nil(t, decidedBy)
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:        leaveID,
				UserID:    uuid.New(),
				StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
				Status:    leave.StatusPendingAdmin,
			}, nil
		}

		resp, err := deps.service.Advance(ctx, actorID, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPendingAdmin, resp.Status)
	})

	t.Run("negative stale status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID, Status: leave.StatusPendingAdmin}, nil
		}

		_, err := deps.service.Advance(ctx, actorID, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotAwaitingManager)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Advance(ctx, actorID, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Advance(ctx, actorID, "nope")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	leaveID := uuid.New()

	decided := func(status string) *leave.LeaveRequest {
		decidedBy := uuid.MustParse(actorID)
		now := time.Now().UTC()
		return &leave.LeaveRequest{
			ID:        leaveID,
			UserID:    uuid.New(),
			StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Status:    status,
			DecidedBy: &decidedBy,
			DecidedAt: &now,
		}
	}

	t.Run("success approve queues outbox event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			assert.Equal(t, leave.StatusPendingAdmin, expectedStatus)
			assert.Equal(t, leave.StatusApproved, newStatus)
			assert.NotNil(t, decidedBy)
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return decided(leave.StatusApproved), nil
		}

		var queued *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			queued = &event
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Decide(ctx, actorID, leaveID.String(), leave.StatusApproved)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, queued)
		assert.Equal(t, "leave_request_decided", queued.EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			assert.Equal(t, leave.StatusRejected, newStatus)
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return decided(leave.StatusRejected), nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Decide(ctx, actorID, leaveID.String(), leave.StatusRejected)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})

	t.Run("negative outbox failure rolls back decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			return true, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return decided(leave.StatusApproved), nil
		}
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			return errors.New("outbox insert failed")
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, actorID, leaveID.String(), leave.StatusApproved)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative still awaiting manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID, Status: leave.StatusPendingManager}, nil
		}

		_, err := deps.service.Decide(ctx, actorID, leaveID.String(), leave.StatusApproved)

		assert.ErrorIs(t, err, leaveerrors.ErrNotAwaitingAdmin)
	})

	t.Run("negative terminal state cannot be redecided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return decided(leave.StatusApproved), nil
		}

		_, err := deps.service.Decide(ctx, actorID, leaveID.String(), leave.StatusRejected)

		assert.ErrorIs(t, err, leaveerrors.ErrNotAwaitingAdmin)
	})

	t.Run("negative unknown target status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Decide(ctx, actorID, leaveID.String(), "cancelled")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
			return false, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Decide(ctx, actorID, leaveID.String(), leave.StatusApproved)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_BalanceFor(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	approvedRequest := func(start, end string) leave.LeaveRequest {
		startDate, _ := time.Parse("2006-01-02", start)
		endDate, _ := time.Parse("2006-01-02", end)
		return leave.LeaveRequest{
			ID:        uuid.New(),
			UserID:    userID,
			StartDate: startDate,
			EndDate:   endDate,
			Status:    leave.StatusApproved,
		}
	}

	t.Run("five approved days leave fifteen", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByUserAndStatusFn = func(ctx context.Context, uid uuid.UUID, status string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, leave.StatusApproved, status)
			return []leave.LeaveRequest{approvedRequest("2024-03-01", "2024-03-05")}, nil
		}

		balance, err := deps.service.BalanceFor(ctx, userID, 2024)

		assert.NoError(t, err)
		assert.Equal(t, 15, balance)
	})

	t.Run("year boundary attributed to start year", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByUserAndStatusFn = func(ctx context.Context, uid uuid.UUID, status string) ([]leave.LeaveRequest, error) {
			// 2024-12-30 .. 2025-01-02 is four days, all charged to 2024.
			return []leave.LeaveRequest{approvedRequest("2024-12-30", "2025-01-02")}, nil
		}

		balance2024, err := deps.service.BalanceFor(ctx, userID, 2024)
		assert.NoError(t, err)
		assert.Equal(t, 16, balance2024)

		balance2025, err := deps.service.BalanceFor(ctx, userID, 2025)
		assert.NoError(t, err)
		assert.Equal(t, 20, balance2025)
	})

	t.Run("no approved requests full entitlement", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		balance, err := deps.service.BalanceFor(ctx, userID, 2024)

		assert.NoError(t, err)
		assert.Equal(t, leave.AnnualEntitlement, balance)
	})

	t.Run("negative store failure", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByUserAndStatusFn = func(ctx context.Context, uid uuid.UUID, status string) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.BalanceFor(ctx, userID, 2024)

		assert.Error(t, err)
	})
}

func TestLeaveService_GetBalanceByEmpID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		userID := uuid.New()
		deps.repo.findEmployeeFn = func(ctx context.Context, empID string) (*leave.EmployeeRef, error) {
			return &leave.EmployeeRef{UserID: userID, EmpID: empID, FullName: "Dana Field"}, nil
		}
		deps.repo.findByUserAndStatusFn = func(ctx context.Context, uid uuid.UUID, status string) ([]leave.LeaveRequest, error) {
			return nil, nil
		}

		resp, err := deps.service.GetBalanceByEmpID(ctx, "EMP-000001", 2024)

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmpID)
		assert.Equal(t, 20, resp.Balance)
		assert.Equal(t, 0, resp.UsedDays)
	})

	t.Run("negative unknown emp_id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findEmployeeFn = func(ctx context.Context, empID string) (*leave.EmployeeRef, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetBalanceByEmpID(ctx, "EMP-999999", 2024)

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
	})
}
