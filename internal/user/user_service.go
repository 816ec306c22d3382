package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-empms/internal/events"
	"go-empms/internal/messaging/kafka"
	"go-empms/internal/rbac"
	"go-empms/internal/shared/contextutil"
	"go-empms/internal/shared/counter"
	usererrors "go-empms/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BalanceReader reports the remaining leave allowance for one user in
// a given year. Implemented by the leave service.
type BalanceReader interface {
	BalanceFor(ctx context.Context, userID uuid.UUID, year int) (int, error)
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByEmpID(ctx context.Context, empID string) (EmployeeResponse, error)
	UpdateByEmpID(ctx context.Context, empID string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	GetProfile(ctx context.Context, userID string) (EmployeeResponse, error)
	UpdateContact(ctx context.Context, userID string, req UpdateContactRequest) (EmployeeResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	balances BalanceReader
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	balances BalanceReader,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counterRepo,
		outbox:   outboxRepo,
		balances: balances,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	role := req.Role
	if role == "" {
		role = rbac.RoleEmployee
	}
	if !rbac.ValidRole(role) {
		return EmployeeResponse{}, usererrors.ErrInvalidRole
	}

	var hireDate *time.Time
	if req.HireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return EmployeeResponse{}, usererrors.ErrInvalidHireDate
		}
		hireDate = &parsed
	}

	var departmentID *uuid.UUID
	if req.DepartmentID != "" {
		deptID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, usererrors.ErrDepartmentNotFound
		}
		exists, err := s.repo.DepartmentExists(ctx, deptID)
		if err != nil {
			s.logger.Error("create employee department lookup failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, usererrors.ErrDepartmentNotFound
		}
		departmentID = &deptID
	}

	if req.EmpID == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "emp_id")
		if err != nil {
			s.logger.Error("create employee generate emp_id failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmpID = fmt.Sprintf("EMP-%06d", nextVal)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	u := &User{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
		Profile: &EmployeeProfile{
			ID:           uuid.New(),
			EmpID:        req.EmpID,
			FullName:     req.FullName,
			Phone:        req.Phone,
			Address:      req.Address,
			Position:     req.Position,
			DepartmentID: departmentID,
			HireDate:     hireDate,
		},
	}
	u.Profile.UserID = u.ID

	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateWithProfile(ctx, u); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid,
			UserID:     u.ID.String(),
			EmpID:      u.Profile.EmpID,
			Email:      u.Email,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   u.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
		zap.String("emp_id", u.Profile.EmpID),
	)

	return mapToResponse(u, nil), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	year := time.Now().UTC().Year()
	resp := make([]EmployeeResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		var balance *int
		if s.balances != nil && u.Profile != nil {
			b, err := s.balances.BalanceFor(ctx, u.ID, year)
			if err != nil {
				s.logger.Warn("balance lookup failed", zap.String("user_id", u.ID.String()), zap.Error(err))
			} else {
				balance = &b
			}
		}
		resp = append(resp, mapToResponse(u, balance))
	}

	return resp, nil
}

func (s *service) GetByEmpID(ctx context.Context, empID string) (EmployeeResponse, error) {
	u, err := s.repo.FindByEmpID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(u, nil), nil
}

func (s *service) UpdateByEmpID(ctx context.Context, empID string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	u, err := s.repo.FindByEmpID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if u.Profile == nil {
		return EmployeeResponse{}, usererrors.ErrProfileMissing
	}

	if req.FullName != nil {
		u.Profile.FullName = *req.FullName
	}
	if req.Phone != nil {
		u.Profile.Phone = *req.Phone
	}
	if req.Address != nil {
		u.Profile.Address = *req.Address
	}
	if req.Position != nil {
		u.Profile.Position = *req.Position
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			u.Profile.DepartmentID = nil
		} else {
			deptID, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				return EmployeeResponse{}, usererrors.ErrDepartmentNotFound
			}
			exists, err := s.repo.DepartmentExists(ctx, deptID)
			if err != nil {
				return EmployeeResponse{}, err
			}
			if !exists {
				return EmployeeResponse{}, usererrors.ErrDepartmentNotFound
			}
			u.Profile.DepartmentID = &deptID
		}
		// Stale preload after reassignment.
		u.Profile.Department = nil
	}

	if err := s.repo.SaveProfile(ctx, u.Profile); err != nil {
		s.logger.Error("update employee persist failed", zap.String("emp_id", empID), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Role != nil && *req.Role != u.Role {
		if !rbac.ValidRole(*req.Role) {
			return EmployeeResponse{}, usererrors.ErrInvalidRole
		}
		if err := s.repo.UpdateRole(ctx, u.ID, *req.Role); err != nil {
			s.logger.Error("update employee role failed", zap.String("emp_id", empID), zap.Error(err))
			return EmployeeResponse{}, mapRepositoryError(err)
		}
		u.Role = *req.Role
	}

	s.logger.Info("update employee success", zap.String("emp_id", empID))

	return mapToResponse(u, nil), nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (EmployeeResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return EmployeeResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(u, nil), nil
}

func (s *service) UpdateContact(ctx context.Context, userID string, req UpdateContactRequest) (EmployeeResponse, error) {
	if req.Phone == nil && req.Address == nil {
		return EmployeeResponse{}, usererrors.ErrNoContactFields
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return EmployeeResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if u.Profile == nil {
		return EmployeeResponse{}, usererrors.ErrProfileMissing
	}

	if req.Phone != nil {
		u.Profile.Phone = *req.Phone
	}
	if req.Address != nil {
		u.Profile.Address = *req.Address
	}

	if err := s.repo.SaveProfile(ctx, u.Profile); err != nil {
		s.logger.Error("update contact persist failed", zap.String("user_id", userID), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(u, nil), nil
}

func mapToResponse(u *User, balance *int) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Role:         u.Role,
		LeaveBalance: balance,
	}
	if u.Profile != nil {
		resp.EmpID = u.Profile.EmpID
		resp.FullName = u.Profile.FullName
		resp.Phone = u.Profile.Phone
		resp.Address = u.Profile.Address
		resp.Position = u.Profile.Position
		if u.Profile.DepartmentID != nil {
			resp.DepartmentID = u.Profile.DepartmentID.String()
		}
		if u.Profile.Department != nil {
			resp.Department = u.Profile.Department.Name
		}
		if u.Profile.HireDate != nil {
			resp.HireDate = u.Profile.HireDate.Format("2006-01-02")
		}
	}
	return resp
}
