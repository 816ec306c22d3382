package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-empms/internal/events"
	leaveerrors "go-empms/internal/leave/errors"
	"go-empms/internal/messaging/kafka"
	"go-empms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPendingManager = "pending_manager"
	StatusPendingAdmin   = "pending_admin"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
)

// AnnualEntitlement is the per-year allowance every employee draws
// from. The balance is always derived from approved requests, never
// stored.
const AnnualEntitlement = 20

const dateLayout = "2006-01-02"

type Service interface {
	Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveResponse, error)
	ListOwn(ctx context.Context, userID string) ([]LeaveResponse, error)
	ListAll(ctx context.Context) ([]LeaveResponse, error)

	// Advance moves a request from pending_manager to pending_admin.
	// Any other current status fails with a state conflict.
	Advance(ctx context.Context, actorID, id string) (LeaveResponse, error)

	// Decide resolves a request awaiting admin decision to approved or
	// rejected. Both outcomes are terminal.
	Decide(ctx context.Context, actorID, id, status string) (LeaveResponse, error)

	BalanceFor(ctx context.Context, userID uuid.UUID, year int) (int, error)
	GetOwnBalance(ctx context.Context, userID string, year int) (BalanceResponse, error)
	GetBalanceByEmpID(ctx context.Context, empID string, year int) (BalanceResponse, error)
	GetAllBalances(ctx context.Context, year int) ([]BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	l := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    uid,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    StatusPendingManager,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", userID),
		zap.Int("total_days", l.TotalDays()),
	)

	return mapToResponse(l), nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]LeaveResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidUserID
	}

	leaves, err := s.repo.FindAllByUser(ctx, uid)
	if err != nil {
		s.logger.Error("list own leaves failed", zap.Error(err))
		return nil, err
	}

	resp := make([]LeaveResponse, len(leaves))
	for i := range leaves {
		resp[i] = mapToResponse(&leaves[i])
	}
	return resp, nil
}

func (s *service) ListAll(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list all leaves failed", zap.Error(err))
		return nil, err
	}

	resp := make([]LeaveResponse, len(rows))
	for i := range rows {
		resp[i] = mapToResponse(&rows[i].LeaveRequest)
		resp[i].EmpID = rows[i].EmpID
		resp[i].FullName = rows[i].FullName
	}
	return resp, nil
}

func (s *service) Advance(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	ok, err := s.repo.UpdateStatus(ctx, leaveID, StatusPendingManager, StatusPendingAdmin, nil)
	if err != nil {
		s.logger.Error("advance leave update failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		// Distinguish a missing row from a stale precondition.
		if _, err := s.repo.FindByID(ctx, leaveID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			}
			return LeaveResponse{}, err
		}
		s.logger.Warn("advance leave stale status",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveResponse{}, leaveerrors.ErrNotAwaitingManager
	}

	l, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("advance leave success",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	return mapToResponse(l), nil
}

func (s *service) Decide(ctx context.Context, actorID, id, status string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if status != StatusApproved && status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	// The status change and its event share one transaction: either the
	// decision commits with its outbox row or neither does.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.UpdateStatus(ctx, leaveID, StatusPendingAdmin, status, &actorUUID)
	if err != nil {
		s.logger.Error("decide leave update failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		// Nothing was written, the deferred rollback discards nothing.
		if _, err := s.repo.FindByID(ctx, leaveID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			}
			return LeaveResponse{}, err
		}
		s.logger.Warn("decide leave stale status",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
			zap.String("requested_status", status),
		)
		return LeaveResponse{}, leaveerrors.ErrNotAwaitingAdmin
	}

	l, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		event := events.LeaveRequestDecidedEvent{
			EventType:      "leave_request_decided",
			RequestID:      rid,
			LeaveRequestID: l.ID.String(),
			UserID:         l.UserID.String(),
			Status:         l.Status,
			DecidedBy:      actorID,
			OccurredAt:     time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return LeaveResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave_request",
			AggregateID:   l.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveRequestDecidedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("decide leave outbox persist failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("status", status),
	)

	return mapToResponse(l), nil
}

// BalanceFor computes the remaining allowance for one year. Approved
// requests count entirely against the year their start date falls in,
// even when they cross into the next year.
func (s *service) BalanceFor(ctx context.Context, userID uuid.UUID, year int) (int, error) {
	approved, err := s.repo.FindByUserAndStatus(ctx, userID, StatusApproved)
	if err != nil {
		return 0, err
	}

	used := 0
	for i := range approved {
		if approved[i].StartDate.Year() == year {
			used += approved[i].TotalDays()
		}
	}

	return AnnualEntitlement - used, nil
}

func (s *service) GetOwnBalance(ctx context.Context, userID string, year int) (BalanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidUserID
	}

	balance, err := s.BalanceFor(ctx, uid, year)
	if err != nil {
		s.logger.Error("own balance computation failed", zap.String("user_id", userID), zap.Error(err))
		return BalanceResponse{}, err
	}

	return BalanceResponse{
		Year:        year,
		Entitlement: AnnualEntitlement,
		UsedDays:    AnnualEntitlement - balance,
		Balance:     balance,
	}, nil
}

func (s *service) GetBalanceByEmpID(ctx context.Context, empID string, year int) (BalanceResponse, error) {
	ref, err := s.repo.FindEmployeeByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return BalanceResponse{}, err
	}

	balance, err := s.BalanceFor(ctx, ref.UserID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	return BalanceResponse{
		EmpID:       ref.EmpID,
		FullName:    ref.FullName,
		Year:        year,
		Entitlement: AnnualEntitlement,
		UsedDays:    AnnualEntitlement - balance,
		Balance:     balance,
	}, nil
}

func (s *service) GetAllBalances(ctx context.Context, year int) ([]BalanceResponse, error) {
	refs, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, 0, len(refs))
	for _, ref := range refs {
		balance, err := s.BalanceFor(ctx, ref.UserID, year)
		if err != nil {
			s.logger.Warn("balance computation failed",
				zap.String("emp_id", ref.EmpID),
				zap.Error(err),
			)
			continue
		}
		resp = append(resp, BalanceResponse{
			EmpID:       ref.EmpID,
			FullName:    ref.FullName,
			Year:        year,
			Entitlement: AnnualEntitlement,
			UsedDays:    AnnualEntitlement - balance,
			Balance:     balance,
		})
	}

	return resp, nil
}

func mapToResponse(l *LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		StartDate: l.StartDate.Format(dateLayout),
		EndDate:   l.EndDate.Format(dateLayout),
		TotalDays: l.TotalDays(),
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.DecidedBy != nil {
		decidedBy := l.DecidedBy.String()
		resp.DecidedBy = &decidedBy
	}
	if l.DecidedAt != nil {
		decidedAt := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	return resp
}
