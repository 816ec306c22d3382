package attendance

import (
	"context"
	"errors"
	"strings"
	"time"

	attendanceerrors "go-empms/internal/attendance/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Service interface {
	// Mark records today's attendance for the caller. The second call
	// on the same UTC day fails with a conflict, there is no update.
	Mark(ctx context.Context, userID string, req MarkAttendanceRequest) (AttendanceResponse, error)

	ListOwn(ctx context.Context, userID string) ([]AttendanceResponse, error)
	ListAll(ctx context.Context) ([]AttendanceResponse, error)
	ListByEmpID(ctx context.Context, empID string) ([]AttendanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Mark(ctx context.Context, userID string, req MarkAttendanceRequest) (AttendanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	exists, err := s.repo.ExistsForDate(ctx, uid, today)
	if err != nil {
		s.logger.Error("mark attendance pre-check failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if exists {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
	}

	checkIn, err := parseClock(today, req.CheckIn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkOut, err := parseClock(today, req.CheckOut)
	if err != nil {
		return AttendanceResponse{}, err
	}

	a := &Attendance{
		ID:       uuid.New(),
		UserID:   uid,
		Date:     today,
		Status:   req.Status,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		// Concurrent submissions race past the pre-check, the unique
		// index decides the winner.
		if isDuplicateDay(err) {
			s.logger.Warn("mark attendance lost duplicate race",
				zap.String("user_id", userID),
				zap.String("date", today.Format(dateLayout)),
			)
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
		}
		s.logger.Error("mark attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("mark attendance success",
		zap.String("user_id", userID),
		zap.String("date", today.Format(dateLayout)),
		zap.String("status", req.Status),
	)

	return mapToResponse(a), nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]AttendanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidUserID
	}

	records, err := s.repo.FindAllByUser(ctx, uid)
	if err != nil {
		s.logger.Error("list own attendance failed", zap.Error(err))
		return nil, err
	}

	resp := make([]AttendanceResponse, len(records))
	for i := range records {
		resp[i] = mapToResponse(&records[i])
	}
	return resp, nil
}

func (s *service) ListAll(ctx context.Context) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list all attendance failed", zap.Error(err))
		return nil, err
	}
	return mapJoinedRows(rows), nil
}

func (s *service) ListByEmpID(ctx context.Context, empID string) ([]AttendanceResponse, error) {
	exists, err := s.repo.EmployeeExists(ctx, empID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, attendanceerrors.ErrEmployeeNotFound
	}

	rows, err := s.repo.FindAllByEmpID(ctx, empID)
	if err != nil {
		s.logger.Error("list attendance by emp_id failed", zap.String("emp_id", empID), zap.Error(err))
		return nil, err
	}
	return mapJoinedRows(rows), nil
}

func parseClock(day time.Time, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimeFormat
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	return &t, nil
}

func isDuplicateDay(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_user_date"
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_user_date")
}

func mapJoinedRows(rows []AttendanceWithEmployee) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i := range rows {
		resp[i] = mapToResponse(&rows[i].Attendance)
		resp[i].EmpID = rows[i].EmpID
		resp[i].FullName = rows[i].FullName
	}
	return resp
}

func mapToResponse(a *Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:     a.ID.String(),
		UserID: a.UserID.String(),
		Date:   a.Date.Format(dateLayout),
		Status: a.Status,
	}
	if a.CheckIn != nil {
		resp.CheckIn = a.CheckIn.Format("15:04")
	}
	if a.CheckOut != nil {
		resp.CheckOut = a.CheckOut.Format("15:04")
	}
	return resp
}
