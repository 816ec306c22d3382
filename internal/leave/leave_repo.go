package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveWithEmployee carries the request plus the owning employee's
// identity for admin-facing listings.
type LeaveWithEmployee struct {
	LeaveRequest
	EmpID    string `gorm:"column:emp_id"`
	FullName string `gorm:"column:full_name"`
}

// EmployeeRef is the minimal identity slice used for balance listings.
type EmployeeRef struct {
	UserID   uuid.UUID `gorm:"column:user_id"`
	EmpID    string    `gorm:"column:emp_id"`
	FullName string    `gorm:"column:full_name"`
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveWithEmployee, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error)
	FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]LeaveRequest, error)

	// UpdateStatus is a compare-and-set: the write succeeds only if the
	// row still holds expectedStatus at commit time. Returns false when
	// the precondition no longer holds.
	UpdateStatus(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error)

	FindEmployeeByEmpID(ctx context.Context, empID string) (*EmployeeRef, error)
	ListEmployees(ctx context.Context) ([]EmployeeRef, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction. Swapping the
// statement pool is the same mechanism gorm's own Transaction uses, so
// every query runs on tx until it commits or rolls back.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveWithEmployee, error) {
	var rows []LeaveWithEmployee
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_requests.*, employee_profiles.emp_id, employee_profiles.full_name").
		Joins("LEFT JOIN employee_profiles ON employee_profiles.user_id = leave_requests.user_id").
		Order("leave_requests.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", status).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, decidedBy *uuid.UUID) (bool, error) {
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}
	if decidedBy != nil {
		updates["decided_by"] = *decidedBy
		updates["decided_at"] = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", expectedStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindEmployeeByEmpID(ctx context.Context, empID string) (*EmployeeRef, error) {
	var ref EmployeeRef
	err := r.db.WithContext(ctx).
		Table("employee_profiles").
		Select("user_id, emp_id, full_name").
		Where("emp_id = ?", empID).
		Take(&ref).Error
	return &ref, err
}

func (r *repository) ListEmployees(ctx context.Context) ([]EmployeeRef, error) {
	var refs []EmployeeRef
	err := r.db.WithContext(ctx).
		Table("employee_profiles").
		Select("user_id, emp_id, full_name").
		Order("emp_id ASC").
		Scan(&refs).Error
	return refs, err
}
