package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceWithEmployee struct {
	Attendance
	EmpID    string `gorm:"column:emp_id"`
	FullName string `gorm:"column:full_name"`
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	ExistsForDate(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Attendance, error)
	FindAll(ctx context.Context) ([]AttendanceWithEmployee, error)
	FindAllByEmpID(ctx context.Context, empID string) ([]AttendanceWithEmployee, error)
	EmployeeExists(ctx context.Context, empID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ExistsForDate(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindAll(ctx context.Context) ([]AttendanceWithEmployee, error) {
	var rows []AttendanceWithEmployee
	err := r.db.WithContext(ctx).
		Table("attendances").
		Select("attendances.*, employee_profiles.emp_id, employee_profiles.full_name").
		Joins("LEFT JOIN employee_profiles ON employee_profiles.user_id = attendances.user_id").
		Order("attendances.date DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmpID(ctx context.Context, empID string) ([]AttendanceWithEmployee, error) {
	var rows []AttendanceWithEmployee
	err := r.db.WithContext(ctx).
		Table("attendances").
		Select("attendances.*, employee_profiles.emp_id, employee_profiles.full_name").
		Joins("JOIN employee_profiles ON employee_profiles.user_id = attendances.user_id").
		Where("employee_profiles.emp_id = ?", empID).
		Order("attendances.date DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) EmployeeExists(ctx context.Context, empID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employee_profiles").
		Where("emp_id = ?", empID).
		Count(&count).Error
	return count > 0, err
}
