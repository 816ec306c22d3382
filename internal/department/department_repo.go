package department

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentWithCount struct {
	Department
	MemberCount int64 `gorm:"column:member_count"`
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, dept *Department) error
	FindAllWithCounts(ctx context.Context) ([]DepartmentWithCount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
	FindOptions(ctx context.Context) ([]Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *repository) FindAllWithCounts(ctx context.Context) ([]DepartmentWithCount, error) {
	var rows []DepartmentWithCount
	err := r.db.WithContext(ctx).
		Table("departments").
		Select("departments.*, COUNT(employee_profiles.id) AS member_count").
		Joins("LEFT JOIN employee_profiles ON employee_profiles.department_id = departments.id").
		Group("departments.id").
		Order("departments.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	var dept Department
	err := r.db.WithContext(ctx).First(&dept, "id = ?", id).Error
	return &dept, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Department, error) {
	var depts []Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

// Delete removes the row only. Employee profiles that referenced it
// get department_id NULL through the foreign key.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Department{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
