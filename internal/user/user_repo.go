package user

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateWithProfile(ctx context.Context, u *User) error
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmpID(ctx context.Context, empID string) (*User, error)
	SaveProfile(ctx context.Context, p *EmployeeProfile) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
	DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error)
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

// CreateWithProfile inserts the account and its profile together. Gorm
// runs parent and association in one transaction, so a failed profile
// insert rolls the account back too.
func (r *repository) CreateWithProfile(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.Department").
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.Department").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmpID(ctx context.Context, empID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.Department").
		Joins("JOIN employee_profiles ON employee_profiles.user_id = users.id").
		Where("employee_profiles.emp_id = ?", empID).
		First(&u).Error
	return &u, err
}

func (r *repository) SaveProfile(ctx context.Context, p *EmployeeProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

func (r *repository) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
