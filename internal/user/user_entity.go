package user

import (
	"time"

	"go-empms/internal/department"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_user_email"`
	Password  string    `gorm:"column:password;type:text;not null"`
	Role      string    `gorm:"column:role;type:varchar(50);not null;default:employee"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// A user without a profile is a bare account (e.g. the seeded
	// admin). Deleting the user removes the profile with it.
	Profile *EmployeeProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

type EmployeeProfile struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	EmpID        string     `gorm:"column:emp_id;type:varchar(20);not null;uniqueIndex:uq_profile_emp_id"`
	FullName     string     `gorm:"column:full_name;type:varchar(255);not null"`
	Phone        string     `gorm:"column:phone;type:varchar(50)"`
	Address      string     `gorm:"column:address;type:text"`
	Position     string     `gorm:"column:position;type:varchar(100)"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid;index"`
	HireDate     *time.Time `gorm:"column:hire_date;type:date"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// SET NULL on department delete keeps employees around when a
	// department is dissolved.
	Department *department.Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`
}

func (EmployeeProfile) TableName() string {
	return "employee_profiles"
}
