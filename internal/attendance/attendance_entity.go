package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLeave   = "leave"
)

// Attendance is write-once per (user, date). The unique index is the
// backstop for concurrent submissions that pass the pre-check.
type Attendance struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_date"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_user_date"`

	Status   string     `gorm:"type:varchar(20);not null"`
	CheckIn  *time.Time `gorm:"column:check_in"`
	CheckOut *time.Time `gorm:"column:check_out"`

	CreatedAt time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}
