package events

import "time"

const EmployeeCreatedTopic = "empms.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id"`
	EmpID      string    `json:"emp_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
