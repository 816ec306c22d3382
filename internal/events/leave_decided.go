package events

import "time"

const LeaveRequestDecidedTopic = "empms.leave.decision.v1"

// LeaveRequestDecidedEvent is emitted when a request reaches a final
// status, approved or rejected. Intermediate manager advancement does
// not produce an event.
type LeaveRequestDecidedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	UserID         string    `json:"user_id"`
	Status         string    `json:"status"`
	DecidedBy      string    `json:"decided_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
